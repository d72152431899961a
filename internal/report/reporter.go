// Package report renders engine events as the human readable simulation
// report.
package report

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/GoSim-25-26J-441/genetic-core/internal/engine"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/config"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
)

const (
	ruleThin  = "-------------------------------------------------"
	ruleThick = "======================================"
	ruleSum   = "------------------------------------------"
)

// Verbosity selects which parts of the report are produced
type Verbosity struct {
	// GenDetail describes selection, mating and mutation
	GenDetail bool
	// GenSummary describes every generation's population
	GenSummary bool
	// RunSummary adds a closing block per run
	RunSummary bool
}

// VerbosityFromOutput maps the output section of a configuration
func VerbosityFromOutput(o config.Output) Verbosity {
	return Verbosity{GenDetail: o.GenDetail, GenSummary: o.GenSummary, RunSummary: o.RunSummary}
}

type runBuffer struct {
	b          strings.Builder
	generation int
	// generation of the last mutation event
	mutated int
}

// Reporter is an engine.Observer. Text for a run is buffered and handed to
// the sink as one block when the run completes, so output of concurrent
// runs never interleaves. The simulation summary is always written.
type Reporter struct {
	verbosity Verbosity
	sink      Sink
	log       *slog.Logger

	mu   sync.Mutex
	runs map[int]*runBuffer
}

// New creates a reporter writing to sink
func New(v Verbosity, sink Sink) *Reporter {
	return &Reporter{
		verbosity: v,
		sink:      sink,
		log:       logger.Default,
		runs:      make(map[int]*runBuffer),
	}
}

// Observe implements engine.Observer
func (r *Reporter) Observe(e engine.Event) {
	switch e.Type {
	case engine.EventTypeRunCompleted:
		r.completeRun(e)
		return
	case engine.EventTypeSimulationCompleted:
		if e.Summary != nil {
			r.write(0, FormatSummary(e.Summary))
		}
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	buf := r.buffer(e.Run)
	switch e.Type {
	case engine.EventTypeRunStarted:
		if r.verbosity.GenSummary {
			fmt.Fprintf(&buf.b, "\nRun %d Generation 0 (initial population)", e.Run)
			describePopulation(&buf.b, e)
			buf.b.WriteString("\n")
		}
	case engine.EventTypeGenerationCompleted:
		if r.verbosity.GenDetail {
			if e.MutationProbability > 0 && buf.mutated != e.Generation {
				buf.b.WriteString("\nNo mutations occurred")
			}
			if buf.generation == e.Generation {
				buf.b.WriteString("\n")
			}
		}
		if r.verbosity.GenSummary {
			fmt.Fprintf(&buf.b, "\n\nRun %d Generation %d", e.Run, e.Generation)
			describePopulation(&buf.b, e)
			if e.Improved {
				buf.b.WriteString("\nBest solution improved!\n")
			} else {
				fmt.Fprintf(&buf.b, "\nBest solution has not improved since generation %d\n", e.BestGeneration)
			}
		}
	default:
		if r.verbosity.GenDetail {
			r.detail(buf, e)
		}
	}
}

func (r *Reporter) detail(buf *runBuffer, e engine.Event) {
	if buf.generation != e.Generation {
		buf.generation = e.Generation
		fmt.Fprintf(&buf.b, "\n\n - - - - - - - - Run %d iteration %d - - - - - - - -", e.Run, e.Generation)
	}

	switch e.Type {
	case engine.EventTypeElitePreserved:
		fmt.Fprintf(&buf.b, "\nElite %s kept with fitness %s", describe(e.Subject), formatFloat(e.Subject.Fitness))
	case engine.EventTypeSelection:
		buf.b.WriteString("\n - - - - Fitness Proportional Selection - - - -")
		for i, ch := range e.Population {
			fmt.Fprintf(&buf.b, "\nChromosome  %s (%d) : Fitness = %s : Proportion = %.2f",
				ch.Genes, ch.Value, formatFloat(at(e.Fitness, i)), at(e.Proportions, i))
		}
	case engine.EventTypeParentsMated:
		fmt.Fprintf(&buf.b, "\nMated %s with %s -> %s, %s",
			describe(e.Subject), describe(e.Partner), describe(&e.Children[0]), describe(&e.Children[1]))
	case engine.EventTypeParentsCloned:
		switch e.Reason {
		case engine.CloneReasonNoViableMate:
			fmt.Fprintf(&buf.b, "\nNo viable mating pair; cloning %s", describe(e.Subject))
		default:
			fmt.Fprintf(&buf.b, "\nNo valid crossover point; cloning %s", describe(e.Subject))
		}
	case engine.EventTypeChromosomeMutated:
		buf.mutated = e.Generation
		if e.Kept {
			fmt.Fprintf(&buf.b, "\nMutated bit %d: %s -> %s", e.Bit, describe(e.Subject), describe(e.Mutated))
		} else {
			fmt.Fprintf(&buf.b, "\nMutation of bit %d in %s reverted (out of range)", e.Bit, describe(e.Subject))
		}
	}
}

func (r *Reporter) completeRun(e engine.Event) {
	r.mu.Lock()
	buf := r.buffer(e.Run)
	delete(r.runs, e.Run)
	r.mu.Unlock()

	if r.verbosity.RunSummary && e.Best != nil {
		fmt.Fprintf(&buf.b, "\n\n%s\nRun %d complete, best generation = %d\nBest value = %s with fitness %s\n",
			ruleThick, e.Run, e.BestGeneration, describe(e.Best), formatFloat(e.Best.Fitness))
		if e.SolutionFound {
			fmt.Fprintf(&buf.b, "Known solution found at generation %d\n", e.Generation)
		}
		fmt.Fprintf(&buf.b, "%s\n\n", ruleThick)
	}

	if buf.b.Len() > 0 {
		r.write(e.Run, buf.b.String())
	}
}

func (r *Reporter) write(run int, text string) {
	if err := r.sink.WriteBlock(run, text); err != nil {
		r.log.Warn("failed to write report", "run", run, "error", err)
	}
}

// buffer must be called with mu held
func (r *Reporter) buffer(run int) *runBuffer {
	buf, ok := r.runs[run]
	if !ok {
		buf = &runBuffer{}
		r.runs[run] = buf
	}
	return buf
}

// FormatSummary renders the aggregate block of a finished simulation
func FormatSummary(s *engine.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d Simulations completed in %dms using %d threads\n", s.Runs, s.Elapsed.Milliseconds(), s.Threads)
	b.WriteString(ruleSum)
	b.WriteString("\nGenerations before completion:\n")
	b.WriteString(formatInts(s.BestGenerations))
	fmt.Fprintf(&b, "\nAverage: %d, Max: %d\n", s.AverageBestGeneration, s.MaxBestGeneration)
	if s.SolvedRuns > 0 {
		fmt.Fprintf(&b, "Known solution found in %d of %d runs\n", s.SolvedRuns, s.Runs)
	}
	b.WriteString("\n")
	return b.String()
}

func describePopulation(b *strings.Builder, e engine.Event) {
	genes := make([]string, len(e.Population))
	for i, ch := range e.Population {
		genes[i] = ch.Genes
	}
	fmt.Fprintf(b, "\n%s\nPopulation = %s", ruleThin, strings.Join(genes, " "))
	if e.Stats != nil {
		fmt.Fprintf(b, "\nFitness: Total = %s, Average = %s", formatFloat(e.Stats.Total), formatFloat(e.Stats.Average))
	}
	if e.Best != nil {
		fmt.Fprintf(b, "\nBest solution = %s with fitness %s", describe(e.Best), formatFloat(e.Best.Fitness))
	}
	fmt.Fprintf(b, "\n%s", ruleThin)
}

func describe(v *engine.ChromosomeView) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%d)", v.Genes, v.Value)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
