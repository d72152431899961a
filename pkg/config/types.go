package config

// Config represents a complete GA simulation configuration
type Config struct {
	LogLevel   string     `yaml:"log_level"`
	Simulation Simulation `yaml:"simulation"`
	Range      Range      `yaml:"range"`
	Population Population `yaml:"population"`
	Fitness    Fitness    `yaml:"fitness"`
	Output     Output     `yaml:"output"`
}

// Simulation controls how many independent runs execute and on how many workers
type Simulation struct {
	RunCount    int   `yaml:"run_count"`
	ThreadCount int   `yaml:"thread_count"`
	Seed        int64 `yaml:"seed,omitempty"` // 0 = time-based
}

// Range is the encodable integer domain [min, max]
type Range struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// Population holds the per-run evolution parameters
type Population struct {
	Size                int     `yaml:"size"`
	MaxGenerations      int     `yaml:"max_generations"`
	Elitism             int     `yaml:"elitism"`
	MutationProbability float64 `yaml:"mutation_probability"` // per bit, 0-1
	SigmaScaling        bool    `yaml:"sigma_scaling"`
}

// Fitness describes the fitness expression and the known-solution stop
type Fitness struct {
	Expression         string  `yaml:"expression"`
	AllowKnownSolution bool    `yaml:"allow_known_solution"`
	KnownMax           float64 `yaml:"known_max"`
	KnownMin           float64 `yaml:"known_min"` // added to every evaluation
}

// Output holds the verbosity flags for the text report
type Output struct {
	GenDetail  bool `yaml:"gen_detail"`
	GenSummary bool `yaml:"gen_summary"`
	RunSummary bool `yaml:"run_summary"`
}

// Default returns the configuration used when a document leaves fields out
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Simulation: Simulation{
			RunCount:    100,
			ThreadCount: 4,
		},
		Range: Range{Min: 0, Max: 7},
		Population: Population{
			Size:           4,
			MaxGenerations: 10,
		},
		Fitness: Fitness{
			Expression: "x*x",
			KnownMax:   49,
		},
		Output: Output{RunSummary: true},
	}
}
