// Package fitness compiles user supplied fitness expressions of one
// variable x into fitness functions.
//
// Expressions use expr-lang syntax with ^ and ** as power. The math
// functions sin, cos, tan, asin, acos, atan, sinh, cosh, tanh, sqrt, cbrt,
// exp, log, log2, log10, pow and signum are available alongside the
// language builtins abs, ceil, floor, round, min and max, and the
// constants pi and e.
package fitness

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
)

// ErrInvalidExpression wraps compile and probe failures
var ErrInvalidExpression = errors.New("invalid fitness expression")

type env struct {
	X  float64 `expr:"x"`
	Pi float64 `expr:"pi"`
	E  float64 `expr:"e"`

	Sin    func(float64) float64          `expr:"sin"`
	Cos    func(float64) float64          `expr:"cos"`
	Tan    func(float64) float64          `expr:"tan"`
	Asin   func(float64) float64          `expr:"asin"`
	Acos   func(float64) float64          `expr:"acos"`
	Atan   func(float64) float64          `expr:"atan"`
	Sinh   func(float64) float64          `expr:"sinh"`
	Cosh   func(float64) float64          `expr:"cosh"`
	Tanh   func(float64) float64          `expr:"tanh"`
	Sqrt   func(float64) float64          `expr:"sqrt"`
	Cbrt   func(float64) float64          `expr:"cbrt"`
	Exp    func(float64) float64          `expr:"exp"`
	Log    func(float64) float64          `expr:"log"`
	Log2   func(float64) float64          `expr:"log2"`
	Log10  func(float64) float64          `expr:"log10"`
	Pow    func(float64, float64) float64 `expr:"pow"`
	Signum func(float64) float64          `expr:"signum"`
}

var baseEnv = env{
	Pi:     math.Pi,
	E:      math.E,
	Sin:    math.Sin,
	Cos:    math.Cos,
	Tan:    math.Tan,
	Asin:   math.Asin,
	Acos:   math.Acos,
	Atan:   math.Atan,
	Sinh:   math.Sinh,
	Cosh:   math.Cosh,
	Tanh:   math.Tanh,
	Sqrt:   math.Sqrt,
	Cbrt:   math.Cbrt,
	Exp:    math.Exp,
	Log:    math.Log,
	Log2:   math.Log2,
	Log10:  math.Log10,
	Pow:    math.Pow,
	Signum: signum,
}

func signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return v
	}
}

// Expression is a compiled fitness expression. It is safe for concurrent
// use.
type Expression struct {
	source   string
	knownMin float64
	program  *vm.Program
}

// Compile parses and type-checks expression. knownMin is added to every
// evaluation so that fitness can be shifted to be non-negative.
func Compile(expression string, knownMin float64) (*Expression, error) {
	source := strings.TrimSpace(expression)
	if source == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrInvalidExpression)
	}
	if math.IsNaN(knownMin) || math.IsInf(knownMin, 0) {
		return nil, fmt.Errorf("%w: known_min must be finite, got %v", ErrInvalidExpression, knownMin)
	}

	program, err := expr.Compile(source, expr.Env(env{}), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidExpression, source, err)
	}
	return &Expression{source: source, knownMin: knownMin, program: program}, nil
}

// Source returns the trimmed expression text
func (e *Expression) Source() string { return e.source }

// KnownMin returns the offset added to every evaluation
func (e *Expression) KnownMin() float64 { return e.knownMin }

// Eval evaluates the expression at x, offset by KnownMin
func (e *Expression) Eval(x float64) (float64, error) {
	in := baseEnv
	in.X = x
	out, err := expr.Run(e.program, in)
	if err != nil {
		return 0, fmt.Errorf("evaluate %q at x=%v: %w", e.source, x, err)
	}
	f, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("evaluate %q at x=%v: result %T is not a number", e.source, x, out)
	}
	return f + e.knownMin, nil
}

// ExhaustiveSpan is the widest range Validate checks point by point. Wider
// ranges are probed at min, midpoint and max only.
const ExhaustiveSpan = 1 << 16

// Validate evaluates the expression at every integer of [min, max] when the
// span is at most ExhaustiveSpan, otherwise at min, max and their midpoint.
// Errors and non-finite results are configuration errors.
func (e *Expression) Validate(min, max int64) error {
	if min > max {
		return fmt.Errorf("%w: empty range [%d, %d]", ErrInvalidExpression, min, max)
	}
	if uint64(max-min) <= ExhaustiveSpan {
		for x := min; ; x++ {
			if err := e.probe(x); err != nil {
				return err
			}
			if x == max {
				return nil
			}
		}
	}
	for _, x := range []int64{min, min + (max-min)/2, max} {
		if err := e.probe(x); err != nil {
			return err
		}
	}
	return nil
}

func (e *Expression) probe(x int64) error {
	f, err := e.Eval(float64(x))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %q is not finite at x=%d", ErrInvalidExpression, e.source, x)
	}
	return nil
}

// Func adapts the expression to a fitness function. Evaluation errors
// surface as NaN, which selection rejects.
func (e *Expression) Func() genome.FitnessFunc {
	return func(x float64) float64 {
		f, err := e.Eval(x)
		if err != nil {
			return math.NaN()
		}
		return f
	}
}

func (e *Expression) String() string { return e.source }
