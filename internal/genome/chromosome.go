package genome

import (
	"errors"
	"fmt"
)

// ErrCrossoverExhausted is returned by Mate when no split point produces two
// in-range children. Callers recover from it.
var ErrCrossoverExhausted = errors.New("crossover attempts exhausted")

// FitnessFunc maps a decoded value to its fitness. It must be pure and safe
// for concurrent use.
type FitnessFunc func(x float64) float64

// Rand is the randomness a chromosome operator needs
type Rand interface {
	Intn(n int) int
	Float64() float64
	IntRange(min, max int64) int64
}

// Chromosome is one candidate: a gene sequence plus memoized value and
// fitness. Changing the genes clears both.
type Chromosome struct {
	codec   Codec
	genes   uint64
	value   *int64
	fitness *float64
}

// NewRandom draws a uniform value in the codec's range and encodes it
func NewRandom(codec Codec, rng Rand) *Chromosome {
	v := rng.IntRange(codec.min, codec.max)
	return &Chromosome{
		codec: codec,
		genes: codec.Encode(v),
		value: &v,
	}
}

// NewFromGenes wraps genes without validation
func NewFromGenes(codec Codec, genes uint64) *Chromosome {
	return &Chromosome{codec: codec, genes: genes & codec.mask()}
}

// NewFromValue encodes v. It fails if v is outside the codec's range.
func NewFromValue(codec Codec, v int64) (*Chromosome, error) {
	if !codec.Contains(v) {
		return nil, fmt.Errorf("value %d outside range %s", v, codec)
	}
	return &Chromosome{codec: codec, genes: codec.Encode(v), value: &v}, nil
}

func (c *Chromosome) Codec() Codec  { return c.codec }
func (c *Chromosome) Genes() uint64 { return c.genes }

// GeneString is the binary form of the genes
func (c *Chromosome) GeneString() string {
	return c.codec.Format(c.genes)
}

// Bit returns gene i (0 = leftmost)
func (c *Chromosome) Bit(i int) int {
	if c.genes&c.codec.bitMask(i) != 0 {
		return 1
	}
	return 0
}

// Value decodes the genes on first access
func (c *Chromosome) Value() int64 {
	if c.value == nil {
		v := c.codec.Decode(c.genes)
		c.value = &v
	}
	return *c.value
}

// Fitness evaluates fn on first access
func (c *Chromosome) Fitness(fn FitnessFunc) float64 {
	if c.fitness == nil {
		f := fn(float64(c.Value()))
		c.fitness = &f
	}
	return *c.fitness
}

// Valid reports whether the decoded value lies in range
func (c *Chromosome) Valid() bool {
	return c.codec.Contains(c.Value())
}

// SameGenes reports whether both chromosomes carry identical genes
func (c *Chromosome) SameGenes(other *Chromosome) bool {
	return c.genes == other.genes
}

// Clone returns an independent copy with genes and caches carried over
func (c *Chromosome) Clone() *Chromosome {
	out := &Chromosome{codec: c.codec, genes: c.genes}
	if c.value != nil {
		v := *c.value
		out.value = &v
	}
	if c.fitness != nil {
		f := *c.fitness
		out.fitness = &f
	}
	return out
}

// Mutate flips gene bit. If the result decodes outside the range the flip is
// reverted. It reports whether the flip was kept.
func (c *Chromosome) Mutate(bit int) bool {
	if bit < 0 || bit >= c.codec.width {
		return false
	}
	original := c.genes
	c.setGenes(c.genes ^ c.codec.bitMask(bit))
	if !c.Valid() {
		c.setGenes(original)
		return false
	}
	return true
}

func (c *Chromosome) setGenes(genes uint64) {
	c.genes = genes
	c.value = nil
	c.fitness = nil
}

func (c *Chromosome) String() string {
	return fmt.Sprintf("%s (%d)", c.GeneString(), c.Value())
}

// Mate performs single-point crossover. Split points are drawn from
// [1, width-2] so neither child is a plain copy; width 2 has only point 1.
// Points are tried in random order without repetition until both children
// decode inside the range. Width-1 codecs cannot be split and yield copies
// of the parents.
func Mate(a, b *Chromosome, rng Rand) (*Chromosome, *Chromosome, error) {
	codec := a.codec
	width := codec.width
	if width < 2 {
		return NewFromGenes(codec, a.genes), NewFromGenes(codec, b.genes), nil
	}

	points := SplitPoints(width)
	for n := len(points); n > 0; n-- {
		j := rng.Intn(n)
		point := points[j]
		points[j] = points[n-1]

		suffix := (uint64(1) << uint(width-point)) - 1
		c1 := NewFromGenes(codec, (a.genes&^suffix)|(b.genes&suffix))
		c2 := NewFromGenes(codec, (b.genes&^suffix)|(a.genes&suffix))
		if c1.Valid() && c2.Valid() {
			return c1, c2, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: mating %s with %s", ErrCrossoverExhausted, a, b)
}

// SplitPoints lists the crossover points Mate may use for width bits
func SplitPoints(width int) []int {
	if width < 2 {
		return nil
	}
	hi := max(width-2, 1)
	points := make([]int, 0, hi)
	for p := 1; p <= hi; p++ {
		points = append(points, p)
	}
	return points
}
