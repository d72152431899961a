// Package genome implements the binary encoding of integer candidates and
// the chromosome operators (crossover and mutation) that work on it.
package genome

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// MaxWidth is the widest gene sequence a Codec will produce.
const MaxWidth = 62

// Codec maps integers in [min, max] to fixed-width unsigned bit patterns.
// The pattern for v is the binary form of v-min, so min always encodes as
// all zeros. A Codec is immutable and shared by every chromosome of a run.
type Codec struct {
	min   int64
	max   int64
	width int
}

// NewCodec builds the codec for [min, max]
func NewCodec(min, max int64) (Codec, error) {
	if min > max {
		return Codec{}, fmt.Errorf("invalid range [%d, %d]: min exceeds max", min, max)
	}
	span := uint64(max - min)
	width := bits.Len64(span)
	if width == 0 {
		width = 1
	}
	if width > MaxWidth {
		return Codec{}, fmt.Errorf("invalid range [%d, %d]: needs %d bits, max is %d", min, max, width, MaxWidth)
	}
	return Codec{min: min, max: max, width: width}, nil
}

// MustCodec is NewCodec that panics on error. Intended for tests and constants.
func MustCodec(min, max int64) Codec {
	c, err := NewCodec(min, max)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Codec) Min() int64 { return c.min }
func (c Codec) Max() int64 { return c.max }

// Width is the gene width in bits
func (c Codec) Width() int { return c.width }

// Encode returns the bit pattern for v. v is expected to be in range.
func (c Codec) Encode(v int64) uint64 {
	return uint64(v - c.min)
}

// Decode returns the integer represented by genes. The result may fall
// outside [min, max] when the range is not a power of two.
func (c Codec) Decode(genes uint64) int64 {
	return int64(genes&c.mask()) + c.min
}

// Contains reports whether v lies in [min, max]
func (c Codec) Contains(v int64) bool {
	return v >= c.min && v <= c.max
}

// Format renders genes as a zero-padded binary string of Width characters
func (c Codec) Format(genes uint64) string {
	s := strconv.FormatUint(genes&c.mask(), 2)
	if len(s) < c.width {
		s = strings.Repeat("0", c.width-len(s)) + s
	}
	return s
}

// Parse is the inverse of Format
func (c Codec) Parse(s string) (uint64, error) {
	if len(s) != c.width {
		return 0, fmt.Errorf("gene string %q has length %d, want %d", s, len(s), c.width)
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("gene string %q: %w", s, err)
	}
	return v, nil
}

func (c Codec) mask() uint64 {
	return (uint64(1) << uint(c.width)) - 1
}

// bitMask returns the mask for bit index i, where index 0 is the leftmost
// (most significant) gene.
func (c Codec) bitMask(i int) uint64 {
	return uint64(1) << uint(c.width-1-i)
}

func (c Codec) String() string {
	return fmt.Sprintf("[%d, %d] (%d bits)", c.min, c.max, c.width)
}
