package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/genetic-core/internal/genome"
	"github.com/GoSim-25-26J-441/genetic-core/internal/population"
)

func square(x float64) float64 { return x * x }

func testConfig(min, max int64) Config {
	return Config{
		Codec:          genome.MustCodec(min, max),
		PopulationSize: 4,
		MaxGenerations: 10,
		Fitness:        square,
	}
}

func populationOf(t *testing.T, codec genome.Codec, values ...int64) *population.Population {
	t.Helper()
	members := make([]*genome.Chromosome, len(values))
	for i, v := range values {
		ch, err := genome.NewFromValue(codec, v)
		require.NoError(t, err)
		members[i] = ch
	}
	return population.New(members)
}
