package genome

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/traitforge/pkg/config"
)

func TestCapacity(t *testing.T) {
	cfg := twoLayerConfig()
	require.Equal(t, int64(2), Capacity(cfg).Int64())
	require.True(t, Fits(cfg, 2))
	require.False(t, Fits(cfg, 3))
}

func TestCapacityIgnoresZeroWeightAndDuplicateValues(t *testing.T) {
	cfg := &config.Config{Layers: []config.Layer{
		{Name: "A", Values: []string{"x", "y", "z"}, Weights: []float64{1, 1, 0}},
		{Name: "B", Values: []string{"p", "p", "q"}, Weights: []float64{1, 1, 1}},
	}}
	require.Equal(t, int64(4), Capacity(cfg).Int64())
}

func TestCapacityDoesNotOverflow(t *testing.T) {
	cfg := &config.Config{}
	for i := range 40 {
		cfg.Layers = append(cfg.Layers, config.Layer{
			Name:    string(rune('A' + i)),
			Values:  []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"},
			Weights: []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		})
	}
	want, _ := new(big.Int).SetString("1"+strings.Repeat("0", 40), 10)
	require.Equal(t, 0, want.Cmp(Capacity(cfg)))
	require.True(t, Fits(cfg, 1_000_000))
}
