package genome

import (
	"math/big"

	"github.com/matzehuels/traitforge/pkg/config"
)

// Capacity returns the number of distinct genomes the configuration can produce,
// ignoring incompatibilities: the product of the selectable values per layer.
// The result is exact; it does not overflow for wide collections.
func Capacity(cfg *config.Config) *big.Int {
	total := big.NewInt(1)
	if len(cfg.Layers) == 0 {
		return big.NewInt(0)
	}
	for i := range cfg.Layers {
		total.Mul(total, big.NewInt(int64(cfg.Layers[i].Selectable())))
	}
	return total
}

// Fits reports whether amount unique genomes fit into cfg's capacity.
func Fits(cfg *config.Config, amount int) bool {
	return big.NewInt(int64(amount)).Cmp(Capacity(cfg)) <= 0
}
