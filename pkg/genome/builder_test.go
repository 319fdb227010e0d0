package genome

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/traitforge/pkg/config"
	"github.com/matzehuels/traitforge/pkg/errors"
)

// twoLayerConfig is a two-layer collection: Background Red/Blue 50/50 and a
// single Mouth value.
func twoLayerConfig() *config.Config {
	return &config.Config{
		Name:        "Tower #",
		Description: "A generated tower",
		Layers: []config.Layer{
			{Name: "Background", TraitPath: "bg", Values: []string{"Red", "Blue"}, Weights: []float64{50, 50}, Filenames: []string{"red", "blue"}},
			{Name: "Mouth", TraitPath: "mouth", Values: []string{"Smile"}, Weights: []float64{100}, Filenames: []string{"smile"}},
		},
	}
}

func build(t *testing.T, cfg *config.Config, seed Seed, opts Options, startAt, amount int) ([]Metadata, *Builder) {
	t.Helper()
	b := NewBuilder(cfg, NewState(seed), opts)
	mds, err := b.BuildAll(startAt, amount, nil)
	require.NoError(t, err)
	return mds, b
}

func TestBuildAllowDuplicatesDeterministic(t *testing.T) {
	opts := Options{Output: "out", Amount: 4, AllowDuplicates: true}
	first, b := build(t, twoLayerConfig(), NewSeed(42), opts, 0, 4)
	second, _ := build(t, twoLayerConfig(), NewSeed(42), opts, 0, 4)

	require.Len(t, first, 4)
	require.Equal(t, first, second, "runs with the same seed must match")
	for i, md := range first {
		require.Equal(t, i, md.TokenID)
		mouth, ok := md.Trait("Mouth")
		require.True(t, ok)
		require.Equal(t, "Smile", mouth)
		bg, _ := md.Trait("Background")
		require.Contains(t, []string{"Red", "Blue"}, bg)
	}

	// No retries: exactly one nonce per layer per token.
	require.Equal(t, uint64(8), b.State().Nonce())
}

func TestBuildMetadataShape(t *testing.T) {
	mds, _ := build(t, twoLayerConfig(), NewSeed(1), Options{Output: "./out", Amount: 100, AllowDuplicates: true}, 7, 1)
	md := mds[0]

	require.Equal(t, 7, md.TokenID)
	require.Equal(t, "out/images/7.png", md.Image)
	require.Equal(t, "Tower #007", md.Name)
	require.Equal(t, "A generated tower", md.Description)
	require.Len(t, md.Attributes, 2)
	require.Equal(t, "Background", md.Attributes[0].TraitType)
	require.Equal(t, "Mouth", md.Attributes[1].TraitType)
}

func TestBuildNoPad(t *testing.T) {
	mds, _ := build(t, twoLayerConfig(), NewSeed(1), Options{Amount: 100, NoPad: true, AllowDuplicates: true}, 7, 1)
	require.Equal(t, "Tower #7", mds[0].Name)
}

func TestBuildSeedChangesOutput(t *testing.T) {
	opts := Options{Amount: 32, AllowDuplicates: true}
	a, _ := build(t, twoLayerConfig(), NewSeed(1), opts, 0, 32)
	b, _ := build(t, twoLayerConfig(), NewSeed(2), opts, 0, 32)
	require.NotEqual(t, a, b)
}

func uniqueConfig() *config.Config {
	return &config.Config{
		Name: "#",
		Layers: []config.Layer{
			{Name: "A", TraitPath: "a", Values: []string{"1", "2", "3"}, Weights: []float64{1, 1, 1}, Filenames: []string{"1", "2", "3"}},
			{Name: "B", TraitPath: "b", Values: []string{"1", "2", "3"}, Weights: []float64{10, 1, 1}, Filenames: []string{"1", "2", "3"}},
		},
	}
}

func TestBuildUniqueness(t *testing.T) {
	cfg := uniqueConfig()
	mds, b := build(t, cfg, NewSeed(7), Options{Amount: 9}, 0, 9)

	seen := map[string]bool{}
	for _, md := range mds {
		key := md.Genome().Key(cfg.LayerNames())
		require.False(t, seen[key], "duplicate genome %v", md.Attributes)
		seen[key] = true
	}
	require.Equal(t, 9, b.State().Accepted())
	require.Greater(t, b.Stats().Duplicates, 0, "filling the full capacity must hit duplicates")
}

func TestBuildConstraintSatisfaction(t *testing.T) {
	cfg := uniqueConfig()
	cfg.Incompatibilities = []config.Incompatibility{
		{Layer: "A", Value: "1", IncompatibleWith: []string{"1", "2"}},
	}
	mds, b := build(t, cfg, NewSeed(3), Options{Amount: 50, AllowDuplicates: true}, 0, 50)

	for _, md := range mds {
		a, _ := md.Trait("A")
		bv, _ := md.Trait("B")
		if a == "1" {
			require.Equal(t, "3", bv, "A=1 forbids B in {1,2}")
		}
	}
	require.Greater(t, b.Stats().Conflicts, 0)
}

func TestBuildDefaultSubstitution(t *testing.T) {
	cfg := uniqueConfig()
	cfg.Incompatibilities = []config.Incompatibility{
		{Layer: "A", Value: "1", IncompatibleWith: []string{"1", "2"}, Default: &config.Default{Value: "3"}},
	}
	mds, b := build(t, cfg, NewSeed(3), Options{Amount: 50, AllowDuplicates: true}, 0, 50)
	for _, md := range mds {
		if a, _ := md.Trait("A"); a == "1" {
			bv, _ := md.Trait("B")
			require.Equal(t, "3", bv)
		}
	}
	require.Zero(t, b.Stats().Conflicts, "defaults never force a re-draw")
	require.Equal(t, uint64(100), b.State().Nonce())
}

func TestBuildConstraintExhausted(t *testing.T) {
	cfg := &config.Config{
		Layers: []config.Layer{
			{Name: "A", TraitPath: "a", Values: []string{"x"}, Weights: []float64{1}, Filenames: []string{"x"}},
			{Name: "B", TraitPath: "b", Values: []string{"y"}, Weights: []float64{1}, Filenames: []string{"y"}},
		},
		Incompatibilities: []config.Incompatibility{
			{Layer: "A", Value: "x", IncompatibleWith: []string{"y"}},
		},
	}
	b := NewBuilder(cfg, NewState(NewSeed(1)), Options{Amount: 1, MaxAttempts: 5})
	_, err := b.Build(0)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrCodeConstraintExhausted), "got %v", err)
	require.Equal(t, uint64(10), b.State().Nonce(), "every abandoned draft consumes its nonces")
}

func TestBuildSaturatedUniqueness(t *testing.T) {
	b := NewBuilder(twoLayerConfig(), NewState(NewSeed(1)), Options{Amount: 3, MaxAttempts: 50})
	mds, err := b.BuildAll(0, 3, nil)
	require.True(t, errors.Is(err, errors.ErrCodeConstraintExhausted), "got %v", err)
	require.Len(t, mds, 2, "tokens accepted before the failure are returned")
}

func TestBuildAllEmitError(t *testing.T) {
	b := NewBuilder(twoLayerConfig(), NewState(NewSeed(1)), Options{Amount: 4, AllowDuplicates: true})
	stop := errors.New(errors.ErrCodeInternal, "disk full")
	calls := 0
	mds, err := b.BuildAll(0, 4, func(Metadata) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Len(t, mds, 1)
}

type recordingObserver struct {
	retries []RetryEvent
	accepts map[int]int
}

func (o *recordingObserver) OnRetry(e RetryEvent) { o.retries = append(o.retries, e) }
func (o *recordingObserver) OnAccept(id, attempts int) {
	if o.accepts == nil {
		o.accepts = map[int]int{}
	}
	o.accepts[id] = attempts
}

func TestBuildObserver(t *testing.T) {
	obs := &recordingObserver{}
	cfg := uniqueConfig()
	b := NewBuilder(cfg, NewState(NewSeed(11)), Options{Amount: 9, Observer: obs})
	_, err := b.BuildAll(100, 9, nil)
	require.NoError(t, err)

	require.Len(t, obs.accepts, 9)
	totalAttempts := 0
	for id, n := range obs.accepts {
		require.GreaterOrEqual(t, id, 100)
		totalAttempts += n
	}
	require.Equal(t, 9+len(obs.retries), totalAttempts)
	for _, e := range obs.retries {
		require.Equal(t, ReasonDuplicate, e.Reason)
	}
}
