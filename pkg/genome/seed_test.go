package genome

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/traitforge/pkg/errors"
)

func TestParseSeed(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"42", "42", false},
		{" 7 ", "7", false},
		{"340282366920938463463374607431768211455", "340282366920938463463374607431768211455", false},
		{"", "", true},
		{"abc", "", true},
		{"-1", "", true},
		{"1.5", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := ParseSeed(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, s.String())
		})
	}
}

func TestSeedZeroValue(t *testing.T) {
	var s Seed
	require.Equal(t, "0", s.String())
	require.True(t, s.Equal(NewSeed(0)))
}

func TestNewRandomSeed(t *testing.T) {
	a, err := NewRandomSeed()
	require.NoError(t, err)
	b, err := NewRandomSeed()
	require.NoError(t, err)
	require.False(t, a.Equal(b), "two random seeds should differ")

	limit := new(big.Int).Lsh(big.NewInt(1), 128)
	n, ok := new(big.Int).SetString(a.String(), 10)
	require.True(t, ok)
	require.Equal(t, -1, n.Cmp(limit), "seed must fit in 128 bits")
}

func TestSeedUnmarshalText(t *testing.T) {
	var s Seed
	require.NoError(t, s.UnmarshalText([]byte("123456789012345678901234567890")))
	require.Equal(t, "123456789012345678901234567890", s.String())
	require.Error(t, s.UnmarshalText([]byte("nope")))
}
