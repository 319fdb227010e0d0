package genome

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/matzehuels/traitforge/pkg/errors"
)

// seedBytes is the size of a generated seed (128 bits).
const seedBytes = 16

// Seed is the run seed: an arbitrary-precision non-negative integer.
// The zero value is the seed 0.
type Seed struct {
	n *big.Int
}

// NewSeed returns a seed for a small integer value.
func NewSeed(v uint64) Seed {
	return Seed{n: new(big.Int).SetUint64(v)}
}

// ParseSeed parses a non-negative decimal seed.
func ParseSeed(s string) (Seed, error) {
	s = strings.TrimSpace(s)
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Seed{}, errors.New(errors.ErrCodeInvalidInput, "invalid seed %q", s)
	}
	if n.Sign() < 0 {
		return Seed{}, errors.New(errors.ErrCodeInvalidInput, "seed must be non-negative: %s", s)
	}
	return Seed{n: n}, nil
}

// NewRandomSeed draws a 128-bit seed from crypto/rand.
// The bytes are read little-endian.
func NewRandomSeed() (Seed, error) {
	b := make([]byte, seedBytes)
	if _, err := crand.Read(b); err != nil {
		return Seed{}, fmt.Errorf("read random seed: %w", err)
	}
	slices.Reverse(b)
	return Seed{n: new(big.Int).SetBytes(b)}, nil
}

// String returns the canonical decimal form.
func (s Seed) String() string {
	if s.n == nil {
		return "0"
	}
	return s.n.String()
}

// Equal reports whether both seeds have the same value.
func (s Seed) Equal(o Seed) bool {
	return s.String() == o.String()
}

// MarshalText implements encoding.TextMarshaler.
func (s Seed) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Seed) UnmarshalText(text []byte) error {
	parsed, err := ParseSeed(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// stream returns the generator for one draw. The SHA-256 digest of the
// canonical seed followed by the big-endian nonce seeds a PCG, so consecutive
// nonces give decorrelated streams under the same seed.
func (s Seed) stream(nonce uint64) *rand.Rand {
	h := sha256.New()
	h.Write([]byte(s.String()))
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], nonce)
	h.Write(b[:])
	sum := h.Sum(nil)
	return rand.New(rand.NewPCG(binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])))
}
