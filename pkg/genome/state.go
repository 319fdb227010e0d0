package genome

// State is the sequential generation state of one run.
//
// It is owned by a single [Builder] during the genome phase and must not be
// shared between goroutines. After the phase it is only read.
type State struct {
	seed     Seed
	nonce    uint64
	accepted map[string]struct{}
}

// NewState creates the state for a run with the given seed. The nonce starts at 0.
func NewState(seed Seed) *State {
	return &State{
		seed:     seed,
		accepted: make(map[string]struct{}),
	}
}

// Seed returns the run seed.
func (s *State) Seed() Seed { return s.seed }

// Nonce returns the next nonce to be consumed, i.e. the number of draws so far.
func (s *State) Nonce() uint64 { return s.nonce }

// Accepted returns the number of distinct accepted genomes.
func (s *State) Accepted() int { return len(s.accepted) }

// Contains reports whether a genome with the given key was accepted.
func (s *State) Contains(key string) bool {
	_, ok := s.accepted[key]
	return ok
}

// next returns the current nonce and advances the counter.
func (s *State) next() uint64 {
	n := s.nonce
	s.nonce++
	return n
}

func (s *State) accept(key string) {
	s.accepted[key] = struct{}{}
}
