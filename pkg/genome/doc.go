// Package genome implements deterministic, seeded trait selection for a collection.
//
// A genome is the assignment of one value to every configured layer. Genomes are
// produced sequentially by a [Builder], which owns the run's [State]: the seed, a
// nonce counter that advances once per weighted draw, and the set of genomes
// already accepted in the run.
//
// # Determinism
//
// Every draw is a pure function of (seed, nonce, candidates), see [Select]. The
// builder consumes nonces strictly in order, so for a fixed seed and
// configuration the sequence of accepted genomes is reproducible across runs and
// processes. Abandoned drafts (incompatibility retries and duplicates) consume
// their nonces too: the genome of a token depends on how many draws earlier
// tokens needed.
//
// # Constraints
//
// Incompatibility rules are applied by [Resolve] in a single left-to-right pass.
// Rules with a default substitute the offending value; rules without one force a
// full re-draw of the token. The builder bounds re-draws with
// [Options.MaxAttempts] and fails with CONSTRAINT_EXHAUSTED instead of looping.
//
// # Example
//
//	seed, _ := genome.ParseSeed("42")
//	b := genome.NewBuilder(cfg, genome.NewState(seed), genome.Options{
//	    Output: "output",
//	    Amount: 100,
//	})
//	mds, err := b.BuildAll(0, 100, nil)
package genome
