package engine

import "math/rand"

// Source is the randomness the resolver draws from. Injecting it keeps
// turn resolution deterministic under test.
type Source interface {
	Intn(n int) int
}

// systemSource draws from the process-global generator, which is safe for
// concurrent use.
type systemSource struct{}

func (systemSource) Intn(n int) int { return rand.Intn(n) }

// SystemSource returns the default production randomness source.
func SystemSource() Source { return systemSource{} }
