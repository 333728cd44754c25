package random

import "math/rand"

// Random provides random number generation that can be mocked for
// testing. Session codes, game record ids and the search engine's
// randomized difficulty tiers all draw from it.
type Random interface {
	// Intn returns a random int in [0, n).
	Intn(n int) int

	// String generates a random string of the given length from the
	// given alphabet.
	String(length int, alphabet string) string
}

// PCGRandom implements Random using math/rand/v2's default source.
type PCGRandom struct{}

// New creates a new PCGRandom.
func New() *PCGRandom {
	return &PCGRandom{}
}

// Intn returns a random int in [0, n).
func (r *PCGRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}

// String generates a random string of the given length from the given alphabet.
func (r *PCGRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
