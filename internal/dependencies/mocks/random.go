package mocks

import (
	"github.com/auradevelopment5m/aura-tictactoe/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing. Results
// are queued ahead of time; exhausted queues return zero values.
type MockRandom struct {
	intns   []int
	strings []string
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom.
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remain.
func (r *MockRandom) Intn(n int) int {
	if len(r.intns) == 0 {
		return 0
	}
	result := r.intns[0]
	r.intns = r.intns[1:]
	return result
}

// String returns the next queued result, or the empty string if none remain.
func (r *MockRandom) String(length int, alphabet string) string {
	if len(r.strings) == 0 {
		return ""
	}
	result := r.strings[0]
	r.strings = r.strings[1:]
	return result
}

// QueueIntn adds values to the Intn result queue.
func (r *MockRandom) QueueIntn(values ...int) {
	r.intns = append(r.intns, values...)
}

// QueueString adds values to the String result queue.
func (r *MockRandom) QueueString(values ...string) {
	r.strings = append(r.strings, values...)
}
