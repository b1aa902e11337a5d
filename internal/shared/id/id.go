// Package id provides ID generation for the assistant backend.
//
// Two kinds of identifiers are issued:
//   - ULIDs with a type prefix for requests and batches, so log lines from one
//     command batch can be correlated (req_01J..., batch_01J...)
//   - Sequence values: process-lifetime unique, strictly increasing positive
//     integers, used for reminder IDs that users read out loud
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// RequestID identifies one command execution
type RequestID string

// BatchID identifies a batch of commands
type BatchID string

const (
	RequestPrefix = "req"
	BatchPrefix   = "batch"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a ULID generator with monotonic entropy, so IDs minted
// within the same millisecond still sort in creation order.
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(ulid.Monotonic(rand.Reader, 0))
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewBatchID generates a new batch ID
func NewBatchID() BatchID {
	return BatchID(Default().GenerateWithPrefix(BatchPrefix))
}

func (id RequestID) String() string { return string(id) }
func (id BatchID) String() string   { return string(id) }

// Timestamp extracts the creation time from a prefixed or bare ULID
func Timestamp(id string) (time.Time, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	parsed, err := ulid.Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// Sequence hands out strictly increasing positive integers. Values are never
// reused for the lifetime of the Sequence.
type Sequence struct {
	last atomic.Int64
}

// Next returns the next value, starting at 1
func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Last returns the most recently issued value, or 0
func (s *Sequence) Last() int64 {
	return s.last.Load()
}
