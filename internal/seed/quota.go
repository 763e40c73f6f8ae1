package seed

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted is returned when an allocation hits its iteration cap
// before covering the requested total.
var ErrQuotaExhausted = errors.New("quota allocation exhausted")

// Batch assigns Size children to the parent at index Parent.
type Batch struct {
	Parent int
	Size   int
}

// DefaultMaxIterations allows ten times the expected number of draws.
func DefaultMaxIterations(total, maxBatch int) int {
	if total <= 0 || maxBatch <= 0 {
		return 0
	}
	expected := 2*total/maxBatch + 1
	return 10*expected + 100
}

// Allocate splits total into random batches. Each step draws a parent from
// [0, parents) then a size from [0, maxBatch]; the run stops once the sizes
// cover total, so the sum may overshoot by less than maxBatch.
func Allocate(total, maxBatch, parents int, s Sampler, maxIterations int) ([]Batch, error) {
	if total <= 0 {
		return nil, nil
	}
	if parents <= 0 {
		return nil, fmt.Errorf("%w: %d records need a parent but none exist", ErrDependencyViolation, total)
	}
	if maxBatch <= 0 {
		return nil, fmt.Errorf("allocate %d records: max batch must be positive, got %d", total, maxBatch)
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations(total, maxBatch)
	}

	batches := make([]Batch, 0, 2*total/maxBatch+1)
	remaining := total
	for i := 0; remaining > 0; i++ {
		if i >= maxIterations {
			return batches, fmt.Errorf("%w: %d of %d left after %d draws", ErrQuotaExhausted, remaining, total, i)
		}
		parent := s.Intn(parents)
		size := s.Intn(maxBatch + 1)
		batches = append(batches, Batch{Parent: parent, Size: size})
		remaining -= size
	}
	return batches, nil
}

// Sum is the number of records a set of batches produces.
func Sum(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += b.Size
	}
	return n
}
