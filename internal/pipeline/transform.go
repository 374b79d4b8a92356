package pipeline

import (
	"context"

	"github.com/jonboulle/clockwork"

	"github.com/clearpathcoverage/dst-compiler/internal/domain"
)

// RecordTransformer compiles raw provider records into disaster records,
// evaluating the eligibility window against the injected clock's today.
type RecordTransformer struct {
	clock clockwork.Clock
}

// NewRecordTransformer creates a RecordTransformer using the given clock.
func NewRecordTransformer(clock clockwork.Clock) *RecordTransformer {
	return &RecordTransformer{clock: clock}
}

// Transform parses and compiles one raw event.
func (t *RecordTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.DisasterRecord, error) {
	parsed, err := domain.ParseRawRecord(raw)
	if err != nil {
		return domain.DisasterRecord{}, err
	}

	now := t.clock.Now()
	return domain.BuildRecord(parsed, domain.DateOf(now), now)
}
