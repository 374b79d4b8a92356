package pipeline

import (
	"context"

	"github.com/clearpathcoverage/dst-compiler/internal/corpus"
	"github.com/clearpathcoverage/dst-compiler/internal/domain"
	"github.com/clearpathcoverage/dst-compiler/internal/observability"
)

// MultiLoader fans a batch out to several loaders in order, stopping at the
// first failure so the pipeline retries the whole batch.
type MultiLoader struct {
	loaders []BatchLoader
}

// NewMultiLoader combines the given loaders into one BatchLoader.
func NewMultiLoader(loaders ...BatchLoader) *MultiLoader {
	return &MultiLoader{loaders: loaders}
}

// LoadBatch delivers the batch to each loader in turn.
func (m *MultiLoader) LoadBatch(ctx context.Context, records []domain.DisasterRecord) error {
	for _, l := range m.loaders {
		if err := l.LoadBatch(ctx, records); err != nil {
			return err
		}
	}
	return nil
}

// CorpusLoader merges compiled records into the corpus store, tracking how
// many were superseded by a higher-priority source already present.
type CorpusLoader struct {
	store   *corpus.Store
	metrics *observability.Metrics
}

// NewCorpusLoader creates a loader backed by the given store.
func NewCorpusLoader(store *corpus.Store, metrics *observability.Metrics) *CorpusLoader {
	return &CorpusLoader{store: store, metrics: metrics}
}

// LoadBatch upserts each record. Upsert never fails: a record rejected by
// the merge policy is a normal outcome, counted rather than returned.
func (c *CorpusLoader) LoadBatch(_ context.Context, records []domain.DisasterRecord) error {
	for _, rec := range records {
		if !c.store.Upsert(rec) {
			c.metrics.MergeSuperseded.Inc()
		}
	}
	c.metrics.CorpusRecords.WithLabelValues("all").Set(float64(c.store.Len()))
	return nil
}
