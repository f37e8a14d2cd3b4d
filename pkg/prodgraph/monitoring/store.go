package monitoring

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/prodgraph/pkg/prodgraph/timings"
)

// StoreTimingRecorderFactory returns a timing recorder factory that
// persists every sample to the given store. Each graph instance is
// assigned a fresh component ID so its samples can be listed together.
//
// Store write failures are logged and dropped; observers never affect
// graph computation.
func StoreTimingRecorderFactory(store timings.Store) TimingRecorderFactory {
	return TimingRecorderFactoryFunc(func(component any) ComponentTimingRecorder {
		return storeComponentTimingRecorder{
			store:       store,
			componentID: fmt.Sprintf("comp-%s", uuid.New().String()[:8]),
		}
	})
}

type storeComponentTimingRecorder struct {
	store       timings.Store
	componentID string
}

func (c storeComponentTimingRecorder) ProducerTimingRecorderFor(token Token) ProducerTimingRecorder {
	return storeProducerTimingRecorder{
		store:       c.store,
		componentID: c.componentID,
		producer:    token.Name(),
	}
}

type storeProducerTimingRecorder struct {
	store       timings.Store
	componentID string
	producer    string
}

func (r storeProducerTimingRecorder) save(rec timings.Record) {
	rec.ComponentID = r.componentID
	rec.Producer = r.producer
	rec.Timestamp = time.Now()
	if err := r.store.Save(rec); err != nil {
		slog.Warn("failed to save timing record",
			slog.String("producer", r.producer),
			slog.String("error", err.Error()))
	}
}

func (r storeProducerTimingRecorder) RecordMethod(startedNanos, durationNanos int64) {
	r.save(timings.Record{
		Outcome:       timings.OutcomeMethod,
		StartedNanos:  startedNanos,
		DurationNanos: durationNanos,
	})
}

func (r storeProducerTimingRecorder) RecordSuccess(latencyNanos int64) {
	r.save(timings.Record{
		Outcome:       timings.OutcomeSuccess,
		DurationNanos: latencyNanos,
	})
}

func (r storeProducerTimingRecorder) RecordFailure(err error, latencyNanos int64) {
	r.save(timings.Record{
		Outcome:       timings.OutcomeFailure,
		DurationNanos: latencyNanos,
		Error:         err.Error(),
	})
}

func (r storeProducerTimingRecorder) RecordSkip(err error) {
	r.save(timings.Record{
		Outcome: timings.OutcomeSkip,
		Error:   err.Error(),
	})
}
