package monitoring

import (
	"fmt"

	"github.com/randalmurphal/prodgraph/pkg/prodgraph/config"
	"github.com/randalmurphal/prodgraph/pkg/prodgraph/timings"
)

// Setup is the monitoring stack assembled from configuration: the
// factories to install on a component, plus a Close for any resources
// they opened.
type Setup struct {
	// MonitorFactories are the lifecycle monitor factories to install.
	MonitorFactories []MonitorFactory
	// TimingRecorderFactories are the timing recorder factories to
	// install.
	TimingRecorderFactories []TimingRecorderFactory

	store timings.Store
}

// Close releases resources opened during setup, such as the timing
// store. Safe to call when nothing was opened.
func (s *Setup) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// FromConfig assembles a monitoring setup from configuration keys:
//
//	tracing:        bool, emit an OTel span per producer execution
//	metrics:        bool, record OTel producer metrics
//	timings_store:  string, SQLite path (or ":memory:") for timing samples
//
// Missing keys disable the corresponding backend; an empty config yields
// an empty setup, under which all monitoring is no-op.
func FromConfig(cfg config.Config) (*Setup, error) {
	setup := &Setup{}

	if cfg.Bool("tracing", false) {
		setup.MonitorFactories = append(setup.MonitorFactories, TracingMonitorFactory())
	}

	var recorders []TimingRecorderFactory
	if cfg.Bool("metrics", false) {
		recorders = append(recorders, MetricsTimingRecorderFactory())
	}
	if path := cfg.String("timings_store", ""); path != "" {
		store, err := timings.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open timing store: %w", err)
		}
		setup.store = store
		recorders = append(recorders, StoreTimingRecorderFactory(store))
	}

	if len(recorders) > 0 {
		setup.TimingRecorderFactories = recorders
		setup.MonitorFactories = append(setup.MonitorFactories,
			TimingMonitorFactory(DelegatingTimingRecorderFactory(recorders)))
	}
	return setup, nil
}
