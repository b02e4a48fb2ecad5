package metrics

import (
	"github.com/nainya/chronofmv/pkg/fmv"
	"github.com/nainya/chronofmv/pkg/table"
)

// FMVHooks builds an fmv.Hooks that feeds append/growth/sync counters.
// Kept separate from Metrics itself so pkg/fmv never has to import
// this package.
func (m *Metrics) FMVHooks() fmv.Hooks {
	return fmv.Hooks{
		OnAppend: func(accepted bool) {
			if accepted {
				m.AppendsTotal.Inc()
			}
		},
		OnGrowth: func(_, newCapacity uint64) {
			m.GrowthsTotal.Inc()
			m.CapacityElements.Set(float64(newCapacity))
		},
		OnSync: func() {
			m.SyncsTotal.Inc()
		},
	}
}

// TableHooks builds a table.Hooks that feeds reject/locate/reduce
// counters.
func (m *Metrics) TableHooks() table.Hooks {
	return table.Hooks{
		OnReject: func() {
			m.AppendsRejectedTotal.Inc()
		},
		OnLocate: func(steps int) {
			m.LocateQueriesTotal.Inc()
			m.LocateStepsTotal.Add(float64(steps))
		},
		OnReduce: func(scanned, emitted int) {
			m.ReduceQueriesTotal.Inc()
			m.ReduceScannedTotal.Add(float64(scanned))
			m.ReduceEmittedTotal.Add(float64(emitted))
		},
	}
}
