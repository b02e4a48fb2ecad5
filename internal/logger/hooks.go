package logger

import (
	"github.com/nainya/chronofmv/pkg/fmv"
	"github.com/nainya/chronofmv/pkg/table"
)

// FMVHooks builds an fmv.Hooks that logs growth events through l.
func (l *Logger) FMVHooks() fmv.Hooks {
	return fmv.Hooks{
		OnGrowth: l.LogGrowth,
	}
}

// TableHooks builds a table.Hooks that logs append rejections through
// l. Locate/Reduce steps are left unlogged at this level — they're
// high-frequency enough that a metrics counter is the better fit; a
// caller that wants them logged too can compose its own table.Hooks.
func (l *Logger) TableHooks() table.Hooks {
	return table.Hooks{
		OnReject: func() {
			l.Warn("append rejected: timestamp is not monotonic").Msg("")
		},
	}
}
