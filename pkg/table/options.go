package table

import "github.com/nainya/chronofmv/pkg/fmv"

// Hooks lets a caller observe table-level activity — the events that
// happen above the raw FMV, namely monotonicity rejections, Locate
// probe counts, and Reduce scan/emit counts.
type Hooks struct {
	// OnReject fires when Append silently drops a non-monotonic entry.
	OnReject func()

	// OnLocate fires after a Locate call with the number of comparisons
	// it took.
	OnLocate func(steps int)

	// OnReduce fires after a Reduce call with how many entries were
	// scanned and how many were emitted.
	OnReduce func(scanned, emitted int)
}

func (h Hooks) reject() {
	if h.OnReject != nil {
		h.OnReject()
	}
}

func (h Hooks) locate(steps int) {
	if h.OnLocate != nil {
		h.OnLocate(steps)
	}
}

func (h Hooks) reduce(scanned, emitted int) {
	if h.OnReduce != nil {
		h.OnReduce(scanned, emitted)
	}
}

// Option configures a Table at Open time.
type Option func(*config)

type config struct {
	fmvOpts []fmv.Option
	hooks   Hooks
}

// WithReservation overrides the underlying FMV's virtual reservation.
func WithReservation(bytes uint64) Option {
	return func(c *config) { c.fmvOpts = append(c.fmvOpts, fmv.WithReservation(bytes)) }
}

// WithFMVHooks attaches observability callbacks to the underlying FMV.
func WithFMVHooks(h fmv.Hooks) Option {
	return func(c *config) { c.fmvOpts = append(c.fmvOpts, fmv.WithHooks(h)) }
}

// WithHooks attaches table-level observability callbacks.
func WithHooks(h Hooks) Option {
	return func(c *config) { c.hooks = h }
}
