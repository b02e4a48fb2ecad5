package fmv

// DefaultReservation is the size of the sparse virtual-address
// reservation mapped at open time. It bounds the largest a table can
// grow to without ever remapping; 1 TiB comfortably covers any
// practical table while staying well inside a 64-bit address space.
const DefaultReservation = 1 << 40

// Hooks lets a caller observe FMV activity without the package
// depending on any particular logging or metrics library. All fields
// are optional; nil hooks are simply not called.
type Hooks struct {
	// OnAppend fires after every successful Append, reporting whether the
	// underlying write happened (always true for FMV.Append itself; it
	// does not fire when Append returns an error, and Table reports its
	// own monotonicity rejections through table.Hooks.OnReject instead).
	OnAppend func(accepted bool)

	// OnGrowth fires when capacity doubles, before the new pages are
	// touched.
	OnGrowth func(oldCapacity, newCapacity uint64)

	// OnSync fires once an async msync has been scheduled.
	OnSync func()
}

func (h Hooks) append(accepted bool) {
	if h.OnAppend != nil {
		h.OnAppend(accepted)
	}
}

func (h Hooks) growth(oldCapacity, newCapacity uint64) {
	if h.OnGrowth != nil {
		h.OnGrowth(oldCapacity, newCapacity)
	}
}

func (h Hooks) sync() {
	if h.OnSync != nil {
		h.OnSync()
	}
}

// Option configures an FMV at Open time.
type Option func(*config)

type config struct {
	reservation uint64
	hooks       Hooks
}

func defaultConfig() config {
	return config{reservation: DefaultReservation}
}

// WithReservation overrides the default 1 TiB sparse virtual-memory
// reservation. Hosts with a tighter address space may need a smaller
// value; the invariant preserved either way is "no remap on growth."
func WithReservation(bytes uint64) Option {
	return func(c *config) { c.reservation = bytes }
}

// WithHooks attaches observability callbacks.
func WithHooks(h Hooks) Option {
	return func(c *config) { c.hooks = h }
}
