// Package quantity implements the bounded stepper behind quantity inputs.
package quantity

// Stepper clamps a quantity into [1, max], or [1, ∞) when no max is set.
// The zero value is unusable; build one with New.
type Stepper struct {
	value    int
	max      int
	hasMax   bool
	disabled bool

	// onLimit fires when an increment is rejected at the ceiling,
	// carrying the ceiling value. Optional.
	onLimit func(max int)
}

// Option configures a Stepper.
type Option func(*Stepper)

// WithMax sets the ceiling. Non-positive ceilings mean the quantity is
// pinned at the minimum and every increment is rejected.
func WithMax(max int) Option {
	return func(s *Stepper) {
		s.max = max
		s.hasMax = true
	}
}

// WithLimitHandler registers the limit-reached notification.
func WithLimitHandler(fn func(max int)) Option {
	return func(s *Stepper) { s.onLimit = fn }
}

// Disabled makes every mutation a no-op.
func Disabled() Option {
	return func(s *Stepper) { s.disabled = true }
}

// New builds a stepper with the initial quantity already clamped.
func New(initial int, opts ...Option) *Stepper {
	s := &Stepper{value: initial}
	for _, opt := range opts {
		opt(s)
	}
	s.value = s.clamp(s.value)
	return s
}

// clamp is idempotent: clamping an already-clamped value changes nothing.
func (s *Stepper) clamp(v int) int {
	if v < 1 {
		v = 1
	}
	if s.hasMax {
		// A non-positive ceiling still pins the value at the minimum.
		if s.max < 1 {
			return 1
		}
		if v > s.max {
			v = s.max
		}
	}
	return v
}

// Value returns the current quantity.
func (s *Stepper) Value() int { return s.value }

// Set replaces the quantity, clamped into range.
func (s *Stepper) Set(v int) {
	if s.disabled {
		return
	}
	s.value = s.clamp(v)
}

// Increment raises the quantity by one. At the ceiling the value stays put
// and the limit notification fires with the ceiling.
func (s *Stepper) Increment() {
	if s.disabled {
		return
	}
	if s.hasMax && s.value >= s.max {
		if s.onLimit != nil {
			s.onLimit(s.max)
		}
		return
	}
	s.value++
}

// Decrement lowers the quantity by one, silently refusing to go below one.
func (s *Stepper) Decrement() {
	if s.disabled {
		return
	}
	if s.value <= 1 {
		return
	}
	s.value--
}
