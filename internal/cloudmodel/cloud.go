package cloudmodel

// Cloud owns the three logical States of a run: _initial (frozen
// bootstrap), _real (what the simulator actually committed), and _current
// (the scheduler's scratchpad, reset at the boundaries of every scheduler
// invocation per §5's shared-resource policy).
type Cloud struct {
	initial State
	real    State
	current State
}

// NewCloud bootstraps a Cloud over a fixed server roster with an empty
// allocation.
func NewCloud(servers []Server) *Cloud {
	initial := NewState(servers)
	return &Cloud{
		initial: initial,
		real:    initial.Copy(),
		current: initial.Copy(),
	}
}

// Apply mutates _current by applying action.
func (c *Cloud) Apply(action Action) error {
	next, err := c.current.Transition(action)
	if err != nil {
		return err
	}
	c.current = next
	return nil
}

// ApplyReal mutates _real by applying action. Only the Simulator should
// call this (§5: "_real is owned by the Simulator and only mutated via
// apply_real").
func (c *Cloud) ApplyReal(action Action) error {
	next, err := c.real.Transition(action)
	if err != nil {
		return err
	}
	c.real = next
	return nil
}

// ResetToInitial replaces _current with a deep copy of _initial.
func (c *Cloud) ResetToInitial() { c.current = c.initial.Copy() }

// ResetToReal replaces _current with a deep copy of _real. The Scheduler
// must call this on exit from reevaluate (§5).
func (c *Cloud) ResetToReal() { c.current = c.real.Copy() }

// Current returns the scratch state.
func (c *Cloud) Current() State { return c.current }

// Real returns the committed state.
func (c *Cloud) Real() State { return c.real }

// Initial returns the frozen bootstrap state.
func (c *Cloud) Initial() State { return c.initial }

// Servers returns the fixed server roster.
func (c *Cloud) Servers() []Server { return c.initial.Servers() }
