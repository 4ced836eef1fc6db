// Package states sequences the loading screen and the interactive scene.
package states

// Event is an input routed to the current state: Wheel or Step.
type Event interface {
	input()
}

// State is one screen of the scene. The Manager calls Enter and Exit around
// its lifetime and Update, Render once per frame in between.
type State interface {
	Enter() error
	Exit() error
	Update(dt float64) error
	Render() error
	HandleInput(ev Event) error
}

// Manager owns the current state. Changes are deferred to the next Update
// so a state may replace itself from its own callbacks.
type Manager struct {
	current State
	next    State
}

// NewManager returns a manager with no state.
func NewManager() *Manager {
	return &Manager{}
}

// Current returns the active state, or nil before the first Update.
func (m *Manager) Current() State {
	return m.current
}

// Change queues next. A later Change before the Update wins.
func (m *Manager) Change(next State) {
	m.next = next
}

func (m *Manager) Update(dt float64) error {
	if m.next != nil {
		if err := m.swap(m.next); err != nil {
			return err
		}
	}
	if m.current == nil {
		return nil
	}
	return m.current.Update(dt)
}

func (m *Manager) swap(next State) error {
	m.next = nil
	if m.current != nil {
		if err := m.current.Exit(); err != nil {
			return err
		}
	}
	m.current = next
	return m.current.Enter()
}

func (m *Manager) Render() error {
	if m.current == nil {
		return nil
	}
	return m.current.Render()
}

// HandleInput is a no-op until a state is active.
func (m *Manager) HandleInput(ev Event) error {
	if m.current == nil {
		return nil
	}
	return m.current.HandleInput(ev)
}

// Close exits the current state and drops any queued one.
func (m *Manager) Close() error {
	m.next = nil
	if m.current == nil {
		return nil
	}
	err := m.current.Exit()
	m.current = nil
	return err
}
