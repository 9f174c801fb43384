// Package pointer tracks press and hover state of on-screen regions for
// mouse and touch input with one state machine.
package pointer

import "fmt"

// State is the tracked state of one region.
type State uint8

// Region states.
const (
	Idle State = iota
	// Over: the pointer hovers the region with the button up.
	Over
	// PressedOver: the press started on the region and the pointer is on it.
	PressedOver
	// PressedOff: the press started on the region and the pointer left it.
	PressedOff
)

var stateNames = [...]string{"idle", "over", "pressed-over", "pressed-off"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Pressed reports whether a press that started on the region is held.
func (s State) Pressed() bool { return s == PressedOver || s == PressedOff }

// Event is a transition worth reacting to.
type Event uint8

// Events produced by Tracker.Update.
const (
	None Event = iota
	Enter
	Exit
	Press
	// Release fires when a press ends over the region: a click.
	Release
	// Cancel fires when a press ends off the region.
	Cancel
)

var eventNames = [...]string{"none", "enter", "exit", "press", "release", "cancel"}

func (e Event) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", e)
}

// Modality describes what an input device can report.
type Modality struct {
	// Hover is set when the device reports position without contact. A
	// hovering device only arms a press that starts while hovering, so
	// dragging onto a region with the button held does nothing.
	Hover bool
}

// Input modalities.
var (
	Mouse = Modality{Hover: true}
	Touch = Modality{Hover: false}
)

// Tracker is the state machine for one region.
type Tracker struct {
	Modality Modality
	state    State
}

// State returns the current state.
func (t *Tracker) State() State { return t.state }

// Reset returns the tracker to Idle without an event.
func (t *Tracker) Reset() { t.state = Idle }

// Update advances the machine with this frame's pointer sample.
func (t *Tracker) Update(over, down bool) Event {
	prev := t.state
	switch prev {
	case Idle, Over:
		switch {
		case over && down:
			if prev == Over || !t.Modality.Hover {
				t.state = PressedOver
				return Press
			}
		case over && t.Modality.Hover:
			t.state = Over
			if prev == Idle {
				return Enter
			}
		default:
			t.state = Idle
			if prev == Over {
				return Exit
			}
		}
	case PressedOver, PressedOff:
		switch {
		case down && over:
			t.state = PressedOver
		case down:
			t.state = PressedOff
		case over:
			t.state = t.rest(over)
			return Release
		default:
			t.state = Idle
			return Cancel
		}
	}
	return None
}

func (t *Tracker) rest(over bool) State {
	if over && t.Modality.Hover {
		return Over
	}
	return Idle
}
