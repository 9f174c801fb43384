package pointer

import "testing"

type sample struct {
	over, down bool
	state      State
	event      Event
}

func run(t *testing.T, m Modality, steps []sample) {
	t.Helper()
	tr := Tracker{Modality: m}
	for i, s := range steps {
		ev := tr.Update(s.over, s.down)
		if ev != s.event || tr.State() != s.state {
			t.Fatalf("step %d (over=%v down=%v): got %s/%s, want %s/%s",
				i, s.over, s.down, tr.State(), ev, s.state, s.event)
		}
	}
}

func TestMouseClick(t *testing.T) {
	run(t, Mouse, []sample{
		{false, false, Idle, None},
		{true, false, Over, Enter},
		{true, false, Over, None},
		{true, true, PressedOver, Press},
		{true, true, PressedOver, None},
		{true, false, Over, Release},
		{false, false, Idle, Exit},
	})
}

func TestMouseDragOff(t *testing.T) {
	run(t, Mouse, []sample{
		{true, false, Over, Enter},
		{true, true, PressedOver, Press},
		{false, true, PressedOff, None},
		{true, true, PressedOver, None},
		{false, true, PressedOff, None},
		{false, false, Idle, Cancel},
	})
}

func TestMouseDragOnDoesNotPress(t *testing.T) {
	run(t, Mouse, []sample{
		{false, true, Idle, None},
		{true, true, Idle, None},
		{true, false, Over, Enter},
	})
}

func TestTouch(t *testing.T) {
	run(t, Touch, []sample{
		// Touch devices never hover.
		{true, false, Idle, None},
		{true, true, PressedOver, Press},
		{true, false, Idle, Release},
		{false, true, Idle, None},
		// Sliding onto a region with the finger down presses it.
		{true, true, PressedOver, Press},
		{false, true, PressedOff, None},
		{false, false, Idle, Cancel},
	})
}

func TestStrings(t *testing.T) {
	if PressedOff.String() != "pressed-off" || Release.String() != "release" {
		t.Errorf("names = %s, %s", PressedOff, Release)
	}
	if State(9).String() != "State(9)" {
		t.Errorf("unknown state = %s", State(9))
	}
	if !PressedOff.Pressed() || Over.Pressed() {
		t.Error("Pressed wrong")
	}
}
