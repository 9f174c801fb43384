package ease

// Tween moves a value from Start to End over Duration seconds.
// If Duration is not positive the tween is complete immediately.
type Tween struct {
	Start, End float32
	Duration   float32
	Elapsed    float32
	Ease       Kind
}

// NewTween returns an active tween.
func NewTween(start, end, duration float32, k Kind) Tween {
	return Tween{Start: start, End: end, Duration: duration, Ease: k}
}

// Update advances the tween by dt seconds.
func (tw *Tween) Update(dt float32) {
	tw.Elapsed = min(tw.Elapsed+dt, max(tw.Duration, 0))
}

// Done reports whether the tween has reached its end.
func (tw *Tween) Done() bool {
	return tw.Elapsed >= tw.Duration
}

// Progress returns the unshaped progress in [0, 1].
func (tw *Tween) Progress() float32 {
	if tw.Duration <= 0 {
		return 1
	}
	return tw.Elapsed / tw.Duration
}

// Value returns the current eased value.
func (tw *Tween) Value() float32 {
	t := tw.Ease.Apply(tw.Progress())
	return tw.Start + (tw.End-tw.Start)*t
}

// Reset restarts the tween from the beginning.
func (tw *Tween) Reset() {
	tw.Elapsed = 0
}

// Reverse restarts the tween with Start and End swapped.
func (tw *Tween) Reverse() {
	tw.Start, tw.End = tw.End, tw.Start
	tw.Elapsed = 0
}
