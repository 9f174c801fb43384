// Package ease provides a closed set of easing curves selected by value.
//
// Draw instructions and tweens carry a Kind rather than a function, so they
// stay comparable and copyable. The zero Kind is Linear.
package ease

import (
	"fmt"
	"math"
)

// Kind names an easing curve.
type Kind uint8

// Easing curves.
const (
	Linear Kind = iota
	InSine
	OutSine
	InOutSine
	InQuad
	OutQuad
	InOutQuad
	InCubic
	OutCubic
	InOutCubic
	InQuart
	OutQuart
	InOutQuart
	InQuint
	OutQuint
	InOutQuint
	InExpo
	OutExpo
	InOutExpo
	InCirc
	OutCirc
	InOutCirc
	InBack
	OutBack
	InOutBack
	InBounce
	OutBounce
	InOutBounce
	ConstantZero
	ConstantOne

	numKinds
)

var names = [numKinds]string{
	"linear",
	"in-sine", "out-sine", "in-out-sine",
	"in-quad", "out-quad", "in-out-quad",
	"in-cubic", "out-cubic", "in-out-cubic",
	"in-quart", "out-quart", "in-out-quart",
	"in-quint", "out-quint", "in-out-quint",
	"in-expo", "out-expo", "in-out-expo",
	"in-circ", "out-circ", "in-out-circ",
	"in-back", "out-back", "in-out-back",
	"in-bounce", "out-bounce", "in-out-bounce",
	"zero", "one",
}

func (k Kind) String() string {
	if k < numKinds {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Parse returns the Kind with the given name.
func Parse(name string) (Kind, error) {
	for k, n := range names {
		if n == name {
			return Kind(k), nil
		}
	}
	return Linear, fmt.Errorf("ease: unknown curve %q", name)
}

// Apply clamps t to [0, 1] and evaluates the curve. Unknown kinds behave
// as Linear.
func (k Kind) Apply(t float32) float32 {
	switch {
	case !(t > 0):
		t = 0
	case t > 1:
		t = 1
	}
	return float32(k.eval(float64(t)))
}

const (
	back1 = 1.70158
	back2 = back1 * 1.525
	back3 = back1 + 1
)

func (k Kind) eval(t float64) float64 {
	switch k {
	case InSine:
		return 1 - math.Cos(t*math.Pi/2)
	case OutSine:
		return math.Sin(t * math.Pi / 2)
	case InOutSine:
		return -(math.Cos(math.Pi*t) - 1) / 2
	case InQuad:
		return t * t
	case OutQuad:
		return 1 - (1-t)*(1-t)
	case InOutQuad:
		return inOut(t, 2)
	case InCubic:
		return t * t * t
	case OutCubic:
		return 1 - math.Pow(1-t, 3)
	case InOutCubic:
		return inOut(t, 3)
	case InQuart:
		return math.Pow(t, 4)
	case OutQuart:
		return 1 - math.Pow(1-t, 4)
	case InOutQuart:
		return inOut(t, 4)
	case InQuint:
		return math.Pow(t, 5)
	case OutQuint:
		return 1 - math.Pow(1-t, 5)
	case InOutQuint:
		return inOut(t, 5)
	case InExpo:
		if t == 0 {
			return 0
		}
		return math.Pow(2, 10*t-10)
	case OutExpo:
		if t == 1 {
			return 1
		}
		return 1 - math.Pow(2, -10*t)
	case InOutExpo:
		switch {
		case t == 0, t == 1:
			return t
		case t < 0.5:
			return math.Pow(2, 20*t-10) / 2
		default:
			return (2 - math.Pow(2, -20*t+10)) / 2
		}
	case InCirc:
		return 1 - math.Sqrt(1-t*t)
	case OutCirc:
		return math.Sqrt(1 - (t-1)*(t-1))
	case InOutCirc:
		if t < 0.5 {
			return (1 - math.Sqrt(1-4*t*t)) / 2
		}
		return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
	case InBack:
		return back3*t*t*t - back1*t*t
	case OutBack:
		return 1 + back3*math.Pow(t-1, 3) + back1*math.Pow(t-1, 2)
	case InOutBack:
		if t < 0.5 {
			return math.Pow(2*t, 2) * ((back2+1)*2*t - back2) / 2
		}
		return (math.Pow(2*t-2, 2)*((back2+1)*(t*2-2)+back2) + 2) / 2
	case InBounce:
		return 1 - outBounce(1-t)
	case OutBounce:
		return outBounce(t)
	case InOutBounce:
		if t < 0.5 {
			return (1 - outBounce(1-2*t)) / 2
		}
		return (1 + outBounce(2*t-1)) / 2
	case ConstantZero:
		return 0
	case ConstantOne:
		return 1
	default:
		return t
	}
}

// inOut is the symmetric polynomial in-out curve of degree n.
func inOut(t float64, n float64) float64 {
	if t < 0.5 {
		return math.Pow(2, n-1) * math.Pow(t, n)
	}
	return 1 - math.Pow(-2*t+2, n)/2
}

func outBounce(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}
