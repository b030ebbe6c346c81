package joint

import (
	"fmt"
	"strings"
)

// Kind separates translational from rotational freedoms.
type Kind int

const (
	Linear Kind = iota
	Angular
)

func (k Kind) String() string {
	if k == Angular {
		return "angular"
	}
	return "linear"
}

// Axis names one of the six relative freedoms.
type Axis int

const (
	LinearX Axis = iota
	LinearY
	LinearZ
	AngularX
	AngularY
	AngularZ
)

// NumAxes is the number of freedoms a joint controls.
const NumAxes = 6

var axisNames = [NumAxes]string{"linear-x", "linear-y", "linear-z", "angular-x", "angular-y", "angular-z"}

// AxisFor returns the axis of the given kind and component index (0..2).
func AxisFor(k Kind, i int) Axis {
	if k == Angular {
		return AngularX + Axis(i)
	}
	return LinearX + Axis(i)
}

// ParseAxis accepts names such as "angular-x", "ang-x", "lx" or an index 0..5.
func ParseAxis(s string) (Axis, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range axisNames {
		short := n[:1] + n[len(n)-1:]
		if s == n || s == short || s == fmt.Sprint(i) || s == n[:3]+n[len(n)-2:] {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrAxisIndex, s)
}

func (a Axis) Valid() bool { return a >= LinearX && a <= AngularZ }

func (a Axis) Kind() Kind {
	if a >= AngularX {
		return Angular
	}
	return Linear
}

// Index returns the component index 0..2 within the axis kind.
func (a Axis) Index() int { return int(a) % 3 }

func (a Axis) String() string {
	if !a.Valid() {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// rowSign maps a positive row velocity onto the axis value rate. Angular
// values grow with ax·(wA-wB), linear values with ax·(vB-vA).
func (a Axis) rowSign() float64 {
	if a.Kind() == Angular {
		return 1
	}
	return -1
}

// Axes lists all freedoms in index order.
func Axes() [NumAxes]Axis {
	return [NumAxes]Axis{LinearX, LinearY, LinearZ, AngularX, AngularY, AngularZ}
}
