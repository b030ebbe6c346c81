package config

import (
	"sort"

	"github.com/san-kum/sixdof/internal/joint"
)

// Presets are named joint setups. Use GetPreset to obtain a private copy.
var Presets = map[string]*JointConfig{
	"weld":         preset("weld", lockAll),
	"hinge":        preset("hinge", lockLinear, lockAngular(0, 1)),
	"slider":       preset("slider", lockAll, rangeAxis(joint.LinearX, -1, 1)),
	"ball":         preset("ball", lockLinear),
	"free":         preset("free", freeAll),
	"motor_slider": preset("motor_slider", lockAll, rangeAxis(joint.LinearX, -2, 2), motor(joint.LinearX, 0.5, 20)),
	"motor_hinge":  preset("motor_hinge", lockLinear, lockAngular(0, 1), motor(joint.AngularZ, 1.5, 10)),
	"pendulum":     preset("pendulum", lockLinear, attachToWorld),
	"cone": preset("cone", lockLinear,
		rangeAxis(joint.AngularX, -0.5, 0.5),
		rangeAxis(joint.AngularY, -0.5, 0.5),
		rangeAxis(joint.AngularZ, -0.25, 0.25),
	),
}

func preset(name string, edits ...func(*JointConfig)) *JointConfig {
	c := DefaultJointConfig()
	c.Name = name
	for _, e := range edits {
		e(c)
	}
	return c
}

func setRange(c *JointConfig, ax joint.Axis, lo, hi float64) {
	a := c.Axis(ax)
	a.Lower, a.Upper = lo, hi
}

func lockAll(c *JointConfig) {
	for _, ax := range joint.Axes() {
		setRange(c, ax, 0, 0)
	}
}

func freeAll(c *JointConfig) {
	for _, ax := range joint.Axes() {
		setRange(c, ax, 1, -1)
	}
}

func lockLinear(c *JointConfig) {
	for i := 0; i < 3; i++ {
		setRange(c, joint.AxisFor(joint.Linear, i), 0, 0)
	}
}

func lockAngular(indices ...int) func(*JointConfig) {
	return func(c *JointConfig) {
		for _, i := range indices {
			setRange(c, joint.AxisFor(joint.Angular, i), 0, 0)
		}
	}
}

func attachToWorld(c *JointConfig) { c.AttachToWorld = true }

func rangeAxis(ax joint.Axis, lo, hi float64) func(*JointConfig) {
	return func(c *JointConfig) { setRange(c, ax, lo, hi) }
}

func motor(ax joint.Axis, target, maxForce float64) func(*JointConfig) {
	return func(c *JointConfig) {
		c.Axis(ax).Motor = MotorConfig{Enabled: true, TargetVelocity: target, MaxForce: maxForce}
	}
}

func GetPreset(name string) *JointConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
