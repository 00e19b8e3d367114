package control

import (
	"errors"
	"testing"

	"github.com/san-kum/physcore/internal/body"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/vecmath"
)

func TestNone(t *testing.T) {
	f, tq := None{}.Compute(body.State{Position: vecmath.Vector3{1, 2, 3}}, 0)
	if f != (vecmath.Vector3{}) || tq != (vecmath.Vector3{}) {
		t.Errorf("expected zero output, got %v %v", f, tq)
	}
}

func TestPID(t *testing.T) {
	ctrl := NewPID(10, 0.1, 5, vecmath.Vector3{0, 0, 0})

	f, tq := ctrl.Compute(body.State{Position: vecmath.Vector3{1, 0, -2}}, 0)
	if f[0] >= 0 {
		t.Error("PID should push back toward the target on x")
	}
	if f[2] <= 0 {
		t.Error("PID should push back toward the target on z")
	}
	if f[1] != 0 {
		t.Errorf("no error on y, got %f", f[1])
	}
	if tq != (vecmath.Vector3{}) {
		t.Errorf("PID produces no torque, got %v", tq)
	}

	// first call is proportional only
	if f[0] != -10 {
		t.Errorf("expected -10, got %f", f[0])
	}

	// closing on the target: derivative opposes proportional
	f, _ = ctrl.Compute(body.State{Position: vecmath.Vector3{0.5, 0, 0}}, 0.5)
	want := 10*-0.5 + 0.1*(-0.25) + 5*(0.5/0.5)
	if diff := f[0] - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("expected %f, got %f", want, f[0])
	}
}

func TestPIDReset(t *testing.T) {
	ctrl := NewPID(1, 1, 1, vecmath.Vector3{})
	ctrl.Compute(body.State{Position: vecmath.Vector3{1, 0, 0}}, 0)
	ctrl.Compute(body.State{Position: vecmath.Vector3{2, 0, 0}}, 1)
	ctrl.Reset()

	f, _ := ctrl.Compute(body.State{Position: vecmath.Vector3{1, 0, 0}}, 5)
	if f[0] != -1 {
		t.Errorf("after reset expected proportional only, got %f", f[0])
	}
}

func TestDamper(t *testing.T) {
	d := NewDamper(2)
	f, tq := d.Compute(body.State{AngularVelocity: vecmath.Vector3{1, -3, 0}}, 0)
	if f != (vecmath.Vector3{}) {
		t.Errorf("damper produces no force, got %v", f)
	}
	if tq != (vecmath.Vector3{-2, 6, 0}) {
		t.Errorf("expected (-2, 6, 0), got %v", tq)
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		cc   config.ControllerConfig
		want string
	}{
		{config.ControllerConfig{}, "<nil>"},
		{config.ControllerConfig{Type: config.ControllerNone}, "control.None"},
		{config.ControllerConfig{Type: config.ControllerPID, Kp: 1}, "*control.PID"},
		{config.ControllerConfig{Type: config.ControllerDamper, Kd: 1}, "*control.Damper"},
	}

	for _, tt := range tests {
		c, err := FromConfig(tt.cc)
		if err != nil {
			t.Fatalf("%q: %v", tt.cc.Type, err)
		}
		if got := typeName(c); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.cc.Type, tt.want, got)
		}
	}

	_, err := FromConfig(config.ControllerConfig{Type: "lqr"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func typeName(c Controller) string {
	switch c.(type) {
	case nil:
		return "<nil>"
	case None:
		return "control.None"
	case *PID:
		return "*control.PID"
	case *Damper:
		return "*control.Damper"
	}
	return "?"
}
