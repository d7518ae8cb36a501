package entity

import (
	"math"
	"testing"

	"github.com/pthm-cable/aipop/geom"
)

func TestEyeMisses(t *testing.T) {
	env := newTestEnv()
	ind := env.add(geom.V(400, 400), 100)

	ind.eye.Update(env, ind)

	e := ind.Eye()
	if e.FoodSqDist != math.MaxFloat64 || e.EnemySqDist != math.MaxFloat64 {
		t.Errorf("distances: got %v/%v, want MaxFloat64", e.FoodSqDist, e.EnemySqDist)
	}
	if e.EnemyHue != -1 || e.EnemySaturation != -1 {
		t.Errorf("enemy color: got %v/%v, want -1/-1", e.EnemyHue, e.EnemySaturation)
	}
}

func TestEyeNearest(t *testing.T) {
	env := newTestEnv()
	ind := env.add(geom.V(100, 100), 100)
	env.food.AddAll(NewFood(geom.V(100, 300), 5), NewFood(geom.V(100, 200), 5))
	near := env.add(geom.V(50, 100), 100)
	env.add(geom.V(300, 100), 100)

	ind.eye.Update(env, ind)
	e := ind.Eye()

	if e.FoodSqDist != 10000 {
		t.Errorf("food distance: got %v, want 10000", e.FoodSqDist)
	}
	if !approx(e.FoodBearing.Normalized(), 0.25) {
		t.Errorf("food bearing: got %v, want 0.25", e.FoodBearing.Normalized())
	}
	if e.EnemySqDist != 2500 || !approx(e.EnemyBearing.Normalized(), 0.5) {
		t.Errorf("enemy: dist %v bearing %v", e.EnemySqDist, e.EnemyBearing.Normalized())
	}
	if e.EnemyHue != near.Color().H {
		t.Errorf("enemy hue: got %v, want %v", e.EnemyHue, near.Color().H)
	}
}

func TestEyeBearingIsRelative(t *testing.T) {
	env := newTestEnv()
	ind := env.add(geom.V(100, 100), 100)
	ind.SetHeading(geom.Rot(math.Pi / 2))
	env.food.Add(NewFood(geom.V(100, 200), 5))

	ind.eye.Update(env, ind)
	if b := ind.Eye().FoodBearing.Normalized(); !approx(b, 0) && !approx(b, 1) {
		t.Errorf("bearing: got %v, want 0", b)
	}
}

func TestEyeSkipsDead(t *testing.T) {
	env := newTestEnv()
	ind := env.add(geom.V(100, 100), 100)
	other := env.add(geom.V(120, 100), 100)
	other.dead = true

	ind.eye.Update(env, ind)
	if ind.Eye().EnemySqDist != math.MaxFloat64 {
		t.Error("dead individuals should be invisible")
	}
}

func TestColorConversion(t *testing.T) {
	c := FromRGB(0x00, 0x80, 0xFF)
	got := c.RGBA()
	if got.R != 0 || got.G != 0x80 || got.B != 0xFF || got.A != 255 {
		t.Errorf("got %v, want {0 128 255 255}", got)
	}

	if h := (Color{H: 0.995}).ShiftHue(0.01).H; !approx(h, 0.005) {
		t.Errorf("hue wrap: got %v, want 0.005", h)
	}
	if h := (Color{H: 0.002}).ShiftHue(-0.01).H; !approx(h, 0.992) {
		t.Errorf("negative hue wrap: got %v, want 0.992", h)
	}
}
