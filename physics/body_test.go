// Copyright © 2024 Galvanized Logic Inc.

package physics

import (
	"testing"

	"github.com/gazed/kinetic/math/lin"
)

func newTestWorld() *World { return NewWorld(WorldDef{Gravity: lin.V2{Y: -10}}) }

func TestBodyUniqueIDs(t *testing.T) {
	w := newTestWorld()
	b0 := w.CreateBody(DefaultBodyDef())
	b1 := w.CreateBody(DefaultBodyDef())
	if b1.bid-b0.bid != 1 {
		t.Error("body ids should be incrementing")
	}
}

func TestCircleFixtureMass(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	b := w.CreateBody(def)
	fd := DefaultFixtureDef(NewCircle(1))
	fd.Density = 1
	b.CreateFixture(fd)

	wantMass := lin.PI
	if !lin.Aeq(b.Mass(), wantMass) {
		t.Errorf("got mass %v want %v", b.Mass(), wantMass)
	}
	if b.InvMass() <= 0 {
		t.Error("dynamic body with a fixture should have positive inverse mass")
	}
}

func TestStaticBodyHasNoMass(t *testing.T) {
	w := newTestWorld()
	b := w.CreateBody(DefaultBodyDef()) // default type is StaticBody
	fd := DefaultFixtureDef(NewBox(50, 1))
	b.CreateFixture(fd)
	if b.InvMass() != 0 {
		t.Errorf("static body should have zero inverse mass, got %v", b.InvMass())
	}
}

func TestApplyGravity(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	b := w.CreateBody(def)
	b.CreateFixture(DefaultFixtureDef(NewCircle(1)))

	b.applyGravity(lin.V2{Y: -10})
	wantY := -10 * b.Mass()
	if !lin.Aeq(b.force.Y, wantY) {
		t.Errorf("got force.Y %v want %v", b.force.Y, wantY)
	}
}

func TestIntegrateVelocities(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	b := w.CreateBody(def)
	b.CreateFixture(DefaultFixtureDef(NewCircle(1)))

	b.force = lin.V2{X: 1, Y: 1}
	b.linearVelocity = lin.V2{X: 2, Y: 2}
	b.integrateVelocities(0.2)
	want := 2 + 0.2*b.InvMass()
	if !lin.Aeq(b.linearVelocity.X, want) {
		t.Errorf("got linear velocity %v want %v", b.linearVelocity.X, want)
	}
}

func TestApplyLinearImpulseWakesBody(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	def.Awake = false
	b := w.CreateBody(def)
	b.CreateFixture(DefaultFixtureDef(NewCircle(1)))

	b.ApplyLinearImpulse(lin.V2{X: 1, Y: 0}, b.WorldCenter(), true)
	if !b.IsAwake() {
		t.Error("expected body to wake on impulse with wake=true")
	}
	if b.linearVelocity.X <= 0 {
		t.Errorf("expected positive x velocity, got %v", b.linearVelocity.X)
	}
}

func TestIntegratePositions(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	b := w.CreateBody(def)
	b.CreateFixture(DefaultFixtureDef(NewCircle(1)))

	b.linearVelocity = lin.V2{X: 2, Y: 0}
	b.integratePositions(0.2)
	if !lin.Aeq(b.Position().X, 0.4) {
		t.Errorf("got position.X %v want 0.4", b.Position().X)
	}
}

func TestBodySleepsAfterBeingStill(t *testing.T) {
	w := newTestWorld()
	def := DefaultBodyDef()
	def.Type = DynamicBody
	b := w.CreateBody(def)
	b.CreateFixture(DefaultFixtureDef(NewCircle(1)))

	b.sleepTime = timeToSleep
	if !b.shouldSleep() {
		t.Error("expected body at rest past the sleep time threshold to sleep")
	}
	b.linearVelocity = lin.V2{X: 10}
	if b.shouldSleep() {
		t.Error("fast-moving body should not be eligible for sleep")
	}
}
