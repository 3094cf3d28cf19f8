// Copyright © 2024 Galvanized Logic Inc.

// Package physics is a real-time 2D rigid-body simulation.
// Physics applies simulated forces to bodies made of one or more
// Fixtures, finds and resolves contacts between them with a
// Sequential-Impulses solver, and links bodies together with Joints.
// A World owns everything: create it, add Bodies and Fixtures, then
// call Step once per frame.
//
// Package physics is provided as part of the kinetic engine.
package physics

// physics.go once carried a single Simulate entry point wired to a
// cgo PBD solver and single-shape bodies. World.Step, Body.CreateFixture,
// and the Shape constructors in shape.go now cover that role for a
// multi-fixture 2D body; this file is left as the package's overview
// doc comment.
