// Copyright © 2024 Galvanized Logic Inc.

package physics

// config.go lets a scene be authored as yaml data instead of built up
// through CreateBody/CreateFixture calls, the same "small struct plus
// yaml tags" shape load/shd.go uses for shader descriptions. Only the
// shapes a scene file can unambiguously describe (circle, box, free
// polygon) are supported; anything more exotic (chains, custom edges)
// is still built in Go and attached to the loaded bodies afterward.

import (
	"fmt"
	"io"

	"github.com/gazed/kinetic/math/lin"
	"gopkg.in/yaml.v3"
)

// ShapeConfig describes one fixture's shape. Exactly one of Circle,
// Box, or Polygon should be set; Circle takes precedence if more than
// one is present.
type ShapeConfig struct {
	Circle *struct {
		Radius float64 `yaml:"radius"`
	} `yaml:"circle,omitempty"`
	Box *struct {
		HalfWidth  float64 `yaml:"halfWidth"`
		HalfHeight float64 `yaml:"halfHeight"`
	} `yaml:"box,omitempty"`
	Polygon *struct {
		Points [][2]float64 `yaml:"points"`
	} `yaml:"polygon,omitempty"`

	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
	IsSensor    bool    `yaml:"isSensor"`
}

func (s ShapeConfig) build() (Shape, error) {
	switch {
	case s.Circle != nil:
		return NewCircle(s.Circle.Radius), nil
	case s.Box != nil:
		return NewBox(s.Box.HalfWidth, s.Box.HalfHeight), nil
	case s.Polygon != nil:
		pts := make([]lin.V2, len(s.Polygon.Points))
		for i, p := range s.Polygon.Points {
			pts[i] = lin.V2{X: p[0], Y: p[1]}
		}
		return NewPolygon(pts), nil
	default:
		return nil, fmt.Errorf("physics: body config fixture has no shape")
	}
}

// BodyConfig describes one body and its fixtures.
type BodyConfig struct {
	Name     string        `yaml:"name"`
	Type     string        `yaml:"type"` // "static", "kinematic", or "dynamic".
	Position [2]float64    `yaml:"position"`
	Angle    float64       `yaml:"angle"`
	Bullet   bool          `yaml:"bullet"`
	Fixtures []ShapeConfig `yaml:"fixtures"`
}

func (b BodyConfig) bodyType() (BodyType, error) {
	switch b.Type {
	case "", "static":
		return StaticBody, nil
	case "kinematic":
		return KinematicBody, nil
	case "dynamic":
		return DynamicBody, nil
	default:
		return StaticBody, fmt.Errorf("physics: body config %q has unknown type %q", b.Name, b.Type)
	}
}

// WorldConfig is the yaml-serializable form of a world's tuning
// constants and initial body roster.
type WorldConfig struct {
	Gravity            [2]float64   `yaml:"gravity"`
	AllowSleep         bool         `yaml:"allowSleep"`
	VelocityIterations int          `yaml:"velocityIterations"`
	PositionIterations int          `yaml:"positionIterations"`
	Bodies             []BodyConfig `yaml:"bodies"`
}

// LoadWorldConfig parses a yaml document into a WorldConfig.
func LoadWorldConfig(r io.Reader) (WorldConfig, error) {
	var cfg WorldConfig
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		return WorldConfig{}, fmt.Errorf("physics: decoding world config: %w", err)
	}
	if cfg.VelocityIterations == 0 {
		cfg.VelocityIterations = 8
	}
	if cfg.PositionIterations == 0 {
		cfg.PositionIterations = 3
	}
	return cfg, nil
}

// Build constructs a World and every configured body/fixture, returning
// the bodies in declaration order alongside the world.
func (c WorldConfig) Build() (*World, []*Body, error) {
	def := DefaultWorldDef()
	def.Gravity = lin.V2{X: c.Gravity[0], Y: c.Gravity[1]}
	def.AllowSleep = c.AllowSleep
	def.VelocityIterations = c.VelocityIterations
	def.PositionIterations = c.PositionIterations
	w := NewWorld(def)

	bodies := make([]*Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		typ, err := bc.bodyType()
		if err != nil {
			return nil, nil, err
		}
		bodyDef := DefaultBodyDef()
		bodyDef.Type = typ
		bodyDef.Position = lin.V2{X: bc.Position[0], Y: bc.Position[1]}
		bodyDef.Angle = bc.Angle
		bodyDef.Bullet = bc.Bullet
		bodyDef.UserData = bc.Name
		body := w.CreateBody(bodyDef)

		for _, fc := range bc.Fixtures {
			shape, err := fc.build()
			if err != nil {
				return nil, nil, fmt.Errorf("physics: body %q: %w", bc.Name, err)
			}
			fixtureDef := DefaultFixtureDef(shape)
			if fc.Density > 0 {
				fixtureDef.Density = fc.Density
			}
			fixtureDef.Friction = fc.Friction
			fixtureDef.Restitution = fc.Restitution
			fixtureDef.IsSensor = fc.IsSensor
			body.CreateFixture(fixtureDef)
		}
		bodies = append(bodies, body)
	}
	return w, bodies, nil
}
