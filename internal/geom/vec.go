// Package geom holds the float32 vector helpers shared by the physics core,
// the collision grid, and the entity world.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is the position/velocity type used throughout the simulation.
type Vec2 = mgl32.Vec2

// V builds a vector from its components.
func V(x, y float32) Vec2 {
	return Vec2{x, y}
}

// Length returns the euclidean length of v.
func Length(v Vec2) float32 {
	return v.Len()
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Vec2) float32 {
	return a.Sub(b).Len()
}

// Normalize returns the unit vector of v, or the zero vector when v has no
// length.
func Normalize(v Vec2) Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Mul(1 / l)
}

// Angle returns the heading of v in radians.
func Angle(v Vec2) float32 {
	if v[0] == 0 && v[1] == 0 {
		return 0
	}
	return float32(math.Atan2(float64(v[1]), float64(v[0])))
}

// Direction returns the unit vector for the given heading.
func Direction(angle float32) Vec2 {
	s, c := math.Sincos(float64(angle))
	return Vec2{float32(c), float32(s)}
}

// Mix linearly interpolates between a and b.
func Mix(a, b Vec2, t float32) Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

// MixScalar linearly interpolates between two scalars.
func MixScalar(a, b, t float32) float32 {
	return a + (b-a)*t
}

// ClosestPointOnLine projects p onto the segment a-b, clamped to its ends.
func ClosestPointOnLine(a, b, p Vec2) Vec2 {
	d := Distance(a, b)
	if d == 0 {
		return a
	}
	t := Normalize(b.Sub(a)).Dot(p.Sub(a)) / d
	return Mix(a, b, Clamp(t, 0, 1))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SaturatedAdd accelerates current by modifier without crossing the bound in
// the direction of travel. A value already beyond the bound is left alone.
func SaturatedAdd(lo, hi, current, modifier float32) float32 {
	if modifier < 0 {
		if current < lo {
			return current
		}
		current += modifier
		if current < lo {
			current = lo
		}
		return current
	}
	if current > hi {
		return current
	}
	current += modifier
	if current > hi {
		current = hi
	}
	return current
}

// VelocityRamp returns the horizontal speed scale for a given speed.
func VelocityRamp(value, start, span, curvature float32) float32 {
	if value < start {
		return 1
	}
	return float32(1 / math.Pow(float64(curvature), float64((value-start)/span)))
}

// RoundToInt rounds half away from zero.
func RoundToInt(f float32) int32 {
	if f > 0 {
		return int32(f + 0.5)
	}
	return int32(f - 0.5)
}
