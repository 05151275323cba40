// Package collision implements the level geometry queries the simulation
// consumes: point and box solidity, swept box movement, line intersection,
// and point reflection over a tile grid.
package collision

import "github.com/35niavlys/speedfng/internal/geom"

// Flags describe the collision properties of a tile.
type Flags int

const (
	FlagSolid  Flags = 1 << 0
	FlagDeath  Flags = 1 << 1
	FlagNoHook Flags = 1 << 2
)

// Has reports whether all bits of mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}

// TileSize is the edge length of one grid cell in world units.
const TileSize = 32

// LineHit reports where a segment first entered solid geometry.
type LineHit struct {
	// Point is the first sampled position inside solid geometry.
	Point geom.Vec2
	// Before is the last sampled position outside of it.
	Before geom.Vec2
	Flags  Flags
}

// Surface is the geometry query contract used by the physics core and the
// entities.
type Surface interface {
	CheckPoint(p geom.Vec2) bool
	CollisionAt(p geom.Vec2) Flags
	TestBox(p geom.Vec2, size geom.Vec2) bool
	MoveBox(pos, vel geom.Vec2, size geom.Vec2, elasticity float32) (geom.Vec2, geom.Vec2)
	IntersectLine(from, to geom.Vec2) (LineHit, bool)
	MovePoint(pos, vel geom.Vec2, elasticity float32) (geom.Vec2, geom.Vec2, int)
	Clipped(p geom.Vec2) bool
}
