package collision

import (
	"fmt"
	"strings"

	"github.com/35niavlys/speedfng/internal/geom"
)

// clipMargin is the number of tiles beyond the map edge that still count as
// inside the playable area.
const clipMargin = 200

// SpawnKind distinguishes team spawns from neutral ones.
type SpawnKind int

const (
	SpawnAny SpawnKind = iota
	SpawnRed
	SpawnBlue
)

// Spawn is a spawn point parsed from the map.
type Spawn struct {
	Pos  geom.Vec2
	Kind SpawnKind
}

// Grid is a rectangular tile map.
type Grid struct {
	width  int
	height int
	tiles  []Flags
	spawns []Spawn
}

// NewGrid returns an empty grid of the given size in tiles.
func NewGrid(width, height int) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Grid{width: width, height: height, tiles: make([]Flags, width*height)}
}

// ParseRows builds a grid from ASCII rows. Recognised glyphs:
//
//	'#' solid, '=' solid and unhookable, 'x' death,
//	'S' spawn, 'R' red spawn, 'B' blue spawn, anything else is air.
func ParseRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("collision: map has no rows")
	}
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("collision: map rows are empty")
	}
	g := NewGrid(width, len(rows))
	for y, row := range rows {
		for x, glyph := range row {
			switch glyph {
			case '#':
				g.Set(x, y, FlagSolid)
			case '=':
				g.Set(x, y, FlagSolid|FlagNoHook)
			case 'x':
				g.Set(x, y, FlagDeath)
			case 'S', 'R', 'B':
				kind := SpawnAny
				if glyph == 'R' {
					kind = SpawnRed
				} else if glyph == 'B' {
					kind = SpawnBlue
				}
				g.spawns = append(g.spawns, Spawn{Pos: tileCenter(x, y), Kind: kind})
			}
		}
	}
	return g, nil
}

// MustParse is ParseRows for fixed maps in tests and defaults.
func MustParse(layout string) *Grid {
	g, err := ParseRows(strings.Split(strings.Trim(layout, "\n"), "\n"))
	if err != nil {
		panic(err)
	}
	return g
}

func tileCenter(x, y int) geom.Vec2 {
	return geom.V(float32(x*TileSize+TileSize/2), float32(y*TileSize+TileSize/2))
}

// Width returns the grid width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in tiles.
func (g *Grid) Height() int { return g.height }

// Spawns returns the parsed spawn points.
func (g *Grid) Spawns() []Spawn {
	return append([]Spawn(nil), g.spawns...)
}

// Set overwrites the flags of one tile. Out of range coordinates are ignored.
func (g *Grid) Set(x, y int, flags Flags) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.tiles[y*g.width+x] = flags
}

func (g *Grid) tile(x, y int) Flags {
	nx := clampInt(x/TileSize, 0, g.width-1)
	ny := clampInt(y/TileSize, 0, g.height-1)
	return g.tiles[ny*g.width+nx]
}

func (g *Grid) solidAt(x, y float32) bool {
	return g.tile(int(geom.RoundToInt(x)), int(geom.RoundToInt(y)))&FlagSolid != 0
}

// CheckPoint reports whether p lies inside solid geometry.
func (g *Grid) CheckPoint(p geom.Vec2) bool {
	return g.solidAt(p[0], p[1])
}

// CollisionAt returns the tile flags under p.
func (g *Grid) CollisionAt(p geom.Vec2) Flags {
	return g.tile(int(geom.RoundToInt(p[0])), int(geom.RoundToInt(p[1])))
}

// TestBox reports whether any corner of the box centred on p is solid.
func (g *Grid) TestBox(p geom.Vec2, size geom.Vec2) bool {
	half := size.Mul(0.5)
	return g.solidAt(p[0]-half[0], p[1]-half[1]) ||
		g.solidAt(p[0]+half[0], p[1]-half[1]) ||
		g.solidAt(p[0]-half[0], p[1]+half[1]) ||
		g.solidAt(p[0]+half[0], p[1]+half[1])
}

// MoveBox sweeps a box along vel in unit steps, sliding along blocked axes
// and reflecting the blocked velocity components by elasticity.
func (g *Grid) MoveBox(pos, vel geom.Vec2, size geom.Vec2, elasticity float32) (geom.Vec2, geom.Vec2) {
	distance := vel.Len()
	steps := int(distance)
	if distance <= 0.00001 {
		return pos, vel
	}
	fraction := 1 / float32(steps+1)
	for i := 0; i <= steps; i++ {
		next := pos.Add(vel.Mul(fraction))
		if g.TestBox(next, size) {
			hits := 0
			if g.TestBox(geom.V(pos[0], next[1]), size) {
				next[1] = pos[1]
				vel[1] *= -elasticity
				hits++
			}
			if g.TestBox(geom.V(next[0], pos[1]), size) {
				next[0] = pos[0]
				vel[0] *= -elasticity
				hits++
			}
			if hits == 0 {
				next = pos
				vel = vel.Mul(-elasticity)
			}
		}
		pos = next
	}
	return pos, vel
}

// IntersectLine samples the segment at unit intervals and reports the first
// solid sample. When nothing is hit the boolean is false.
func (g *Grid) IntersectLine(from, to geom.Vec2) (LineHit, bool) {
	d := geom.Distance(from, to)
	end := int(d + 1)
	last := from
	for i := 0; i < end; i++ {
		var a float32
		if d > 0 {
			a = float32(i) / d
		}
		p := geom.Mix(from, to, a)
		if g.CheckPoint(p) {
			return LineHit{Point: p, Before: last, Flags: g.CollisionAt(p)}, true
		}
		last = p
	}
	return LineHit{Point: to, Before: to}, false
}

// MovePoint advances a point by vel, reflecting the blocked axes instead of
// moving when the destination is solid. It returns the bounce count.
func (g *Grid) MovePoint(pos, vel geom.Vec2, elasticity float32) (geom.Vec2, geom.Vec2, int) {
	if !g.CheckPoint(pos.Add(vel)) {
		return pos.Add(vel), vel, 0
	}
	bounces := 0
	out := vel
	if g.CheckPoint(geom.V(pos[0]+vel[0], pos[1])) {
		out[0] *= -elasticity
		bounces++
	}
	if g.CheckPoint(geom.V(pos[0], pos[1]+vel[1])) {
		out[1] *= -elasticity
		bounces++
	}
	if bounces == 0 {
		out = out.Mul(-elasticity)
	}
	return pos, out, bounces
}

// Clipped reports whether p lies outside the playable area.
func (g *Grid) Clipped(p geom.Vec2) bool {
	rx := int(geom.RoundToInt(p[0])) / TileSize
	ry := int(geom.RoundToInt(p[1])) / TileSize
	return rx < -clipMargin || rx >= g.width+clipMargin || ry < -clipMargin || ry >= g.height+clipMargin
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ Surface = (*Grid)(nil)
