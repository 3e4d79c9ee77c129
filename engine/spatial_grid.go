package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/blastfield/vmath"
)

// AABB is an axis-aligned rectangle on the XZ plane
type AABB struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Contains reports whether (x, z) lies in the half-open box [Min, Max)
func (b AABB) Contains(x, z float64) bool {
	return x >= b.MinX && x < b.MaxX && z >= b.MinZ && z < b.MaxZ
}

// Cell is a single grid cell with its precomputed bounds and member entity IDs
// Members are unordered and rebuilt every frame
type Cell struct {
	Bounds   AABB
	Entities []int
}

// SpatialGrid is a uniform CellsX × CellsZ partition of a square world of side WorldScale
// centered on the origin. Mutated only from the main thread between steps
type SpatialGrid struct {
	CellsX     int
	CellsZ     int
	WorldScale float64
	CellSizeX  float64
	CellSizeZ  float64
	Cells      []Cell // 1D array: index = z*CellsX + x
}

// NewSpatialGrid allocates cellsX*cellsZ cells tiling the world exactly
func NewSpatialGrid(cellsX, cellsZ int, worldScale float64) (*SpatialGrid, error) {
	if cellsX <= 0 || cellsZ <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cells", ErrInvalidGrid, cellsX, cellsZ)
	}
	if !(worldScale > 0) {
		return nil, fmt.Errorf("%w: world scale %v", ErrInvalidGrid, worldScale)
	}

	g := &SpatialGrid{
		CellsX:     cellsX,
		CellsZ:     cellsZ,
		WorldScale: worldScale,
		CellSizeX:  worldScale / float64(cellsX),
		CellSizeZ:  worldScale / float64(cellsZ),
		Cells:      make([]Cell, cellsX*cellsZ),
	}

	half := worldScale / 2
	for z := 0; z < cellsZ; z++ {
		for x := 0; x < cellsX; x++ {
			minX := -half + float64(x)*g.CellSizeX
			minZ := -half + float64(z)*g.CellSizeZ
			g.Cells[z*cellsX+x] = Cell{
				Bounds: AABB{
					MinX: minX,
					MinZ: minZ,
					MaxX: minX + g.CellSizeX,
					MaxZ: minZ + g.CellSizeZ,
				},
				Entities: make([]int, 0, 8),
			}
		}
	}
	return g, nil
}

// Clear empties every cell's member list, keeping capacity
func (g *SpatialGrid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Entities = g.Cells[i].Entities[:0]
	}
}

// CellIndexForPoint maps a world point to a cell coordinate
// Points outside the world are clamped into the boundary cells so drifting entities stay queryable
func (g *SpatialGrid) CellIndexForPoint(p vmath.Vec3F) (x, z int) {
	half := g.WorldScale / 2
	x = clampCell(int(math.Floor((p.X+half)/g.CellSizeX)), g.CellsX)
	z = clampCell(int(math.Floor((p.Z+half)/g.CellSizeZ)), g.CellsZ)
	return x, z
}

// Index flattens a cell coordinate
func (g *SpatialGrid) Index(x, z int) int {
	return z*g.CellsX + x
}

// CellAt returns the cell at a flat index
func (g *SpatialGrid) CellAt(i int) *Cell {
	return &g.Cells[i]
}

// Insert adds id to every distinct cell touched by the nine sample points of its bounding
// circle (center, ±r on each axis, the four (±r, ±r) corners)
// Unique cell indices are appended to dst, which the caller clears beforehand
func (g *SpatialGrid) Insert(id int, center vmath.Vec3F, radius float64, dst []int) []int {
	var samples = [9][2]float64{
		{0, 0},
		{radius, 0}, {-radius, 0},
		{0, radius}, {0, -radius},
		{radius, radius}, {radius, -radius},
		{-radius, radius}, {-radius, -radius},
	}

	// At most 9 unique cells; a fixed array keeps dedup allocation-free
	var seen [9]int
	n := 0

	for _, s := range samples {
		x, z := g.CellIndexForPoint(vmath.Vec3F{X: center.X + s[0], Z: center.Z + s[1]})
		idx := g.Index(x, z)

		dup := false
		for i := 0; i < n; i++ {
			if seen[i] == idx {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[n] = idx
		n++

		g.Cells[idx].Entities = append(g.Cells[idx].Entities, id)
		dst = append(dst, idx)
	}
	return dst
}

// Occupancy returns the total member count across all cells
func (g *SpatialGrid) Occupancy() int {
	total := 0
	for i := range g.Cells {
		total += len(g.Cells[i].Entities)
	}
	return total
}

func clampCell(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
