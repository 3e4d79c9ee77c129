package engine

import "github.com/lixenwraith/blastfield/vmath"

// Terrain is the height-field collaborator used by terrain following and wall reflection
type Terrain interface {
	// HeightAt returns surface height at world (x, z)
	HeightAt(x, z float64) float64
	// NormalAt returns the unit surface normal at world (x, z)
	NormalAt(x, z float64) vmath.Vec3F
	// WorldScale returns the world side length; the half-extent is WorldScale/2
	WorldScale() float64
}

// FlatTerrain is a horizontal plane at height 0, used by tests and headless runs without a height field
type FlatTerrain struct {
	Scale float64
}

func (f FlatTerrain) HeightAt(x, z float64) float64      { return 0 }
func (f FlatTerrain) NormalAt(x, z float64) vmath.Vec3F { return vmath.V3FUp }
func (f FlatTerrain) WorldScale() float64               { return f.Scale }
