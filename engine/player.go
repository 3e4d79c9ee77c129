package engine

import (
	"github.com/lixenwraith/blastfield/physics"
	"github.com/lixenwraith/blastfield/vmath"
)

// State is one buffer of a player's physical state
type State struct {
	Pos     vmath.Vec3F
	Vel     vmath.Vec3F
	Accel   vmath.Vec3F
	Facing  vmath.Vec3F
	Gravity vmath.Vec3F
	Radius  float64
	Drag    float64
}

// Player is a simulated sphere with double-buffered state
//
// Contract: during a step, Advance reads only committed state (its own and every
// neighbour's) and writes only its own pending state. Commit copies pending into
// committed and runs on the main thread after every worker has finished. Breaking
// either rule makes concurrent Advance calls race.
type Player struct {
	ID        int
	committed State
	pending   State
	cells     []int
}

// StepContext carries the read-only world view plus per-worker scratch into Advance
type StepContext struct {
	Players []Player
	Grid    *SpatialGrid
	Terrain Terrain
	Profile *physics.ContactProfile

	// Worker-owned, reused across entities
	seen       []int
	Collisions int64
}

// NewStepContext builds a context for a single worker
func NewStepContext(players []Player, grid *SpatialGrid, terrain Terrain, profile *physics.ContactProfile) *StepContext {
	return &StepContext{
		Players: players,
		Grid:    grid,
		Terrain: terrain,
		Profile: profile,
		seen:    make([]int, 0, 32),
	}
}

// Committed returns the authoritative state
func (p *Player) Committed() State {
	return p.committed
}

// Pending returns the in-progress state written by the current step
func (p *Player) Pending() State {
	return p.pending
}

// Cells returns the grid cells this player was inserted into for the current frame
func (p *Player) Cells() []int {
	return p.cells
}

// Place overwrites both buffers; used at reset only, never during a step
func (p *Player) Place(s State) {
	p.committed = s
	p.pending = s
}

// Commit makes pending state authoritative
func (p *Player) Commit() {
	p.committed = p.pending
}

// Advance runs one simulation step for this player into pending state
func (p *Player) Advance(simTime, dt float64, ctx *StepContext) {
	// Copy phase
	p.pending = p.committed

	// Neighbour collisions against committed state
	ctx.seen = ctx.seen[:0]
	for _, ci := range p.cells {
		for _, other := range ctx.Grid.Cells[ci].Entities {
			if other == p.ID || containsID(ctx.seen, other) {
				continue
			}
			ctx.seen = append(ctx.seen, other)
			if p.CollideWithPlayer(&ctx.Players[other], ctx.Profile) {
				ctx.Collisions++
			}
		}
	}

	// Integration
	k := physics.Kinetic{
		Pos:     p.pending.Pos,
		Vel:     p.pending.Vel,
		Accel:   p.pending.Accel,
		Gravity: p.pending.Gravity,
		Drag:    p.pending.Drag,
	}
	physics.Integrate(&k, dt)

	// World-bound reflection
	physics.ReflectBounds(&k, ctx.Terrain.WorldScale()/2)

	// Terrain follow
	k.Pos.Y = ctx.Terrain.HeightAt(k.Pos.X, k.Pos.Z) + p.pending.Radius
	normal := ctx.Terrain.NormalAt(k.Pos.X, k.Pos.Z)
	k.Vel = physics.ProjectOntoPlane(k.Vel, normal)

	p.pending.Pos = k.Pos
	p.pending.Vel = k.Vel

	if flat := vmath.V3FFlat(k.Vel); vmath.V3FMagSq(flat) > 1e-12 {
		p.pending.Facing = vmath.V3FNormalize(flat)
	}
}

// CollideWithPlayer resolves this player's side of a contact with other
// Reads other's committed state and this player's committed radius; writes only pending
func (p *Player) CollideWithPlayer(other *Player, profile *physics.ContactProfile) bool {
	self := physics.Body{
		Pos:    p.committed.Pos,
		Vel:    p.committed.Vel,
		Radius: p.committed.Radius,
	}
	them := physics.Body{
		Pos:    other.committed.Pos,
		Vel:    other.committed.Vel,
		Radius: other.committed.Radius,
	}

	c, ok := physics.ResolveContact(self, them, profile)
	if !ok {
		return false
	}

	p.pending.Pos = vmath.V3FAdd(p.pending.Pos, c.DeltaPos)
	p.pending.Vel = vmath.V3FAdd(p.pending.Vel, c.DeltaVel)
	return true
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
