package render

import (
	"github.com/lixenwraith/blastfield/particle"
	"github.com/lixenwraith/blastfield/vmath"
)

// Sorter orders the used part of a particle pool by eye distance and packs quads back-to-front
// Buffers are reused across frames; not safe for concurrent use
type Sorter struct {
	pool     *particle.Pool
	indices  []int
	dist     []float64
	vertices []Vertex
	active   int
}

// NewSorter creates an empty sorter
func NewSorter() *Sorter {
	return &Sorter{}
}

// Sort keys the first used particles by squared distance to eye and orders them ascending
func (s *Sorter) Sort(pool *particle.Pool, used int, eye vmath.Vec3F) {
	s.pool = pool
	used = min(used, len(pool.Particles))

	s.indices = s.indices[:0]
	if cap(s.dist) < used {
		s.dist = make([]float64, used)
	}
	s.dist = s.dist[:used]

	for i := 0; i < used; i++ {
		s.indices = append(s.indices, i)
		s.dist[i] = vmath.V3FDistSq(pool.Particles[i].Pos, eye)
	}
	quickSort(s.indices, s.dist, 0, len(s.indices)-1)
}

// Order returns the sorted pool indices, nearest first
func (s *Sorter) Order() []int {
	return s.indices
}

// Flush emits six vertices per visible particle, farthest first
// The returned slice is reused by the next Flush
func (s *Sorter) Flush(view particle.View) []Vertex {
	s.vertices = s.vertices[:0]
	s.active = 0
	if s.pool == nil {
		return s.vertices
	}

	right, up := vec32(view.Right), vec32(view.Up)
	for i := len(s.indices) - 1; i >= 0; i-- {
		p := &s.pool.Particles[s.indices[i]]
		if !p.Visible {
			continue
		}
		s.vertices = appendQuad(s.vertices, p, right, up)
		s.active++
	}
	return s.vertices
}

// Active returns the number of particles emitted by the last Flush
func (s *Sorter) Active() int {
	return s.active
}

// quickSort orders idx[lo..hi] ascending by key[idx] with a middle-element pivot
// Recursing into the smaller side bounds stack depth to O(log n)
func quickSort(idx []int, key []float64, lo, hi int) {
	for lo < hi {
		pivot := key[idx[lo+(hi-lo)/2]]
		i, j := lo, hi
		for i <= j {
			for key[idx[i]] < pivot {
				i++
			}
			for key[idx[j]] > pivot {
				j--
			}
			if i <= j {
				idx[i], idx[j] = idx[j], idx[i]
				i++
				j--
			}
		}

		if j-lo < hi-i {
			quickSort(idx, key, lo, j)
			lo = i
		} else {
			quickSort(idx, key, i, hi)
			hi = j
		}
	}
}
