//go:build !noebiten

package render

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

// VertexPool provides pooling for vertex slices used in triangle drawing.
type VertexPool struct {
	pool sync.Pool
}

// NewVertexPool creates a new VertexPool.
func NewVertexPool() *VertexPool {
	return &VertexPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]ebiten.Vertex, 0, 64)
			},
		},
	}
}

// Get retrieves a vertex slice from the pool.
// The returned slice has length 0 but may have capacity > 0.
func (p *VertexPool) Get() []ebiten.Vertex {
	return p.pool.Get().([]ebiten.Vertex)[:0]
}

// Put returns a vertex slice to the pool.
func (p *VertexPool) Put(vertices []ebiten.Vertex) {
	if vertices != nil {
		p.pool.Put(vertices[:0])
	}
}

// IndexPool provides pooling for index slices used in triangle drawing.
type IndexPool struct {
	pool sync.Pool
}

// NewIndexPool creates a new IndexPool.
func NewIndexPool() *IndexPool {
	return &IndexPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make([]uint16, 0, 96)
			},
		},
	}
}

// Get retrieves an index slice from the pool.
// The returned slice has length 0 but may have capacity > 0.
func (p *IndexPool) Get() []uint16 {
	return p.pool.Get().([]uint16)[:0]
}

// Put returns an index slice to the pool.
func (p *IndexPool) Put(indices []uint16) {
	if indices != nil {
		p.pool.Put(indices[:0])
	}
}

var (
	strokeVertices = NewVertexPool()
	strokeIndices  = NewIndexPool()
)
