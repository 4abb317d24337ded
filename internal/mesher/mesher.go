// Package mesher will triangulate a domain from a sizing query. Only
// the interface exists today: the DistMesh-style generator consuming
// the (size, distance) pair is planned but not implemented.
package mesher

import (
	"errors"
	"fmt"
	"log"

	"github.com/banshee-data/meshsize.report/internal/geom"
)

// ErrNotImplemented is returned by Build until a generation method
// lands.
var ErrNotImplemented = errors.New("mesher: mesh generation not implemented")

// MethodDistMesh is the force-equilibrium method the generator is
// expected to grow first.
const MethodDistMesh = "distmesh"

// Mesh is the triangulation a generator produces: vertex coordinates
// in (z, x) order and triangles as index triples into Points.
type Mesh struct {
	Points    [][2]float64
	Triangles [][3]int
}

// Generator consumes a finalized sizing query and produces a mesh.
type Generator struct {
	Query  geom.SizingQuery
	Method string
}

// NewGenerator wraps a sizing query with the default method.
func NewGenerator(q geom.SizingQuery) *Generator {
	return &Generator{Query: q, Method: MethodDistMesh}
}

// Build runs the configured generation method.
func (g *Generator) Build() (*Mesh, error) {
	switch g.Method {
	case MethodDistMesh:
		log.Printf("mesher: using the DistMesh method to generate mesh")
		return nil, ErrNotImplemented
	default:
		return nil, fmt.Errorf("mesher: unknown generation method %q", g.Method)
	}
}
