// Package geometry builds the blob mesh.
package geometry

import (
	"math"

	m "github.com/Faultbox/blobscene/pkg/math"
)

// Stride is the number of floats per interleaved vertex:
// position(3) normal(3) uv(2) tangent(4).
const Stride = 12

// Mesh is an indexed triangle mesh with per-vertex tangents.
type Mesh struct {
	Positions []float32 // xyz
	Normals   []float32 // xyz
	UVs       []float32 // uv
	Tangents  []float32 // xyzw, w is the bitangent sign
	Indices   []uint32
}

// VertexCount returns the number of unique vertices.
func (mesh *Mesh) VertexCount() int {
	return len(mesh.Positions) / 3
}

// TriangleCount returns the number of indexed triangles.
func (mesh *Mesh) TriangleCount() int {
	return len(mesh.Indices) / 3
}

// Interleaved packs the attributes into one buffer with Stride floats per vertex.
func (mesh *Mesh) Interleaved() []float32 {
	n := mesh.VertexCount()
	out := make([]float32, 0, n*Stride)
	for i := 0; i < n; i++ {
		out = append(out, mesh.Positions[i*3:i*3+3]...)
		out = append(out, mesh.Normals[i*3:i*3+3]...)
		out = append(out, mesh.UVs[i*2:i*2+2]...)
		out = append(out, mesh.Tangents[i*4:i*4+4]...)
	}
	return out
}

var (
	phi = float32((1 + math.Sqrt(5)) / 2)

	icoVertices = []m.Vec3{
		{X: -1, Y: phi}, {X: 1, Y: phi}, {X: -1, Y: -phi}, {X: 1, Y: -phi},
		{Y: -1, Z: phi}, {Y: 1, Z: phi}, {Y: -1, Z: -phi}, {Y: 1, Z: -phi},
		{X: phi, Z: -1}, {X: phi, Z: 1}, {X: -phi, Z: -1}, {X: -phi, Z: 1},
	}

	icoFaces = [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
)

// Icosphere returns an icosahedron of the given radius with each face split
// into (detail+1)² triangles and projected onto the sphere. Vertices that
// share position and uv are merged, so the surface is smooth except along
// the texture seam.
func Icosphere(radius float32, detail int) *Mesh {
	if detail < 0 {
		detail = 0
	}
	b := newBuilder()
	cols := detail + 1

	for _, f := range icoFaces {
		a, bb, c := icoVertices[f[0]], icoVertices[f[1]], icoVertices[f[2]]

		// grid[i][j] walks from edge a-b toward vertex c.
		grid := make([][]m.Vec3, cols+1)
		for i := 0; i <= cols; i++ {
			t := float32(i) / float32(cols)
			ai := lerp(a, c, t)
			bi := lerp(bb, c, t)
			rows := cols - i
			grid[i] = make([]m.Vec3, rows+1)
			for j := 0; j <= rows; j++ {
				if j == 0 && i == cols {
					grid[i][j] = ai
				} else {
					grid[i][j] = lerp(ai, bi, float32(j)/float32(rows))
				}
			}
		}

		for i := 0; i < cols; i++ {
			for j := 0; j < 2*(cols-i)-1; j++ {
				k := j / 2
				if j%2 == 0 {
					b.triangle(radius, grid[i][k+1], grid[i+1][k], grid[i][k])
				} else {
					b.triangle(radius, grid[i][k+1], grid[i+1][k+1], grid[i+1][k])
				}
			}
		}
	}

	b.computeTangents()
	return &b.mesh
}

func lerp(a, b m.Vec3, t float32) m.Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// vertexKey quantizes a vertex for merging.
type vertexKey struct {
	x, y, z, u, v int32
}

const mergePrecision = 1e4

type builder struct {
	mesh  Mesh
	index map[vertexKey]uint32
}

func newBuilder() *builder {
	return &builder{index: make(map[vertexKey]uint32)}
}

func (b *builder) triangle(radius float32, p0, p1, p2 m.Vec3) {
	n := [3]m.Vec3{p0.Normalize(), p1.Normalize(), p2.Normalize()}
	var uv [3][2]float32
	for i := range n {
		uv[i] = sphereUV(n[i])
	}

	centroid := n[0].Add(n[1]).Add(n[2]).Scale(1.0 / 3)
	correctSeam(&uv)
	correctPoles(&uv, n, azimuth(centroid))

	for i := range n {
		b.mesh.Indices = append(b.mesh.Indices, b.vertex(n[i].Scale(radius), n[i], uv[i]))
	}
}

func (b *builder) vertex(p, n m.Vec3, uv [2]float32) uint32 {
	key := vertexKey{
		x: quantize(p.X), y: quantize(p.Y), z: quantize(p.Z),
		u: quantize(uv[0]), v: quantize(uv[1]),
	}
	if idx, ok := b.index[key]; ok {
		return idx
	}
	idx := uint32(b.mesh.VertexCount())
	b.index[key] = idx
	b.mesh.Positions = append(b.mesh.Positions, p.X, p.Y, p.Z)
	b.mesh.Normals = append(b.mesh.Normals, n.X, n.Y, n.Z)
	b.mesh.UVs = append(b.mesh.UVs, uv[0], uv[1])
	return idx
}

func quantize(f float32) int32 {
	return int32(math.Round(float64(f) * mergePrecision))
}

func azimuth(v m.Vec3) float64 {
	return math.Atan2(float64(v.Z), -float64(v.X))
}

func inclination(v m.Vec3) float64 {
	return math.Atan2(-float64(v.Y), math.Sqrt(float64(v.X*v.X+v.Z*v.Z)))
}

func sphereUV(n m.Vec3) [2]float32 {
	u := azimuth(n)/2/math.Pi + 0.5
	v := inclination(n)/math.Pi + 0.5
	return [2]float32{float32(u), float32(1 - v)}
}

// correctSeam keeps a triangle that straddles u=0/1 on one side of it.
func correctSeam(uv *[3][2]float32) {
	lo, hi := uv[0][0], uv[0][0]
	for _, t := range uv[1:] {
		lo = min(lo, t[0])
		hi = max(hi, t[0])
	}
	if hi > 0.9 && lo < 0.1 {
		for i := range uv {
			if uv[i][0] < 0.2 {
				uv[i][0]++
			}
		}
	}
}

// correctPoles gives a pole vertex the azimuth of its triangle, since the
// pole itself has none.
func correctPoles(uv *[3][2]float32, n [3]m.Vec3, az float64) {
	for i := range n {
		if n[i].X == 0 && n[i].Z == 0 {
			uv[i][0] = float32(az/2/math.Pi + 0.5)
		}
	}
}

// computeTangents derives per-vertex tangents from uv gradients, then
// orthogonalizes them against the normal.
func (b *builder) computeTangents() {
	mesh := &b.mesh
	n := mesh.VertexCount()
	tan1 := make([]m.Vec3, n)
	tan2 := make([]m.Vec3, n)

	pos := func(i uint32) m.Vec3 {
		return m.Vec3{X: mesh.Positions[i*3], Y: mesh.Positions[i*3+1], Z: mesh.Positions[i*3+2]}
	}
	uv := func(i uint32) (float32, float32) {
		return mesh.UVs[i*2], mesh.UVs[i*2+1]
	}

	for t := 0; t < len(mesh.Indices); t += 3 {
		i0, i1, i2 := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		p0, p1, p2 := pos(i0), pos(i1), pos(i2)
		u0, v0 := uv(i0)
		u1, v1 := uv(i1)
		u2, v2 := uv(i2)

		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		du1, dv1 := u1-u0, v1-v0
		du2, dv2 := u2-u0, v2-v0

		det := du1*dv2 - du2*dv1
		if det == 0 {
			continue
		}
		r := 1 / det
		sdir := e1.Scale(dv2).Sub(e2.Scale(dv1)).Scale(r)
		tdir := e2.Scale(du1).Sub(e1.Scale(du2)).Scale(r)

		for _, i := range [3]uint32{i0, i1, i2} {
			tan1[i] = tan1[i].Add(sdir)
			tan2[i] = tan2[i].Add(tdir)
		}
	}

	mesh.Tangents = make([]float32, 0, n*4)
	for i := 0; i < n; i++ {
		nrm := m.Vec3{X: mesh.Normals[i*3], Y: mesh.Normals[i*3+1], Z: mesh.Normals[i*3+2]}
		t := tan1[i]
		tangent := t.Sub(nrm.Scale(nrm.Dot(t))).Normalize()
		if tangent == (m.Vec3{}) {
			tangent = fallbackTangent(nrm)
		}
		w := float32(1)
		if nrm.Cross(t).Dot(tan2[i]) < 0 {
			w = -1
		}
		mesh.Tangents = append(mesh.Tangents, tangent.X, tangent.Y, tangent.Z, w)
	}
}

// fallbackTangent picks any unit vector perpendicular to n.
func fallbackTangent(n m.Vec3) m.Vec3 {
	axis := m.Vec3{X: 1}
	if math.Abs(float64(n.X)) > 0.9 {
		axis = m.Vec3{Y: 1}
	}
	return axis.Sub(n.Scale(n.Dot(axis))).Normalize()
}
