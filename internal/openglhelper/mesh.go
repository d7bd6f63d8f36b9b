package openglhelper

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// floats per vertex: position (3), normal (3), texture coordinates (2)
const vertexStride = 8

// Mesh is an indexed triangle mesh living on the GPU
type Mesh struct {
	vao     *VertexArrayObject
	vbo     *BufferObject
	ebo     *BufferObject
	indices int32
}

// NewMesh uploads interleaved position/normal/uv vertices and indices
func NewMesh(vertices []float32, indices []uint32) *Mesh {
	vao := NewVAO()
	vao.Bind()

	vbo := NewVBO(vertices, StaticDraw)
	ebo := NewEBO(indices, StaticDraw)

	vao.SetVertexAttribPointer(0, 3, gl.FLOAT, false, vertexStride*4, 0)
	vao.SetVertexAttribPointer(1, 3, gl.FLOAT, false, vertexStride*4, 3*4)
	vao.SetVertexAttribPointer(2, 2, gl.FLOAT, false, vertexStride*4, 6*4)

	vao.Unbind()

	return &Mesh{
		vao:     vao,
		vbo:     vbo,
		ebo:     ebo,
		indices: int32(len(indices)),
	}
}

// Draw renders the mesh with whatever shader is in use
func (m *Mesh) Draw() {
	m.vao.Bind()
	gl.DrawElements(gl.TRIANGLES, m.indices, gl.UNSIGNED_INT, nil)
	m.vao.Unbind()
}

// Delete releases all resources
func (m *Mesh) Delete() {
	m.vao.Delete()
	m.vbo.Delete()
	m.ebo.Delete()
}

// NewPlane creates a size × size ground quad in the XZ plane facing +Y
func NewPlane(size float32) *Mesh {
	h := size / 2
	vertices := []float32{
		-h, 0, -h, 0, 1, 0, 0, 0,
		h, 0, -h, 0, 1, 0, 1, 0,
		h, 0, h, 0, 1, 0, 1, 1,
		-h, 0, h, 0, 1, 0, 0, 1,
	}
	// counter-clockwise seen from above
	indices := []uint32{0, 2, 1, 0, 3, 2}
	return NewMesh(vertices, indices)
}

// NewCube creates a unit cube centred on the origin
func NewCube() *Mesh {
	vertices := []float32{
		// Front face
		-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 0.0,
		0.5, -0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 0.0,
		0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 1.0, 1.0,
		-0.5, 0.5, 0.5, 0.0, 0.0, 1.0, 0.0, 1.0,

		// Back face
		-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 0.0,
		-0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 1.0, 1.0,
		0.5, 0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 1.0,
		0.5, -0.5, -0.5, 0.0, 0.0, -1.0, 0.0, 0.0,

		// Top face
		-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 0.0, 1.0,
		-0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 0.0, 0.0,
		0.5, 0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 0.0, 1.0, 0.0, 1.0, 1.0,

		// Bottom face
		-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 0.0, 0.0,
		0.5, -0.5, -0.5, 0.0, -1.0, 0.0, 1.0, 0.0,
		0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 1.0, 1.0,
		-0.5, -0.5, 0.5, 0.0, -1.0, 0.0, 0.0, 1.0,

		// Right face
		0.5, -0.5, -0.5, 1.0, 0.0, 0.0, 1.0, 0.0,
		0.5, 0.5, -0.5, 1.0, 0.0, 0.0, 1.0, 1.0,
		0.5, 0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 1.0,
		0.5, -0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 0.0,

		// Left face
		-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 0.0,
		-0.5, -0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 0.0,
		-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, 1.0, 1.0,
		-0.5, 0.5, -0.5, -1.0, 0.0, 0.0, 0.0, 1.0,
	}

	indices := []uint32{
		0, 1, 2, 2, 3, 0,
		4, 5, 6, 6, 7, 4,
		8, 9, 10, 10, 11, 8,
		12, 13, 14, 14, 15, 12,
		16, 17, 18, 18, 19, 16,
		20, 21, 22, 22, 23, 20,
	}

	return NewMesh(vertices, indices)
}
