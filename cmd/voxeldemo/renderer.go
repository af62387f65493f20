package main

// regionRenderer uploads each pulled RegionMesh to a GPU object and
// draws it. It is grounded on the reference project's
// internal/graphics/renderables/blocks/atlas.go (a persistent
// VAO/VBO/EBO set, grown on demand, re-uploaded with gl.BufferData each
// time its contents change) -- simplified from that file's single
// shared growable atlas buffer to one small persistent buffer set per
// visible region slot, since a demo has nowhere near the reference
// project's vertex count.

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"voxelcore"
)

const floatsPerVertex = 3 + 3 + 2 + 4 // position, normal, uv, color

type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func newGPUMesh() *gpuMesh {
	m := &gpuMesh{}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	stride := int32(floatsPerVertex * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(8*4))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BindVertexArray(0)
	return m
}

func (m *gpuMesh) upload(rm voxelcore.RegionMesh) {
	vertexCount := rm.Mesh.VertexCount()
	interleaved := make([]float32, 0, vertexCount*floatsPerVertex)
	for i := 0; i < vertexCount; i++ {
		interleaved = append(interleaved,
			rm.Mesh.Positions[i*3], rm.Mesh.Positions[i*3+1], rm.Mesh.Positions[i*3+2],
			rm.Mesh.Normals[i*3], rm.Mesh.Normals[i*3+1], rm.Mesh.Normals[i*3+2],
			rm.Mesh.UVs[i*2], rm.Mesh.UVs[i*2+1],
			rm.Mesh.Colors[i*4], rm.Mesh.Colors[i*4+1], rm.Mesh.Colors[i*4+2], rm.Mesh.Colors[i*4+3],
		)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	if len(interleaved) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(interleaved)*4, gl.Ptr(interleaved), gl.DYNAMIC_DRAW)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	if len(rm.Mesh.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(rm.Mesh.Indices)*4, gl.Ptr(rm.Mesh.Indices), gl.DYNAMIC_DRAW)
	}
	m.indexCount = int32(len(rm.Mesh.Indices))
}

func (m *gpuMesh) destroy() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

type regionRenderer struct {
	slots []*gpuMesh
}

func newRegionRenderer() *regionRenderer {
	return &regionRenderer{}
}

func (r *regionRenderer) close() {
	for _, s := range r.slots {
		s.destroy()
	}
}

// draw re-uploads every visible region mesh and issues one draw call per
// region, growing its slot pool on demand (never shrinking -- matching
// the reference atlas's grow-only capacity policy).
func (r *regionRenderer) draw(prog *shader, meshes []voxelcore.RegionMesh) {
	for len(r.slots) < len(meshes) {
		r.slots = append(r.slots, newGPUMesh())
	}

	identity := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	for i, rm := range meshes {
		if rm.Mesh.Empty() {
			continue
		}
		slot := r.slots[i]
		slot.upload(rm)

		model := identity
		model[12], model[13], model[14] = rm.Origin.X(), rm.Origin.Y(), rm.Origin.Z()
		prog.setMat4("uModel", &model[0])

		gl.BindVertexArray(slot.vao)
		gl.DrawElements(gl.TRIANGLES, slot.indexCount, gl.UNSIGNED_INT, nil)
	}
	gl.BindVertexArray(0)
}
