package vrtest

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved layout consumed by DefaultPipeline.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

//Bytes per packed Vertex
const VertexStride = 24

var (
	red   = mgl32.Vec3{1, 0, 0}
	green = mgl32.Vec3{0, 1, 0}
	blue  = mgl32.Vec3{0, 0, 1}
)

// Triangles is the placeholder payload: three clip space triangles side by
// side at depth 0.5.
var Triangles = []Vertex{
	{mgl32.Vec3{-0.6, -0.3, 0.5}, red},
	{mgl32.Vec3{-0.3, 0.3, 0.5}, green},
	{mgl32.Vec3{-0.9, 0.3, 0.5}, blue},

	{mgl32.Vec3{0.0, -0.3, 0.5}, red},
	{mgl32.Vec3{0.3, 0.3, 0.5}, green},
	{mgl32.Vec3{-0.3, 0.3, 0.5}, blue},

	{mgl32.Vec3{0.6, -0.3, 0.5}, red},
	{mgl32.Vec3{0.9, 0.3, 0.5}, green},
	{mgl32.Vec3{0.3, 0.3, 0.5}, blue},
}

// PackVertices lays vertices out as little endian float32 values, VertexStride
// bytes each.
func PackVertices(vertices []Vertex) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, len(vertices)*VertexStride))
	//Writing into a bytes.Buffer cannot fail for fixed size values
	_ = binary.Write(buf, binary.LittleEndian, vertices)
	return buf.Bytes()
}
