package stl

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/shixin627/watch-cnc/pkg/mesh"
)

// Encode serializes a mesh into the fixed-record binary encoding. The
// output always satisfies the 84 + count*50 length formula, so Decode
// classifies it as binary.
func Encode(m *mesh.Mesh) []byte {
	count := m.TriangleCount()
	out := make([]byte, headerSize+countSize+count*recordSize)
	copy(out, "watch-cnc binary STL")
	binary.LittleEndian.PutUint32(out[headerSize:], uint32(count))

	for i := 0; i < count; i++ {
		rec := out[headerSize+countSize+i*recordSize:]
		t := m.Triangle(i)
		f := [12]float64{
			t.Normal.X, t.Normal.Y, t.Normal.Z,
			t.V1.X, t.V1.Y, t.V1.Z,
			t.V2.X, t.V2.Y, t.V2.Z,
			t.V3.X, t.V3.Y, t.V3.Z,
		}
		for j, v := range f {
			binary.LittleEndian.PutUint32(rec[4*j:], math.Float32bits(float32(v)))
		}
		// Attribute trailer bytes stay zero.
	}
	return out
}

// EncodeASCII serializes a mesh into the textual encoding under the
// given solid name.
func EncodeASCII(w io.Writer, m *mesh.Mesh, name string) error {
	if _, err := fmt.Fprintf(w, "solid %s\n", name); err != nil {
		return err
	}
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		_, err := fmt.Fprintf(w,
			"  facet normal %g %g %g\n    outer loop\n      vertex %g %g %g\n      vertex %g %g %g\n      vertex %g %g %g\n    endloop\n  endfacet\n",
			t.Normal.X, t.Normal.Y, t.Normal.Z,
			t.V1.X, t.V1.Y, t.V1.Z,
			t.V2.X, t.V2.Y, t.V2.Z,
			t.V3.X, t.V3.Y, t.V3.Z,
		)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "endsolid %s\n", name)
	return err
}
