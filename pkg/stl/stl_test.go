package stl_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/shixin627/watch-cnc/pkg/mesh"
	"github.com/shixin627/watch-cnc/pkg/stl"
)

// wedge builds a two-triangle mesh with distinct, float32-exact
// coordinates and per-triangle normals.
func wedge() *mesh.Mesh {
	positions := []float32{
		0, 0, 0, 2, 0, 0, 2, 1.5, 0.25,
		0, 0, 0, 2, 1.5, 0.25, 0, 1.5, 0.25,
	}
	normals := []float32{
		0, -0.25, 1, 0, -0.25, 1, 0, -0.25, 1,
		0, -0.25, 1, 0, -0.25, 1, 0, -0.25, 1,
	}
	return mesh.New(positions, normals)
}

func TestBinaryRoundTrip(t *testing.T) {
	src := wedge()
	data := stl.Encode(src)

	if want := 84 + src.TriangleCount()*50; len(data) != want {
		t.Fatalf("encoded length = %d, want %d", len(data), want)
	}

	got, err := stl.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(float32Bytes(got.Positions), float32Bytes(src.Positions)) {
		t.Errorf("positions differ:\ngot  %v\nwant %v", got.Positions, src.Positions)
	}
	if !bytes.Equal(float32Bytes(got.Normals), float32Bytes(src.Normals)) {
		t.Errorf("normals differ:\ngot  %v\nwant %v", got.Normals, src.Normals)
	}

	// Every vertex of a triangle carries the triangle's face normal.
	for i := 0; i < got.TriangleCount(); i++ {
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				if got.Normals[9*i+3*v+c] != got.Normals[9*i+c] {
					t.Fatalf("triangle %d vertex %d normal differs from face normal", i, v)
				}
			}
		}
	}

	st := got.Stats()
	if st.Extent.X != 2 || st.Extent.Y != 1.5 || st.Extent.Z != 0.25 {
		t.Errorf("extent = %+v", st.Extent)
	}
	if st.Center.X != 1 || st.Center.Y != 0.75 || st.Center.Z != 0.125 {
		t.Errorf("center = %+v", st.Center)
	}
}

func float32Bytes(f []float32) []byte {
	out := make([]byte, 4*len(f))
	for i, v := range f {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}

func TestFormatClassification(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		wantBinary bool
	}{
		{"zero triangles exact length", binaryStream(0, 0), true},
		{"three triangles exact length", binaryStream(3, 3), true},
		{"declared count larger than stream", binaryStream(5, 1), false},
		{"one trailing byte breaks the formula", append(binaryStream(2, 2), 0), false},
		{"short stream", make([]byte, 40), false},
		{"empty stream", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := stl.Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			// Binary-classified streams parse their declared triangles;
			// everything else falls through to the ASCII scan, which
			// finds no keywords in this junk and yields an empty mesh.
			wantTris := 0
			if tt.wantBinary {
				wantTris = int(binary.LittleEndian.Uint32(tt.data[80:84]))
			}
			if m.TriangleCount() != wantTris {
				t.Errorf("TriangleCount() = %d, want %d", m.TriangleCount(), wantTris)
			}
		})
	}
}

// binaryStream builds a stream declaring `declared` triangles but
// containing `actual` records.
func binaryStream(declared, actual int) []byte {
	out := make([]byte, 84+actual*50)
	binary.LittleEndian.PutUint32(out[80:], uint32(declared))
	return out
}

func TestDecodeBinaryTruncated(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"missing records", binaryStream(2, 1)},
		{"header only", binaryStream(1, 0)},
		{"shorter than header", make([]byte, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stl.DecodeBinary(tt.data)
			var perr *stl.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ParseError", err)
			}
		})
	}
}

func TestASCIIMatchesBinary(t *testing.T) {
	src := wedge()

	var buf bytes.Buffer
	if err := stl.EncodeASCII(&buf, src, "wedge"); err != nil {
		t.Fatalf("EncodeASCII: %v", err)
	}

	fromASCII, err := stl.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode ascii: %v", err)
	}
	fromBinary, err := stl.Decode(stl.Encode(src))
	if err != nil {
		t.Fatalf("Decode binary: %v", err)
	}

	if fromASCII.VertexCount() != fromBinary.VertexCount() {
		t.Fatalf("vertex counts differ: ascii %d, binary %d",
			fromASCII.VertexCount(), fromBinary.VertexCount())
	}
	for i := range fromASCII.Positions {
		if diff := math.Abs(float64(fromASCII.Positions[i] - fromBinary.Positions[i])); diff > 1e-6 {
			t.Fatalf("position %d differs by %v", i, diff)
		}
	}
}

func TestDecodeASCIIPermissive(t *testing.T) {
	t.Run("vertex without facet normal", func(t *testing.T) {
		src := `solid broken
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endsolid broken
`
		m, err := stl.DecodeASCII([]byte(src))
		if err != nil {
			t.Fatalf("DecodeASCII: %v", err)
		}
		if m.VertexCount() != 3 {
			t.Errorf("VertexCount() = %d, want 3", m.VertexCount())
		}
		if len(m.Normals) != 0 {
			t.Errorf("normals buffer has %d entries, want 0", len(m.Normals))
		}
	})

	t.Run("markers and junk ignored", func(t *testing.T) {
		src := `solid demo
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
this line means nothing
vertex not a number here
endsolid demo
`
		m, err := stl.DecodeASCII([]byte(src))
		if err != nil {
			t.Fatalf("DecodeASCII: %v", err)
		}
		if m.TriangleCount() != 1 {
			t.Errorf("TriangleCount() = %d, want 1", m.TriangleCount())
		}
		if m.Normals[2] != 1 {
			t.Errorf("normal z = %v, want 1", m.Normals[2])
		}
	})
}
