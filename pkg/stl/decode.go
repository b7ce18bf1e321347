// Package stl reads and writes the two STL serializations of a
// triangle mesh: the fixed-record binary encoding and the line-oriented
// ASCII encoding.
package stl

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shixin627/watch-cnc/pkg/mesh"
)

const (
	headerSize = 80
	countSize  = 4
	recordSize = 50 // 12B normal + 3x12B vertices + 2B attribute trailer
)

// ParseError reports a truncated or structurally inconsistent byte
// stream. No partial mesh accompanies it.
type ParseError struct {
	Format  string // "binary" or "ascii"
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("stl: %s: %s", e.Format, e.Message)
}

// Decode parses an STL byte stream into a mesh.
//
// The stream is classified as binary iff its total length exactly
// equals 84 + count*50, where count is the little-endian uint32 at
// byte offset 80; any other stream is parsed as ASCII. This is a
// length heuristic, not a magic-number check: an ASCII file whose size
// happens to match the formula is misclassified. Known limitation.
func Decode(data []byte) (*mesh.Mesh, error) {
	if len(data) >= headerSize+countSize {
		count := binary.LittleEndian.Uint32(data[headerSize : headerSize+countSize])
		if int64(len(data)) == int64(headerSize+countSize)+int64(count)*recordSize {
			return DecodeBinary(data)
		}
	}
	return DecodeASCII(data)
}

// DecodeBinary parses the fixed-record binary encoding. The declared
// triangle count must fit in the stream; a short stream is a ParseError.
func DecodeBinary(data []byte) (*mesh.Mesh, error) {
	if len(data) < headerSize+countSize {
		return nil, &ParseError{
			Format:  "binary",
			Message: fmt.Sprintf("stream of %d bytes is shorter than the %d byte header", len(data), headerSize+countSize),
		}
	}
	count := int(binary.LittleEndian.Uint32(data[headerSize : headerSize+countSize]))
	need := int64(headerSize+countSize) + int64(count)*recordSize
	if int64(len(data)) < need {
		return nil, &ParseError{
			Format:  "binary",
			Message: fmt.Sprintf("header declares %d triangles (%d bytes) but stream has %d", count, need, len(data)),
		}
	}

	positions := make([]float32, 0, count*9)
	normals := make([]float32, 0, count*9)

	for i := 0; i < count; i++ {
		rec := data[headerSize+countSize+i*recordSize:]
		var f [12]float32
		for j := range f {
			f[j] = math.Float32frombits(binary.LittleEndian.Uint32(rec[4*j:]))
		}
		// One face normal, replicated for each of the three vertices.
		for v := 0; v < 3; v++ {
			positions = append(positions, f[3+3*v], f[4+3*v], f[5+3*v])
			normals = append(normals, f[0], f[1], f[2])
		}
	}

	return mesh.New(positions, normals), nil
}

// DecodeASCII parses the textual encoding. The scan is permissive by
// design: lines that are not `facet normal ...` or `vertex ...` are
// ignored, loop/endfacet pairing is never checked, and a vertex line
// with no preceding facet normal appends a position but no normal, so
// the normals buffer can end up shorter than the positions buffer.
func DecodeASCII(data []byte) (*mesh.Mesh, error) {
	var positions, normals []float32

	var normal [3]float32
	haveNormal := false

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) >= 5 && fields[0] == "facet" && fields[1] == "normal":
			n, ok := parseFloats3(fields[2:5])
			if !ok {
				continue
			}
			normal = n
			haveNormal = true

		case len(fields) >= 4 && fields[0] == "vertex":
			v, ok := parseFloats3(fields[1:4])
			if !ok {
				continue
			}
			positions = append(positions, v[0], v[1], v[2])
			if haveNormal {
				normals = append(normals, normal[0], normal[1], normal[2])
			}
		}
	}

	return mesh.New(positions, normals), nil
}

func parseFloats3(s []string) ([3]float32, bool) {
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(s[i], 32)
		if err != nil {
			return out, false
		}
		out[i] = float32(f)
	}
	return out, true
}
