package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrInvalidOBJFace  = errors.New("invalid OBJ face")
	ErrInvalidOBJValue = errors.New("invalid OBJ value")
)

// OBJFaceVertex references one corner of a face. Indices are 0-based;
// -1 marks an absent texture coordinate or normal.
type OBJFaceVertex struct {
	Position int
	TexCoord int
	Normal   int
}

// OBJFace is a polygon with three or more corners.
type OBJFace struct {
	Vertices []OBJFaceVertex
	Material int // index into OBJ.Materials, -1 when no usemtl preceded it
}

// OBJ holds a parsed Wavefront OBJ file. Only geometry is kept.
type OBJ struct {
	Positions [][3]float32
	TexCoords [][2]float32
	Normals   [][3]float32
	Faces     []OBJFace
	Materials []string
}

// TriangleCount returns the number of triangles after fan triangulation.
func (o *OBJ) TriangleCount() int {
	n := 0
	for _, f := range o.Faces {
		n += len(f.Vertices) - 2
	}
	return n
}

// ParseOBJ parses a Wavefront OBJ stream.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	obj := &OBJ{}
	material := -1
	materialIndex := make(map[string]int)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		ident, args := fields[0], fields[1:]

		switch ident {
		case "v", "vn":
			v, err := parseFloats3(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if ident == "v" {
				obj.Positions = append(obj.Positions, v)
			} else {
				obj.Normals = append(obj.Normals, v)
			}

		case "vt":
			if len(args) < 2 {
				return nil, fmt.Errorf("line %d: %w: vt needs 2 components", lineNo, ErrInvalidOBJValue)
			}
			s, err1 := strconv.ParseFloat(args[0], 32)
			t, err2 := strconv.ParseFloat(args[1], 32)
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: %w: %q", lineNo, ErrInvalidOBJValue, line)
			}
			obj.TexCoords = append(obj.TexCoords, [2]float32{float32(s), float32(t)})

		case "usemtl":
			name := strings.Join(args, " ")
			idx, ok := materialIndex[name]
			if !ok {
				idx = len(obj.Materials)
				materialIndex[name] = idx
				obj.Materials = append(obj.Materials, name)
			}
			material = idx

		case "f":
			face, err := obj.parseFace(args)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			face.Material = material
			obj.Faces = append(obj.Faces, face)

		default:
			// o, g, s, mtllib and friends carry no geometry
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}
	return obj, nil
}

// ParseOBJFile parses an OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f)
}

func (o *OBJ) parseFace(args []string) (OBJFace, error) {
	if len(args) < 3 {
		return OBJFace{}, fmt.Errorf("%w: %d corners", ErrInvalidOBJFace, len(args))
	}

	face := OBJFace{Vertices: make([]OBJFaceVertex, 0, len(args))}
	for _, arg := range args {
		parts := strings.Split(arg, "/")

		pos, err := resolveOBJIndex(parts[0], len(o.Positions))
		if err != nil || pos < 0 {
			return OBJFace{}, fmt.Errorf("%w: position %q", ErrInvalidOBJFace, arg)
		}

		fv := OBJFaceVertex{Position: pos, TexCoord: -1, Normal: -1}
		if len(parts) > 1 && parts[1] != "" {
			if fv.TexCoord, err = resolveOBJIndex(parts[1], len(o.TexCoords)); err != nil {
				return OBJFace{}, fmt.Errorf("%w: texcoord %q", ErrInvalidOBJFace, arg)
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if fv.Normal, err = resolveOBJIndex(parts[2], len(o.Normals)); err != nil {
				return OBJFace{}, fmt.Errorf("%w: normal %q", ErrInvalidOBJFace, arg)
			}
		}
		face.Vertices = append(face.Vertices, fv)
	}
	return face, nil
}

// resolveOBJIndex converts a 1-based (or negative, relative) OBJ index to 0-based.
func resolveOBJIndex(s string, count int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1, err
	}
	switch {
	case n > 0 && n <= count:
		return n - 1, nil
	case n < 0 && -n <= count:
		return count + n, nil
	default:
		return -1, fmt.Errorf("index %d out of range (%d)", n, count)
	}
}

func parseFloats3(args []string) ([3]float32, error) {
	var v [3]float32
	if len(args) < 3 {
		return v, fmt.Errorf("%w: need 3 components, got %d", ErrInvalidOBJValue, len(args))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return v, fmt.Errorf("%w: %q", ErrInvalidOBJValue, args[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}
