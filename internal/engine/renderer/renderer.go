// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/engine/decal"
	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/internal/engine/renderer/shaders"
	"github.com/Faultbox/surface-decals/internal/engine/shader"
	"github.com/Faultbox/surface-decals/internal/logger"
	"github.com/Faultbox/surface-decals/pkg/formats"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// MaxDecals is the number of decals the surface shader can apply at once.
const MaxDecals = 32

// Shade selects how the surface is colored.
type Shade int32

const (
	ShadeLit Shade = iota
	ShadeWeights
	ShadeMaterials
)

// Attribute locations shared with surface.vert.
const (
	attribPosition = 0
	attribNormal   = 1
	attribWeight   = 2
	attribSelect   = 3
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Frame is everything needed to draw one frame of the surface.
type Frame struct {
	View       math.Mat4
	Projection math.Mat4

	Shade     Shade
	Layer     int
	Wireframe bool
	LightDir  math.Vec3

	// Brush sphere; a zero radius hides it
	BrushCenter math.Vec3
	BrushRadius float32

	Decals       []decal.Decal
	MaxIntensity float32
}

// Renderer draws the painted surface.
type Renderer struct {
	config Config
	log    *zap.Logger

	program *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
	indexType  uint32

	materials *GLBuffer

	// Scratch uniform arrays, reused each frame
	projectors  []math.Mat4
	orients     []math.Mat4
	intensities []float32
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config:    cfg,
		log:       logger.Named("renderer"),
		materials: NewGLBuffer(),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0) // Dark blue-gray background
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.NewProgram(shaders.SurfaceVertexShader, shaders.SurfaceFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create surface program: %w", err)
	}
	r.log.Debug("shader program created", zap.Uint32("program", r.program.ID))

	return r, nil
}

// MaterialBuffer returns the GPU buffer that mirrors the material records.
// Hand it to the surface store before UploadMesh.
func (r *Renderer) MaterialBuffer() *GLBuffer {
	return r.materials
}

// UploadMesh creates the vertex and index buffers for m and binds the
// material buffer as a second vertex stream. The material buffer must
// already be created.
func (r *Renderer) UploadMesh(m *mesh.Mesh) error {
	if !m.HasPositions() || m.TriangleCount() == 0 {
		return fmt.Errorf("mesh has no drawable triangles")
	}
	if r.materials.ID() == 0 {
		return fmt.Errorf("material buffer not created")
	}
	r.releaseMesh()

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	stride := int32(m.ComponentCount * 4)
	gl.VertexAttribPointer(attribPosition, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(attribPosition)

	if n, ok := m.Streams[mesh.StreamNormal]; ok {
		gl.VertexAttribPointerWithOffset(attribNormal, int32(n.Components), gl.FLOAT, false, stride, uintptr(n.Offset*4))
		gl.EnableVertexAttribArray(attribNormal)
	} else {
		gl.VertexAttrib3f(attribNormal, 0, 1, 0)
	}

	// Material records: float32 weight then four uint8 layer ids
	gl.BindBuffer(gl.ARRAY_BUFFER, r.materials.ID())
	gl.VertexAttribPointer(attribWeight, 1, gl.FLOAT, false, formats.MaterialVertexSize, nil)
	gl.EnableVertexAttribArray(attribWeight)
	gl.VertexAttribIPointerWithOffset(attribSelect, 4, gl.UNSIGNED_BYTE, formats.MaterialVertexSize, 4)
	gl.EnableVertexAttribArray(attribSelect)

	gl.GenBuffers(1, &r.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.ebo)
	if m.IndexFormat == mesh.Index16 {
		idx := make([]uint16, len(m.Indices))
		for i, v := range m.Indices {
			idx[i] = uint16(v)
		}
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(idx)*2, unsafe.Pointer(&idx[0]), gl.STATIC_DRAW)
		r.indexType = gl.UNSIGNED_SHORT
	} else {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)
		r.indexType = gl.UNSIGNED_INT
	}
	r.indexCount = int32(len(m.Indices))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("mesh uploaded",
		zap.Uint32("vao", r.vao),
		zap.Int("vertices", m.VertexCount()),
		zap.Int32("indices", r.indexCount),
		zap.Stringer("indexFormat", m.IndexFormat),
	)
	return nil
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// Clear clears the color and depth buffers for a new frame.
func (r *Renderer) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels reads the back buffer as RGBA rows, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// DrawSurface draws the uploaded mesh for f.
func (r *Renderer) DrawSurface(f Frame) {
	if r.vao == 0 {
		return
	}

	p := r.program
	p.Use()
	p.SetMat4("uView", f.View)
	p.SetMat4("uProjection", f.Projection)
	p.SetInt("uShadeMode", int32(f.Shade))
	p.SetInt("uLayer", int32(f.Layer))
	p.SetVec3("uLightDir", f.LightDir)
	p.SetVec4("uBrush", math.Homogeneous(f.BrushCenter, f.BrushRadius))
	p.SetInt("uWireframe", 0)
	r.setDecals(f)

	gl.BindVertexArray(r.vao)
	gl.DrawElements(gl.TRIANGLES, r.indexCount, r.indexType, nil)

	if f.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		gl.Enable(gl.POLYGON_OFFSET_LINE)
		gl.PolygonOffset(-1, -1)
		p.SetInt("uWireframe", 1)
		gl.DrawElements(gl.TRIANGLES, r.indexCount, r.indexType, nil)
		gl.Disable(gl.POLYGON_OFFSET_LINE)
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.BindVertexArray(0)
}

func (r *Renderer) setDecals(f Frame) {
	r.projectors = r.projectors[:0]
	r.orients = r.orients[:0]
	r.intensities = r.intensities[:0]

	for _, d := range f.Decals {
		if len(r.projectors) == MaxDecals {
			break
		}
		r.projectors = append(r.projectors, d.Projector)
		r.orients = append(r.orients, d.Orientation)
		r.intensities = append(r.intensities, d.Intensity)
	}

	maxIntensity := f.MaxIntensity
	if maxIntensity <= 0 {
		maxIntensity = decal.DefaultIntensity
	}

	p := r.program
	p.SetInt("uDecalCount", int32(len(r.projectors)))
	p.SetFloat("uDecalMaxIntensity", maxIntensity)
	p.SetMat4Array("uDecalProjector", r.projectors)
	p.SetMat4Array("uDecalOrient", r.orients)
	p.SetFloatArray("uDecalIntensity", r.intensities)
}

func (r *Renderer) releaseMesh() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	if r.ebo != 0 {
		gl.DeleteBuffers(1, &r.ebo)
		r.ebo = 0
	}
	r.indexCount = 0
}

// Close cleans up renderer resources. The material buffer belongs to the
// surface store and is released there.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.releaseMesh()
	if r.program != nil {
		r.program.Delete()
	}
}
