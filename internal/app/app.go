// Package app runs the interactive painting and decal demo.
package app

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/config"
	"github.com/Faultbox/surface-decals/internal/editor"
	"github.com/Faultbox/surface-decals/internal/engine/camera"
	"github.com/Faultbox/surface-decals/internal/engine/debug"
	"github.com/Faultbox/surface-decals/internal/engine/decal"
	"github.com/Faultbox/surface-decals/internal/engine/input"
	"github.com/Faultbox/surface-decals/internal/engine/lighting"
	"github.com/Faultbox/surface-decals/internal/engine/mesh"
	"github.com/Faultbox/surface-decals/internal/engine/picking"
	"github.com/Faultbox/surface-decals/internal/engine/renderer"
	"github.com/Faultbox/surface-decals/internal/engine/surface"
	"github.com/Faultbox/surface-decals/internal/engine/window"
	"github.com/Faultbox/surface-decals/internal/logger"
	"github.com/Faultbox/surface-decals/pkg/math"
)

const title = "Surface Decals"

// maxLiveDecals caps the decal list at what the surface shader can draw.
const maxLiveDecals = renderer.MaxDecals

// App is the demo instance.
type App struct {
	cfg     *config.Config
	running bool
	log     *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	camera *camera.FlyCamera
	mesh   *mesh.Mesh
	store  *surface.Store
	editor *editor.Editor
	placer *decal.Placer
	decals *decal.List

	sun        lighting.Sun
	screenshot *debug.ScreenshotCapture
	capture    bool

	mouseX, mouseY int
}

// New creates the window, loads the mesh and its material records.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    logger.Named("app"),
		camera: camera.NewFlyCamera(),
		decals: decal.NewList(maxLiveDecals),
	}
	a.sun = lighting.Sun{Longitude: cfg.Graphics.SunLongitude, Latitude: cfg.Graphics.SunLatitude}
	a.screenshot = debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "decals", cfg.Graphics.ScreenshotFmt)

	a.log.Info("initializing",
		zap.String("mesh", cfg.Scene.MeshPath),
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	a.mesh, err = mesh.LoadOBJ(cfg.Scene.MeshPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh: %w", err)
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	fbWidth, fbHeight := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:  fbWidth,
		Height: fbHeight,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.store = surface.NewStore(a.mesh, a.renderer.MaterialBuffer())
	if !a.store.Allocate() {
		a.log.Warn("material painting limited to vertex brushes")
	}
	a.loadWeights()

	if err := a.renderer.UploadMesh(a.mesh); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to upload mesh: %w", err)
	}

	a.editor = editor.New(a.store, a, cfg)
	a.placer = newPlacer(cfg.Decals)
	a.input = input.New()

	a.log.Info("initialized")
	return a, nil
}

func newPlacer(cfg config.DecalConfig) *decal.Placer {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := decal.NewPlacer(rand.New(rand.NewSource(seed)))
	p.MinRadius = cfg.MinRadius
	p.MaxRadius = cfg.MaxRadius
	p.Intensity = cfg.Intensity
	return p
}

// loadWeights restores saved material records when the file exists.
func (a *App) loadWeights() {
	path := a.cfg.Scene.WeightsPath
	if path == "" {
		return
	}
	err := a.store.Load(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		a.log.Info("no saved material records", zap.String("path", path))
	default:
		a.log.Warn("ignoring saved material records", zap.String("path", path), zap.Error(err))
	}
}

// Run starts the main loop.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handleEvent(event)
		}

		a.update(dt)
		a.render()
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Int("decals", a.decals.Len()))
			a.window.SetTitle(a.statusTitle(frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.renderer.Resize(a.window.DrawableSize())

	case input.EventKeyDown:
		if event.Repeat {
			return
		}
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			a.running = false
			return
		case sdl.SCANCODE_R:
			a.camera.Reset()
			return
		case sdl.SCANCODE_F12:
			a.capture = true
			return
		}
		if k, ok := editorKeys[event.Key]; ok {
			a.editor.HandleKey(k)
		}

	case input.EventMouseMove:
		a.mouseX, a.mouseY = event.MouseX, event.MouseY
		if a.input.IsButtonHeld(sdl.BUTTON_MIDDLE) {
			a.camera.HandleLook(float32(event.RelX), float32(event.RelY))
		}
		a.editor.HandleMotion(event.MouseX, event.MouseY)

	case input.EventMouseDown, input.EventMouseUp:
		pressed := event.Type == input.EventMouseDown
		btn := editorButton(event.Button)
		if a.editor.HandleButton(event.MouseX, event.MouseY, btn, pressed) {
			return
		}
		if pressed && btn == editor.ButtonLeft {
			a.placeDecal()
		}

	case input.EventMouseWheel:
		a.editor.HandleWheel(float32(event.Wheel))
	}
}

// placeDecal casts along the view direction and stamps a decal at the hit.
func (a *App) placeDecal() {
	fwd := a.camera.Forward()
	eye := a.camera.Position
	hit, ok := picking.IntersectMesh(a.mesh, eye, eye.Add(fwd.Scale(a.cfg.Decals.RayLength)))
	if !ok {
		return
	}
	d := a.placer.Place(fwd, hit.Point, hit.Normal)
	a.decals.Add(d)
	a.log.Debug("decal placed",
		zap.String("id", d.ID),
		zap.Int("triangle", hit.Triangle),
		zap.Float32("radius", d.Radius),
	)
}

func (a *App) update(dt float32) {
	a.moveCamera(dt)
	a.editor.Update(dt)
	if removed := a.decals.Age(dt); removed > 0 {
		a.log.Debug("decals expired", zap.Int("count", removed), zap.Int("live", a.decals.Len()))
	}
}

// moveCamera flies the camera, stopping just off any surface in the way.
func (a *App) moveCamera(dt float32) {
	step := a.camera.Step(
		a.input.Axis(sdl.SCANCODE_DOWN, sdl.SCANCODE_UP),
		a.input.Axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT),
		a.input.Axis(sdl.SCANCODE_PAGEDOWN, sdl.SCANCODE_PAGEUP),
		dt,
	)
	if step.LengthSq() == 0 {
		return
	}
	from := a.camera.Position
	to := from.Add(step)
	if hit, ok := picking.IntersectMesh(a.mesh, from, to); ok {
		to = hit.Point.Add(hit.Normal)
	}
	a.camera.Position = to
}

func (a *App) render() {
	b := &a.editor.Brush

	f := renderer.Frame{
		View:         a.camera.ViewMatrix(),
		Projection:   a.camera.ProjectionMatrix(a.renderer.Aspect()),
		Shade:        shadeFor(b.RenderMode()),
		Layer:        b.Layer,
		Wireframe:    b.Enabled && b.Wireframe,
		LightDir:     a.sun.LightDir(),
		Decals:       a.decals.Decals(),
		MaxIntensity: a.cfg.Decals.Intensity,
	}
	if b.Enabled {
		f.BrushCenter = b.Center
		f.BrushRadius = b.Radius
	}

	a.renderer.Clear()
	a.renderer.DrawSurface(f)

	if a.capture {
		a.capture = false
		a.saveScreenshot()
	}
}

func (a *App) saveScreenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	name, err := a.screenshot.Save(pixels, w, h)
	if err != nil {
		a.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", name))
}

func (a *App) statusTitle(fps int) string {
	parts := []string{title, fmt.Sprintf("%d fps", fps)}
	parts = append(parts, a.editor.Brush.StatusLines()...)
	return strings.Join(parts, " | ")
}

// Pick implements editor.Picker: it casts from the eye through the window
// position to the far plane.
func (a *App) Pick(x, y int) (picking.Hit, bool) {
	w, h := a.window.GetSize()
	if w <= 0 || h <= 0 {
		return picking.Hit{}, false
	}
	viewProj := a.camera.ProjectionMatrix(a.renderer.Aspect()).Mul(a.camera.ViewMatrix())
	seg := picking.ScreenToSegment(float32(x), float32(y), float32(w), float32(h), viewProj.Inverse())
	return picking.IntersectMesh(a.mesh, a.camera.Position, seg.End)
}

// Eye implements editor.Picker.
func (a *App) Eye() math.Vec3 {
	return a.camera.Position
}

// Close releases every resource.
func (a *App) Close() {
	a.log.Info("closing")

	if a.store != nil {
		a.store.Release()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
