package editor

import (
	"go.uber.org/zap"

	"github.com/Faultbox/surface-decals/internal/config"
	"github.com/Faultbox/surface-decals/internal/engine/picking"
	"github.com/Faultbox/surface-decals/internal/engine/surface"
	"github.com/Faultbox/surface-decals/internal/logger"
	"github.com/Faultbox/surface-decals/pkg/math"
)

// Picker finds the surface under a window position.
type Picker interface {
	Pick(x, y int) (picking.Hit, bool)
	Eye() math.Vec3
}

// Editor routes input gestures to the material store.
type Editor struct {
	Brush BrushState

	store       *surface.Store
	picker      Picker
	weightsPath string
	log         *zap.Logger
}

// New creates an editor painting into store.
func New(store *surface.Store, picker Picker, cfg *config.Config) *Editor {
	return &Editor{
		Brush:       NewBrushState(cfg.Editor),
		store:       store,
		picker:      picker,
		weightsPath: cfg.Scene.WeightsPath,
		log:         logger.Named("editor"),
	}
}

// HandleKey applies a key press. It reports whether the editor consumed it.
func (e *Editor) HandleKey(k Key) bool {
	consumed := e.Brush.ApplyKey(k)
	if k == KeyToggleEditor {
		e.log.Info("editor toggled", zap.Bool("enabled", e.Brush.Enabled))
		return true
	}
	if !consumed {
		return false
	}

	switch k {
	case KeyToggleMode:
		e.log.Debug("brush mode", zap.Stringer("mode", e.Brush.Mode))
	case KeySave:
		if err := e.store.Save(e.weightsPath); err != nil {
			e.log.Error("save failed", zap.String("path", e.weightsPath), zap.Error(err))
		}
	case KeyLoad:
		if err := e.store.Load(e.weightsPath); err != nil {
			e.log.Error("load failed", zap.String("path", e.weightsPath), zap.Error(err))
		}
	}
	return true
}

// HandleWheel resizes the brush.
func (e *Editor) HandleWheel(delta float32) bool {
	return e.Brush.ApplyWheel(delta)
}

// HandleButton applies a mouse button transition at (x, y).
func (e *Editor) HandleButton(x, y int, btn Button, pressed bool) bool {
	if !e.Brush.ApplyButton(btn, pressed) {
		return false
	}
	if e.Brush.Mode == ModeMaterial && e.Brush.LeftDown {
		e.paintAt(x, y)
	}
	return true
}

// HandleMotion moves the brush to the surface under (x, y), painting the
// material while dragging.
func (e *Editor) HandleMotion(x, y int) bool {
	if !e.Brush.Enabled {
		return false
	}
	if hit, ok := e.picker.Pick(x, y); ok {
		e.Brush.Center = e.Brush.SpherePosition(hit.Point, e.picker.Eye())
	}
	if e.Brush.Mode == ModeMaterial && e.Brush.LeftDown {
		e.paintAt(x, y)
	}
	return true
}

// Update paints weights for one frame while a button is held. The left
// button adds weight and the right button removes it.
func (e *Editor) Update(dt float32) {
	if !e.Brush.Painting() {
		return
	}
	e.PaintWeights(e.Brush.Center, e.Brush.Radius, e.Brush.LeftDown, dt)
}

// PaintWeights changes the weight of every vertex inside the sphere by the
// brush rate times dt, clamped to [0, 1].
func (e *Editor) PaintWeights(center math.Vec3, radius float32, add bool, dt float32) int {
	delta := e.Brush.WeightRate * dt
	if !add {
		delta = -delta
	}
	return e.store.AdjustWeights(e.store.SelectInSphere(center, radius), delta)
}

// PaintSurface sets the active layer of triangle tri to the active material.
func (e *Editor) PaintSurface(tri int) bool {
	r, ok := e.store.ReadByTriangle(tri)
	if !ok {
		return false
	}
	r.Select[e.Brush.Layer] = uint8(e.Brush.Material)
	e.store.UpdateTriangle(tri, r)
	return true
}

func (e *Editor) paintAt(x, y int) {
	if hit, ok := e.picker.Pick(x, y); ok {
		e.PaintSurface(hit.Triangle)
	}
}
