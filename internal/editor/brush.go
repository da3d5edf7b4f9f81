// Package editor implements the in-scene material painting tools.
package editor

import (
	"fmt"

	"github.com/Faultbox/surface-decals/internal/config"
	"github.com/Faultbox/surface-decals/pkg/math"
)

const (
	// LayerCount is the number of material layers per vertex.
	LayerCount = 4
	// MaterialCount is the number of selectable material ids.
	MaterialCount = 256
)

// Mode selects what the brush paints.
type Mode int

const (
	ModeWeights  Mode = iota // blend weights inside the brush sphere
	ModeMaterial             // material id of the picked triangle
)

func (m Mode) String() string {
	if m == ModeMaterial {
		return "material"
	}
	return "weights"
}

// RenderMode selects the surface shading.
type RenderMode int

const (
	RenderNormal RenderMode = iota
	RenderWeights
	RenderMaterials
)

// Key is an editor command bound to a physical key by the host.
type Key int

const (
	KeyNone Key = iota
	KeyToggleEditor
	KeyToggleMode
	KeySave
	KeyLoad
	KeyDebugOn
	KeyDebugOff
	KeyToggleWireframe
	KeyUp    // weight rate up, or next layer
	KeyDown  // weight rate down, or previous layer
	KeyLeft  // previous material
	KeyRight // next material
)

// Button is a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// BrushState is the editor state toggled by user input. It is never persisted.
type BrushState struct {
	Enabled   bool
	Mode      Mode
	Debug     bool
	Wireframe bool

	Center math.Vec3
	Radius float32

	Layer    int
	Material int

	WeightRate float32

	LeftDown  bool
	RightDown bool

	cfg config.EditorConfig
}

// NewBrushState returns the initial brush for cfg.
func NewBrushState(cfg config.EditorConfig) BrushState {
	return BrushState{
		Mode:       ModeWeights,
		Wireframe:  true,
		Radius:     cfg.BrushRadius,
		WeightRate: cfg.WeightRate,
		cfg:        cfg,
	}
}

// ApplyKey updates the state for a key press and reports whether the key
// was consumed. Save and load are left to the caller.
func (b *BrushState) ApplyKey(k Key) bool {
	if k == KeyToggleEditor {
		b.Enabled = !b.Enabled
	}
	if !b.Enabled {
		b.LeftDown, b.RightDown = false, false
		return false
	}

	switch k {
	case KeyToggleMode:
		if b.Mode == ModeWeights {
			b.Mode = ModeMaterial
		} else {
			b.Mode = ModeWeights
		}
	case KeyDebugOn:
		b.Debug = true
	case KeyDebugOff:
		b.Debug = false
	case KeyToggleWireframe:
		b.Wireframe = !b.Wireframe
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		b.adjust(k)
	}
	return true
}

func (b *BrushState) adjust(k Key) {
	if b.Mode == ModeWeights {
		switch k {
		case KeyUp:
			b.WeightRate += b.cfg.WeightRateStep
		case KeyDown:
			b.WeightRate -= b.cfg.WeightRateStep
		}
		b.WeightRate = math.Clamp(b.WeightRate, 0, b.cfg.MaxWeightRate)
		return
	}

	switch k {
	case KeyUp:
		b.Layer++
	case KeyDown:
		b.Layer--
	case KeyLeft:
		b.Material--
	case KeyRight:
		b.Material++
	}
	b.Layer = wrap(b.Layer, LayerCount)
	b.Material = wrap(b.Material, MaterialCount)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// ApplyWheel grows or shrinks the brush radius.
func (b *BrushState) ApplyWheel(delta float32) bool {
	if !b.Enabled {
		return false
	}
	b.Radius = math.Clamp(b.Radius+delta, 0, b.cfg.MaxBrushRadius)
	return true
}

// ApplyButton records a mouse button transition.
func (b *BrushState) ApplyButton(btn Button, pressed bool) bool {
	if !b.Enabled {
		return false
	}
	switch btn {
	case ButtonLeft:
		b.LeftDown = pressed
	case ButtonRight:
		b.RightDown = pressed
	}
	return true
}

// SpherePosition returns the brush center for a surface point seen from
// eye. The sphere is pulled toward the viewer by a fraction of its radius.
func (b *BrushState) SpherePosition(target, eye math.Vec3) math.Vec3 {
	return target.Sub(target.Sub(eye).Normalize().Scale(b.Radius * b.cfg.SphereOffset))
}

// Painting reports whether weights are being painted this frame.
func (b *BrushState) Painting() bool {
	return b.Enabled && b.Mode == ModeWeights && (b.LeftDown || b.RightDown)
}

// RenderMode returns the shading the surface should use.
func (b *BrushState) RenderMode() RenderMode {
	switch {
	case !b.Enabled || !b.Debug:
		return RenderNormal
	case b.Mode == ModeWeights:
		return RenderWeights
	default:
		return RenderMaterials
	}
}

// StatusLines returns the overlay text. Material and layer numbers are
// shown 1-based.
func (b *BrushState) StatusLines() []string {
	if !b.Enabled {
		return nil
	}
	if b.Mode == ModeWeights {
		return []string{
			"Blend Weights Edit Mode",
			fmt.Sprintf("Weight Adjustment %.2f", b.WeightRate),
		}
	}
	return []string{
		"Material Edit Mode",
		fmt.Sprintf("Material %d", b.Material+1),
		fmt.Sprintf("Layer %d", b.Layer+1),
	}
}
