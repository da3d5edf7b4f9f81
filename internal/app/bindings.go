package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/surface-decals/internal/editor"
	"github.com/Faultbox/surface-decals/internal/engine/renderer"
)

var editorKeys = map[sdl.Scancode]editor.Key{
	sdl.SCANCODE_E:    editor.KeyToggleEditor,
	sdl.SCANCODE_M:    editor.KeyToggleMode,
	sdl.SCANCODE_S:    editor.KeySave,
	sdl.SCANCODE_L:    editor.KeyLoad,
	sdl.SCANCODE_1:    editor.KeyDebugOn,
	sdl.SCANCODE_2:    editor.KeyDebugOff,
	sdl.SCANCODE_3:    editor.KeyToggleWireframe,
	sdl.SCANCODE_KP_8: editor.KeyUp,
	sdl.SCANCODE_KP_2: editor.KeyDown,
	sdl.SCANCODE_KP_4: editor.KeyLeft,
	sdl.SCANCODE_KP_6: editor.KeyRight,
}

func editorButton(b uint8) editor.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return editor.ButtonLeft
	case sdl.BUTTON_RIGHT:
		return editor.ButtonRight
	}
	return editor.ButtonNone
}

func shadeFor(m editor.RenderMode) renderer.Shade {
	switch m {
	case editor.RenderWeights:
		return renderer.ShadeWeights
	case editor.RenderMaterials:
		return renderer.ShadeMaterials
	}
	return renderer.ShadeLit
}
