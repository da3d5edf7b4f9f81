// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// SurfaceVertexShader is the vertex shader for the painted surface.
//
//go:embed surface.vert
var SurfaceVertexShader string

// SurfaceFragmentShader shades the surface from its material records and
// applies the live decals.
//
//go:embed surface.frag
var SurfaceFragmentShader string
