// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BlobVertexShader deforms the sphere with layered simplex noise.
//
//go:embed blob.vert
var BlobVertexShader string

// BlobFragmentShader shades the blob from its material and the environment map.
//
//go:embed blob.frag
var BlobFragmentShader string

// LabelVertexShader bends a label quad while a transition is in progress.
//
//go:embed label.vert
var LabelVertexShader string

// LabelFragmentShader draws a label's alpha mask in white.
//
//go:embed label.frag
var LabelFragmentShader string

// OverlayVertexShader places screen-space rectangles for the loading overlay.
//
//go:embed overlay.vert
var OverlayVertexShader string

// OverlayFragmentShader fills overlay rectangles, optionally through a text mask.
//
//go:embed overlay.frag
var OverlayFragmentShader string
