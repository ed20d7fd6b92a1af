// Package shaders embeds the WGSL compute sources used by the GPU mesher.
package shaders

import (
	_ "embed"
)

//go:embed compute.wgsl
var ComputeWGSL string
