package shaders

import (
	_ "embed"
)

//go:embed particles_update.wgsl
var ParticlesUpdateWGSL string

//go:embed particles_point.wgsl
var ParticlesPointWGSL string
