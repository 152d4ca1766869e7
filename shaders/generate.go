// Package shaders holds the GLSL sources of the default pipeline. The SPIR-V
// binaries are produced with glslangValidator and loaded at runtime.
package shaders

//go:generate glslangValidator -V shader.vert -o vert.spv
//go:generate glslangValidator -V shader.frag -o frag.spv
