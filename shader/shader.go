// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader loads WGSL shader files and compiles them into program
// descriptors.
//
// Every program is a vertex file and a fragment file. Files are read whole
// from an fs.FS, compiled to SPIR-V with naga, and checked for the entry
// points the devices call. A missing or empty file, a compile error or a
// missing entry point is fatal for the program.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/naga"
)

//go:embed shaders/*.wgsl
var embedded embed.FS

// Default returns the built-in shader files.
func Default() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

// Entry points every program must define.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// Files names the two shader files of a program.
type Files struct {
	Vertex   string
	Fragment string
}

// Shader files of the two programs.
var (
	SolidFiles    = Files{Vertex: "solid.vert.wgsl", Fragment: "solid.frag.wgsl"}
	TexturedFiles = Files{Vertex: "textured.vert.wgsl", Fragment: "textured.frag.wgsl"}
)

// FilesFor returns the shader files of a program kind.
func FilesFor(kind gpu.ProgramKind) Files {
	if kind == gpu.ProgramTextured {
		return TexturedFiles
	}
	return SolidFiles
}

// ErrEmptySource is returned for shader files with no content.
var ErrEmptySource = errors.New("shader: empty source")

// CompileError reports a shader file that could not be read or compiled.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader: compile %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// LinkError reports a vertex and fragment pair that cannot form a program.
type LinkError struct {
	Program string
	Reason  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader: link %s: %s", e.Program, e.Reason)
}

// Compiler turns WGSL into SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

// Loader reads and compiles shader files.
type Loader struct {
	FS      fs.FS
	Compile Compiler
}

// NewLoader returns a loader reading from fsys, or the built-in shaders
// when fsys is nil, and compiling with naga.
func NewLoader(fsys fs.FS) *Loader {
	if fsys == nil {
		fsys = Default()
	}
	return &Loader{FS: fsys, Compile: naga.Compile}
}

var entryPoint = map[string]*regexp.Regexp{
	"vertex":   regexp.MustCompile(`@vertex\s+fn\s+` + VertexEntryPoint + `\s*\(`),
	"fragment": regexp.MustCompile(`@fragment\s+fn\s+` + FragmentEntryPoint + `\s*\(`),
}

// Stage reads and compiles one shader file.
func (l *Loader) Stage(name string) (gpu.ShaderStage, error) {
	src, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return gpu.ShaderStage{}, &CompileError{Name: name, Err: err}
	}
	if len(src) == 0 {
		return gpu.ShaderStage{}, &CompileError{Name: name, Err: ErrEmptySource}
	}
	spirv, err := l.Compile(string(src))
	if err != nil {
		return gpu.ShaderStage{}, &CompileError{Name: name, Err: err}
	}
	return gpu.ShaderStage{Name: name, Source: string(src), SPIRV: Words(spirv)}, nil
}

// Program loads both stages of a program and links them.
func (l *Loader) Program(label string, kind gpu.ProgramKind) (gpu.ProgramDescriptor, error) {
	files := FilesFor(kind)
	vert, err := l.Stage(files.Vertex)
	if err != nil {
		return gpu.ProgramDescriptor{}, err
	}
	frag, err := l.Stage(files.Fragment)
	if err != nil {
		return gpu.ProgramDescriptor{}, err
	}
	if !entryPoint["vertex"].MatchString(vert.Source) {
		return gpu.ProgramDescriptor{}, &LinkError{Program: label, Reason: files.Vertex + " has no @vertex fn " + VertexEntryPoint}
	}
	if !entryPoint["fragment"].MatchString(frag.Source) {
		return gpu.ProgramDescriptor{}, &LinkError{Program: label, Reason: files.Fragment + " has no @fragment fn " + FragmentEntryPoint}
	}
	vert.EntryPoint = VertexEntryPoint
	frag.EntryPoint = FragmentEntryPoint
	return gpu.ProgramDescriptor{Label: label, Kind: kind, Vertex: vert, Fragment: frag}, nil
}

// Words converts little-endian SPIR-V bytes to 32-bit words.
func Words(spirv []byte) []uint32 {
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = uint32(spirv[i*4]) |
			uint32(spirv[i*4+1])<<8 |
			uint32(spirv[i*4+2])<<16 |
			uint32(spirv[i*4+3])<<24
	}
	return words
}
