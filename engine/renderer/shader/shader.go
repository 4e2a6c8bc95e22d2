package shader

import (
	"fmt"
	"os"
	"regexp"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader module provides.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

// Stage returns the wgpu stage flag for bind group visibility.
func (t ShaderType) Stage() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// StructField is one member of a WGSL struct with its uniform-buffer offset.
type StructField struct {
	Name   string
	Type   string
	Offset uint64
	Size   uint64
}

// StructLayout is the host-side memory layout of a WGSL struct.
type StructLayout struct {
	Name   string
	Fields []StructField
	Size   uint64
	Align  uint64
}

// Field looks up a member by name.
func (s StructLayout) Field(name string) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	shaderType ShaderType
	rawSource  string
	source     string
	entryPoint string
	includes   []string
	module     *wgpu.ShaderModuleDescriptor

	vertexLayouts []wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor
	bindings      map[int]map[int]Binding
	structs       map[string]StructLayout

	pp PreProcessor
}

// Shader is a pre-processed WGSL module for one pipeline stage together with the layout
// information reflected from its source.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Source retrieves the WGSL after include expansion.
	//
	// Returns:
	//   - string: the expanded WGSL source
	Source() string

	// EntryPoint returns the stage entry point name.
	//
	// Returns:
	//   - string: the entry point name
	EntryPoint() string

	// Includes returns the include names that were expanded into the source.
	//
	// Returns:
	//   - []string: included names in source order
	Includes() []string

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor
	Module() *wgpu.ShaderModuleDescriptor

	// VertexLayouts returns the vertex buffer layouts reflected from the vertex input structs,
	// one per buffer slot. Empty for fragment shaders.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the buffer layouts
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayouts returns the bind group layout descriptors declared by this stage, keyed by group.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: the descriptors
	BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor

	// Binding returns the resource declared at group/binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: false if nothing is declared there
	Binding(group, binding int) (Binding, bool)

	// BindingByName finds a resource declaration by its WGSL variable name.
	//
	// Parameters:
	//   - name: the WGSL variable name
	//
	// Returns:
	//   - Binding: the declaration
	//   - bool: true if found
	BindingByName(name string) (Binding, bool)

	// Struct returns the uniform layout of a struct declared in the source.
	//
	// Parameters:
	//   - name: the WGSL struct name
	//
	// Returns:
	//   - StructLayout: the resolved layout
	//   - bool: false if the struct is missing or contains unsupported members
	Struct(name string) (StructLayout, bool)
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and reflects its layout.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage the source provides
//   - source: the raw WGSL source
//   - options: functional options to configure the shader
//
// Returns:
//   - Shader: the prepared shader
//   - error: error if the source is empty, an include is malformed or unknown, or no entry point exists
func NewShader(key string, shaderType ShaderType, source string, options ...ShaderBuilderOption) (Shader, error) {
	if source == "" {
		return nil, fmt.Errorf("shader %s: source is empty", key)
	}

	s := &shader{
		key:        key,
		shaderType: shaderType,
		rawSource:  source,
		pp:         NewPreProcessor(),
	}
	for _, option := range options {
		option(s)
	}

	if err := s.compile(); err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// LoadShader reads WGSL from path and passes it to NewShader. Read failures are returned, never
// compiled as empty source.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage the source provides
//   - path: the WGSL file path
//   - options: functional options to configure the shader
//
// Returns:
//   - Shader: the prepared shader
//   - error: error if the file cannot be read or the source is rejected
func LoadShader(key string, shaderType ShaderType, path string, options ...ShaderBuilderOption) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to read %s: %w", key, path, err)
	}
	return NewShader(key, shaderType, string(data), options...)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Includes() []string {
	return s.includes
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) BindGroupLayouts() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroups
}

func (s *shader) Binding(group, binding int) (Binding, bool) {
	b, ok := s.bindings[group][binding]
	return b, ok
}

func (s *shader) BindingByName(name string) (Binding, bool) {
	for _, group := range s.bindings {
		for _, b := range group {
			if b.Name == name {
				return b, true
			}
		}
	}
	return Binding{}, false
}

func (s *shader) Struct(name string) (StructLayout, bool) {
	l, ok := s.structs[name]
	return l, ok
}

// compile expands includes, reflects the result and builds the module descriptor.
// An entry point set by option wins over the reflected one but must still exist in the source.
func (s *shader) compile() error {
	source, err := s.pp.Process(s.rawSource)
	if err != nil {
		return err
	}
	s.source = source
	s.includes = s.pp.Includes()

	r, err := reflectSource(source, s.shaderType)
	if err != nil {
		return err
	}
	switch {
	case s.entryPoint == "" && r.entryPoint == "":
		return fmt.Errorf("no @%s entry point found", s.shaderType)
	case s.entryPoint == "":
		s.entryPoint = r.entryPoint
	case !hasFunction(source, s.entryPoint):
		return fmt.Errorf("entry point %q not found", s.entryPoint)
	}

	s.vertexLayouts = r.vertexLayouts
	s.bindGroups = r.bindGroups
	s.bindings = r.bindings
	s.structs = r.structs

	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return nil
}

func hasFunction(source, name string) bool {
	re := regexp.MustCompile(`\bfn\s+` + regexp.QuoteMeta(name) + `\s*\(`)
	return re.MatchString(stripComments(source))
}
