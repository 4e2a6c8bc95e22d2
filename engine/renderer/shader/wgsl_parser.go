package shader

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormat is a wgpu vertex format together with its byte size.
type vertexFormat struct {
	format wgpu.VertexFormat
	size   uint64
}

// vertexFormats maps WGSL vertex attribute types to wgpu vertex formats.
var vertexFormats = map[string]vertexFormat{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

// sampledTextureDimensions maps sampled texture base types to their view dimension.
var sampledTextureDimensions = map[string]wgpu.TextureViewDimension{
	"texture_2d":       wgpu.TextureViewDimension2D,
	"texture_2d_array": wgpu.TextureViewDimension2DArray,
	"texture_cube":     wgpu.TextureViewDimensionCube,
	"texture_3d":       wgpu.TextureViewDimension3D,
	"texture_depth_2d": wgpu.TextureViewDimension2D,
}

var sampleTypes = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// structRegex captures a struct name and its body
	structRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// fieldRegex captures the name and type of one struct member after any attributes
	fieldRegex = regexp.MustCompile(`^(?:@\w+(?:\([^)]*\))?\s*)*(\w+)\s*:\s*(.+)$`)

	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(\w+\)`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindingRegex captures group, binding, optional address space, name and type, e.g.
	// @group(0) @binding(0) var<uniform> camera: CameraUniform;
	// @group(1) @binding(0) var diffuse: texture_2d<f32>;
	bindingRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

type parsedField struct {
	name     string
	typeName string
	location int
	builtin  bool
}

type parsedStruct struct {
	name   string
	fields []parsedField
}

// reflection is everything the renderer needs to know about a shader without a GPU compiler.
type reflection struct {
	entryPoint    string
	vertexLayouts []wgpu.VertexBufferLayout
	bindGroups    map[int]wgpu.BindGroupLayoutDescriptor
	bindings      map[int]map[int]Binding
	structs       map[string]StructLayout
}

// Binding is one @group/@binding resource declaration.
type Binding struct {
	Group   int
	Binding int
	Name    string
	Type    string
}

// reflectSource extracts the entry point, vertex inputs, bind group layouts and struct layouts from
// pre-processed WGSL.
func reflectSource(source string, shaderType ShaderType) (reflection, error) {
	clean := stripComments(source)
	parsed := parseStructs(clean)
	structs := layoutStructs(parsed)

	r := reflection{
		entryPoint: parseEntryPoint(clean, shaderType),
		structs:    structs,
	}
	if shaderType == ShaderTypeVertex {
		layouts, err := parseVertexLayouts(parsed)
		if err != nil {
			return reflection{}, err
		}
		r.vertexLayouts = layouts
	}
	r.bindGroups, r.bindings = parseBindGroups(clean, shaderType.Stage(), structs)
	return r, nil
}

func parseEntryPoint(source string, shaderType ShaderType) string {
	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}
	if m := re.FindStringSubmatch(source); m != nil {
		return m[1]
	}
	return ""
}

func parseStructs(source string) []parsedStruct {
	matches := structRegex.FindAllStringSubmatch(source, -1)
	out := make([]parsedStruct, 0, len(matches))
	for _, m := range matches {
		out = append(out, parsedStruct{name: m[1], fields: parseFields(m[2])})
	}
	return out
}

func parseFields(body string) []parsedField {
	var fields []parsedField
	for _, part := range splitTopLevel(body) {
		part = strings.TrimSpace(part)
		m := fieldRegex.FindStringSubmatch(part)
		if m == nil {
			continue
		}

		f := parsedField{
			name:     m[1],
			typeName: strings.TrimSpace(m[2]),
			location: -1,
			builtin:  builtinRegex.MatchString(part),
		}
		if loc := locationRegex.FindStringSubmatch(part); loc != nil {
			f.location, _ = strconv.Atoi(loc[1])
		}
		fields = append(fields, f)
	}
	return fields
}

// parseVertexLayouts builds one buffer layout per vertex input struct, in declaration order.
// A vertex input struct has at least one @location member and no @builtin member, which
// separates it from the vertex output struct.
func parseVertexLayouts(structs []parsedStruct) ([]wgpu.VertexBufferLayout, error) {
	var layouts []wgpu.VertexBufferLayout
	for _, ps := range structs {
		if !isVertexInput(ps) {
			continue
		}
		layout, err := vertexLayout(ps)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layout)
	}
	return layouts, nil
}

func isVertexInput(ps parsedStruct) bool {
	located := false
	for _, f := range ps.fields {
		if f.builtin {
			return false
		}
		located = located || f.location >= 0
	}
	return located
}

// vertexLayout packs attributes tightly in member order.
func vertexLayout(ps parsedStruct) (wgpu.VertexBufferLayout, error) {
	attrs := make([]wgpu.VertexAttribute, 0, len(ps.fields))
	var offset uint64
	for _, f := range ps.fields {
		if f.location < 0 {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex input %s.%s has no @location", ps.name, f.name)
		}
		vf, ok := vertexFormats[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex input %s.%s: unsupported attribute type %q", ps.name, f.name, f.typeName)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         offset,
			ShaderLocation: uint32(f.location),
		})
		offset += vf.size
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

// parseBindGroups turns every @group/@binding declaration into a layout entry visible to stage.
// Uniform and storage buffers get MinBindingSize from the bound struct when it can be resolved.
func parseBindGroups(source string, stage wgpu.ShaderStage, structs map[string]StructLayout) (map[int]wgpu.BindGroupLayoutDescriptor, map[int]map[int]Binding) {
	entries := make(map[int][]wgpu.BindGroupLayoutEntry)
	bindings := make(map[int]map[int]Binding)

	for _, m := range bindingRegex.FindAllStringSubmatch(source, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		addressSpace := strings.TrimSpace(m[3])
		name := m[4]
		typeName := strings.TrimSpace(m[5])

		entry := classifyBinding(uint32(binding), stage, addressSpace, typeName)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if l, ok := resolveLayout(typeName, structs); ok {
				entry.Buffer.MinBindingSize = l.size
			}
		}
		entries[group] = append(entries[group], entry)

		if bindings[group] == nil {
			bindings[group] = make(map[int]Binding)
		}
		bindings[group][binding] = Binding{Group: group, Binding: binding, Name: name, Type: typeName}
	}

	layouts := make(map[int]wgpu.BindGroupLayoutDescriptor, len(entries))
	for g, es := range entries {
		sort.Slice(es, func(i, j int) bool { return es[i].Binding < es[j].Binding })
		layouts[g] = wgpu.BindGroupLayoutDescriptor{Entries: es}
	}
	return layouts, bindings
}

func classifyBinding(binding uint32, stage wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{
		Binding:    binding,
		Visibility: stage,
	}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_depth_"):
		entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		entry.Texture.ViewDimension = sampledTextureDimensions[typeName]
	case strings.HasPrefix(typeName, "texture_"):
		base, param, _ := strings.Cut(strings.TrimSuffix(typeName, ">"), "<")
		entry.Texture.ViewDimension = sampledTextureDimensions[base]
		entry.Texture.SampleType = sampleTypes[strings.TrimSpace(param)]
	}
	return entry
}

// splitTopLevel splits a struct body at commas outside angle brackets, so array<T, N> stays whole.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth = max(depth-1, 0)
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and (nestable) block comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case depth == 0 && source[i] == '/' && source[i+1] == '/':
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
