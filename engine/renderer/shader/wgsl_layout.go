package shader

import (
	"strconv"
	"strings"
)

// typeLayout is the byte size and alignment of a WGSL type in the uniform address space.
type typeLayout struct {
	size  uint64
	align uint64
}

// primitiveLayouts maps host-shareable WGSL scalar, vector and matrix types to their layout.
//
// Reference: https://www.w3.org/TR/WGSL/#alignment-and-size
var primitiveLayouts = map[string]typeLayout{
	"f32": {4, 4},
	"i32": {4, 4},
	"u32": {4, 4},

	"vec2<f32>": {8, 8},
	"vec2f":     {8, 8},
	"vec3<f32>": {12, 16},
	"vec3f":     {12, 16},
	"vec4<f32>": {16, 16},
	"vec4f":     {16, 16},

	"vec2<i32>": {8, 8},
	"vec2i":     {8, 8},
	"vec3<i32>": {12, 16},
	"vec3i":     {12, 16},
	"vec4<i32>": {16, 16},
	"vec4i":     {16, 16},

	"vec2<u32>": {8, 8},
	"vec2u":     {8, 8},
	"vec3<u32>": {12, 16},
	"vec3u":     {12, 16},
	"vec4<u32>": {16, 16},
	"vec4u":     {16, 16},

	// matCxR: C columns of vecR
	"mat2x2<f32>": {16, 8},
	"mat2x2f":     {16, 8},
	"mat3x3<f32>": {48, 16},
	"mat3x3f":     {48, 16},
	"mat4x4<f32>": {64, 16},
	"mat4x4f":     {64, 16},
}

// TypeLayout returns the size and alignment of a built-in WGSL type such as "vec3<f32>" or "mat4x4f".
//
// Parameters:
//   - typeName: the WGSL type name
//
// Returns:
//   - uint64: size in bytes
//   - uint64: alignment in bytes
//   - bool: false if the type is not a known primitive
func TypeLayout(typeName string) (uint64, uint64, bool) {
	l, ok := primitiveLayouts[typeName]
	return l.size, l.align, ok
}

// alignUp rounds value up to the next multiple of alignment, which must be a power of two.
func alignUp(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// resolveLayout looks a type up among primitives, already-resolved structs, and fixed-size arrays.
func resolveLayout(typeName string, structs map[string]StructLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if s, ok := structs[typeName]; ok {
		return typeLayout{s.Size, s.Align}, true
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	elem, count, ok := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	if !ok {
		// runtime-sized arrays are not valid in uniform buffers
		return typeLayout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	el, ok := resolveLayout(strings.TrimSpace(elem), structs)
	if !ok {
		return typeLayout{}, false
	}
	// uniform arrays have a 16-byte element stride
	stride := alignUp(max(el.align, 16), el.size)
	return typeLayout{n * stride, max(el.align, 16)}, true
}

// layoutStruct places each non-builtin field at its aligned offset. The struct size is rounded
// up to its largest field alignment.
func layoutStruct(ps parsedStruct, structs map[string]StructLayout) (StructLayout, bool) {
	out := StructLayout{Name: ps.name, Align: 1}
	var offset uint64

	for _, f := range ps.fields {
		if f.builtin {
			continue
		}
		l, ok := resolveLayout(f.typeName, structs)
		if !ok {
			return StructLayout{}, false
		}
		offset = alignUp(l.align, offset)
		out.Fields = append(out.Fields, StructField{
			Name:   f.name,
			Type:   f.typeName,
			Offset: offset,
			Size:   l.size,
		})
		offset += l.size
		out.Align = max(out.Align, l.align)
	}

	out.Size = alignUp(out.Align, offset)
	return out, true
}

// layoutStructs resolves every struct whose fields are all resolvable, iterating until no
// further struct can be resolved so that declaration order does not matter.
func layoutStructs(parsed []parsedStruct) map[string]StructLayout {
	resolved := make(map[string]StructLayout, len(parsed))
	pending := parsed

	for len(pending) > 0 {
		var next []parsedStruct
		for _, ps := range pending {
			if l, ok := layoutStruct(ps, resolved); ok {
				resolved[ps.name] = l
			} else {
				next = append(next, ps)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}

	return resolved
}
