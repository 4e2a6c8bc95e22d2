package pipeline

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-learn/common"
	"github.com/Carmen-Shannon/oxy-learn/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnknownUniform is returned when a setter names a field the block does not declare.
	ErrUnknownUniform = errors.New("unknown uniform")

	// ErrUniformType is returned when a setter's value kind does not match the declared field.
	ErrUniformType = errors.New("uniform type mismatch")
)

// UniformKind is the value type of one uniform block member.
type UniformKind int

const (
	UniformFloat UniformKind = iota
	UniformInt
	UniformVec3
	UniformVec4
	UniformMat4
)

// wgslType returns the WGSL type the kind packs as.
func (k UniformKind) wgslType() string {
	switch k {
	case UniformFloat:
		return "f32"
	case UniformInt:
		return "i32"
	case UniformVec3:
		return "vec3<f32>"
	case UniformVec4:
		return "vec4<f32>"
	case UniformMat4:
		return "mat4x4<f32>"
	default:
		return ""
	}
}

func (k UniformKind) String() string {
	if t := k.wgslType(); t != "" {
		return t
	}
	return "unknown"
}

// kindOf maps a reflected WGSL member type back to a kind.
func kindOf(wgslType string) (UniformKind, bool) {
	switch wgslType {
	case "f32":
		return UniformFloat, true
	case "i32":
		return UniformInt, true
	case "vec3<f32>", "vec3f":
		return UniformVec3, true
	case "vec4<f32>", "vec4f":
		return UniformVec4, true
	case "mat4x4<f32>", "mat4x4f":
		return UniformMat4, true
	default:
		return 0, false
	}
}

// UniformField declares one named member of a uniform block.
type UniformField struct {
	Name string
	Kind UniformKind
}

type uniformSlot struct {
	kind   UniformKind
	offset uint64
}

// UniformBlock is the CPU copy of one uniform buffer, packed with WGSL uniform layout rules and
// addressed by member name. It replaces per-name uniform setters on a linked program: values
// are written here and uploaded when the block is flushed.
type UniformBlock struct {
	label string
	order []string
	slots map[string]uniformSlot
	data  []byte
	dirty bool
}

// NewUniformBlock lays out fields in order.
//
// Parameters:
//   - label: debug label for the GPU buffer
//   - fields: the members in declaration order
//
// Returns:
//   - *UniformBlock: the zero-filled block, marked dirty
//   - error: error if a name repeats, a kind is unknown, or no fields are given
func NewUniformBlock(label string, fields ...UniformField) (*UniformBlock, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("uniform block %s: no fields", label)
	}

	b := &UniformBlock{
		label: label,
		slots: make(map[string]uniformSlot, len(fields)),
		dirty: true,
	}

	var offset, blockAlign uint64 = 0, 1
	for _, f := range fields {
		size, align, ok := shader.TypeLayout(f.Kind.wgslType())
		if !ok {
			return nil, fmt.Errorf("uniform block %s: field %s has unknown kind %d", label, f.Name, f.Kind)
		}
		if _, dup := b.slots[f.Name]; dup {
			return nil, fmt.Errorf("uniform block %s: duplicate field %s", label, f.Name)
		}
		offset = (offset + align - 1) &^ (align - 1)
		b.slots[f.Name] = uniformSlot{kind: f.Kind, offset: offset}
		b.order = append(b.order, f.Name)
		offset += size
		blockAlign = max(blockAlign, align)
	}

	b.data = make([]byte, (offset+blockAlign-1)&^(blockAlign-1))
	return b, nil
}

// NewUniformBlockFromStruct builds a block matching a struct reflected from a shader.
//
// Parameters:
//   - layout: the reflected struct layout
//
// Returns:
//   - *UniformBlock: the block
//   - error: error if a member type has no uniform kind
func NewUniformBlockFromStruct(layout shader.StructLayout) (*UniformBlock, error) {
	fields := make([]UniformField, 0, len(layout.Fields))
	for _, f := range layout.Fields {
		kind, ok := kindOf(f.Type)
		if !ok {
			return nil, fmt.Errorf("uniform block %s: member %s has unsupported type %q", layout.Name, f.Name, f.Type)
		}
		fields = append(fields, UniformField{Name: f.Name, Kind: kind})
	}

	b, err := NewUniformBlock(layout.Name, fields...)
	if err != nil {
		return nil, err
	}
	if uint64(len(b.data)) != layout.Size {
		return nil, fmt.Errorf("uniform block %s: packed size %d does not match reflected size %d", layout.Name, len(b.data), layout.Size)
	}
	return b, nil
}

// Label returns the debug label.
func (b *UniformBlock) Label() string {
	return b.label
}

// Fields returns member names in declaration order.
func (b *UniformBlock) Fields() []string {
	return b.order
}

// Has reports whether the block declares name.
func (b *UniformBlock) Has(name string) bool {
	_, ok := b.slots[name]
	return ok
}

// Offset returns the byte offset of a member.
func (b *UniformBlock) Offset(name string) (uint64, bool) {
	s, ok := b.slots[name]
	return s.offset, ok
}

// Size returns the packed size in bytes.
func (b *UniformBlock) Size() uint64 {
	return uint64(len(b.data))
}

// Bytes returns the packed buffer. The slice aliases the block.
func (b *UniformBlock) Bytes() []byte {
	return b.data
}

// Dirty reports whether values changed since the last ClearDirty.
func (b *UniformBlock) Dirty() bool {
	return b.dirty
}

// ClearDirty marks the block as uploaded.
func (b *UniformBlock) ClearDirty() {
	b.dirty = false
}

// MarkDirty forces the next flush to upload the whole block.
func (b *UniformBlock) MarkDirty() {
	b.dirty = true
}

// SetBytes replaces the whole block with data packed elsewhere, such as a GPU uniform's Marshal.
//
// Parameters:
//   - data: exactly Size bytes
//
// Returns:
//   - error: error if the length does not match the block
func (b *UniformBlock) SetBytes(data []byte) error {
	if len(data) != len(b.data) {
		return fmt.Errorf("uniform block %s: got %d bytes, want %d", b.label, len(data), len(b.data))
	}
	copy(b.data, data)
	b.dirty = true
	return nil
}

func (b *UniformBlock) slot(name string, kind UniformKind) (uniformSlot, error) {
	s, ok := b.slots[name]
	if !ok {
		return uniformSlot{}, fmt.Errorf("%w %q in block %s", ErrUnknownUniform, name, b.label)
	}
	if s.kind != kind {
		return uniformSlot{}, fmt.Errorf("%w: %s.%s is %s, not %s", ErrUniformType, b.label, name, s.kind, kind)
	}
	return s, nil
}

// SetMat4 writes a column-major matrix.
func (b *UniformBlock) SetMat4(name string, m mgl32.Mat4) error {
	s, err := b.slot(name, UniformMat4)
	if err != nil {
		return err
	}
	common.PutMat4(b.data[s.offset:], m)
	b.dirty = true
	return nil
}

// SetVec3 writes a 3-component vector.
func (b *UniformBlock) SetVec3(name string, v mgl32.Vec3) error {
	s, err := b.slot(name, UniformVec3)
	if err != nil {
		return err
	}
	common.PutVec3(b.data[s.offset:], v)
	b.dirty = true
	return nil
}

// SetVec4 writes a 4-component vector.
func (b *UniformBlock) SetVec4(name string, v mgl32.Vec4) error {
	s, err := b.slot(name, UniformVec4)
	if err != nil {
		return err
	}
	copy(b.data[s.offset:], common.Float32sToBytes(v[:]))
	b.dirty = true
	return nil
}

// SetFloat writes a scalar.
func (b *UniformBlock) SetFloat(name string, v float32) error {
	s, err := b.slot(name, UniformFloat)
	if err != nil {
		return err
	}
	copy(b.data[s.offset:], common.Float32sToBytes([]float32{v}))
	b.dirty = true
	return nil
}

// SetInt writes a signed integer.
func (b *UniformBlock) SetInt(name string, v int32) error {
	s, err := b.slot(name, UniformInt)
	if err != nil {
		return err
	}
	copy(b.data[s.offset:], common.Uint32sToBytes([]uint32{uint32(v)}))
	b.dirty = true
	return nil
}

// SetBool writes 1 or 0 into an integer member, since WGSL bool is not host-shareable.
func (b *UniformBlock) SetBool(name string, v bool) error {
	var i int32
	if v {
		i = 1
	}
	return b.SetInt(name, i)
}
