// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// SamplerStagingData holds the configuration for a sampler binding pending GPU creation.
// Zero fields fall back to linear filtering with repeat addressing.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode for texture coordinates outside the [0, 1] range.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp specify the minimum and maximum level of detail (LOD) for mipmapping.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy specifies the maximum anisotropy level for anisotropic filtering.
	MaxAnisotropy uint16
}

// LoadTexture opens an image file and decodes it to RGBA staging data.
// Supports PNG, JPEG, BMP and WebP.
//
// Parameters:
//   - path: the image file path
//   - flipY: if true, rows are reversed so that texture coordinate v=0 addresses the bottom of the image
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if the file cannot be opened or decoded
func LoadTexture(path string, flipY bool) (*TextureStagingData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file %s: %w", path, err)
	}
	defer file.Close()

	data, err := DecodeTexture(file, flipY)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture file %s: %w", path, err)
	}
	return data, nil
}

// DecodeTexture decodes an encoded image stream to RGBA staging data.
//
// Parameters:
//   - r: the encoded image
//   - flipY: if true, rows are reversed vertically
//
// Returns:
//   - *TextureStagingData: the decoded pixels
//   - error: error if decoding fails or the image is empty
func DecodeTexture(r io.Reader, flipY bool) (*TextureStagingData, error) {
	if r == nil {
		return nil, errors.New("texture reader is nil")
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("texture has no pixels")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if flipY {
		flipRows(rgba.Pix, rgba.Stride, bounds.Dy())
	}

	return &TextureStagingData{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}

// Checkerboard generates an RGBA checkerboard texture, used when no texture file is configured.
//
// Parameters:
//   - size: width and height in pixels
//   - cells: number of cells along each axis
//   - a, b: the two RGBA cell colors
//
// Returns:
//   - *TextureStagingData: the generated pixels
func Checkerboard(size, cells int, a, b [4]uint8) *TextureStagingData {
	if size <= 0 {
		size = 1
	}
	if cells <= 0 {
		cells = 1
	}
	cell := max(size/cells, 1)

	pix := make([]byte, size*size*4)
	for y := range size {
		for x := range size {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			copy(pix[(y*size+x)*4:], c[:])
		}
	}

	return &TextureStagingData{
		Pixels: pix,
		Width:  uint32(size),
		Height: uint32(size),
	}
}

// flipRows reverses the row order of a tightly packed pixel buffer in place.
func flipRows(pix []byte, stride, rows int) {
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, t)
		copy(t, b)
		copy(b, tmp)
	}
}
