package buffers

import (
	"fmt"

	"github.com/bloeys/nfbo/gpu"
)

// TextureFormat describes how a texture attachment is allocated and sampled
type TextureFormat struct {
	InternalFormat gpu.Enum
	Mipmap         bool
	// Zero means LINEAR, or LINEAR_MIPMAP_LINEAR when Mipmap is set
	MinFilter gpu.Enum
	MagFilter gpu.Enum
	WrapS     gpu.Enum
	WrapT     gpu.Enum
	// Zero entries leave the channel unswizzled
	Swizzle [4]gpu.Enum
}

func NewTextureFormat(internalFormat gpu.Enum) TextureFormat {
	return TextureFormat{
		InternalFormat: internalFormat,
		MagFilter:      gpu.LINEAR,
		WrapS:          gpu.CLAMP_TO_EDGE,
		WrapT:          gpu.CLAMP_TO_EDGE,
	}
}

func (tf TextureFormat) WithMipmap(mipmap bool) TextureFormat {
	tf.Mipmap = mipmap
	return tf
}

func (tf TextureFormat) WithFilters(min, mag gpu.Enum) TextureFormat {
	tf.MinFilter = min
	tf.MagFilter = mag
	return tf
}

func (tf TextureFormat) WithSwizzle(r, g, b, a gpu.Enum) TextureFormat {
	tf.Swizzle = [4]gpu.Enum{r, g, b, a}
	return tf
}

func (tf *TextureFormat) minFilter() gpu.Enum {

	if tf.MinFilter != 0 {
		return tf.MinFilter
	}

	if tf.Mipmap {
		return gpu.LINEAR_MIPMAP_LINEAR
	}

	return gpu.LINEAR
}

// Texture is a 2D or cube map texture usable as a framebuffer attachment
type Texture struct {
	Id     uint32
	Target gpu.Enum
	Width  int32
	Height int32
	Format TextureFormat

	ctx *Context
}

func (t *Texture) Is2D() bool {
	return t.Target == gpu.TEXTURE_2D
}

func (t *Texture) IsCubeMap() bool {
	return t.Target == gpu.TEXTURE_CUBE_MAP
}

func (t *Texture) HasMipmapping() bool {
	return t.Format.Mipmap
}

func (t *Texture) Bind(unit uint32) {
	t.ctx.BindTexture(unit, t.Target, t.Id)
}

func (t *Texture) UnBind(unit uint32) {
	t.ctx.BindTexture(unit, t.Target, 0)
}

// Delete frees the device texture. Calling it again does nothing.
func (t *Texture) Delete() {

	if t.Id == 0 {
		return
	}

	t.ctx.Dev.DeleteTexture(t.Id)
	t.ctx.textureDeleted(t.Id)
	t.Id = 0
}

func (t *Texture) String() string {
	return fmt.Sprintf("ID: %d; Target: %s; Intrnl Fmt: %s; Dims: %d x %d; Mipmap: %v", t.Id, t.Target, t.Format.InternalFormat, t.Width, t.Height, t.Format.Mipmap)
}

func NewTexture2D(ctx *Context, width, height int32, format TextureFormat) (*Texture, error) {
	return newTexture(ctx, gpu.TEXTURE_2D, width, height, format)
}

// NewTextureCubeMap creates a cube map with six faceWidth x faceHeight faces
func NewTextureCubeMap(ctx *Context, faceWidth, faceHeight int32, format TextureFormat) (*Texture, error) {
	return newTexture(ctx, gpu.TEXTURE_CUBE_MAP, faceWidth, faceHeight, format)
}

func newTexture(ctx *Context, target gpu.Enum, width, height int32, format TextureFormat) (*Texture, error) {

	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	t := &Texture{
		Target: target,
		Width:  width,
		Height: height,
		Format: format,
		ctx:    ctx,
	}

	dev := ctx.Dev
	t.Id = dev.GenTexture()
	if t.Id == 0 {
		return nil, fmt.Errorf("failed to generate texture: %w", ErrAllocationFailed)
	}

	ctx.PushTextureBinding(target, t.Id)
	defer ctx.PopTextureBinding(target)

	pixelFormat, pixelType := gpu.PixelTransferFor(format.InternalFormat)
	if target == gpu.TEXTURE_CUBE_MAP {
		for face := gpu.TEXTURE_CUBE_MAP_POSITIVE_X; face <= gpu.TEXTURE_CUBE_MAP_NEGATIVE_Z; face++ {
			dev.TexImage2D(face, 0, format.InternalFormat, width, height, pixelFormat, pixelType)
		}
		dev.TexParameteri(target, gpu.TEXTURE_WRAP_R, int32(gpu.CLAMP_TO_EDGE))
	} else {
		dev.TexImage2D(target, 0, format.InternalFormat, width, height, pixelFormat, pixelType)
	}

	magFilter := format.MagFilter
	if magFilter == 0 {
		magFilter = gpu.LINEAR
	}

	dev.TexParameteri(target, gpu.TEXTURE_MIN_FILTER, int32(format.minFilter()))
	dev.TexParameteri(target, gpu.TEXTURE_MAG_FILTER, int32(magFilter))

	if format.WrapS != 0 {
		dev.TexParameteri(target, gpu.TEXTURE_WRAP_S, int32(format.WrapS))
	}

	if format.WrapT != 0 {
		dev.TexParameteri(target, gpu.TEXTURE_WRAP_T, int32(format.WrapT))
	}

	// Swizzling is not part of ES2
	if !ctx.Caps.Profile.IsES2() {
		swizzleParams := [4]gpu.Enum{gpu.TEXTURE_SWIZZLE_R, gpu.TEXTURE_SWIZZLE_G, gpu.TEXTURE_SWIZZLE_B, gpu.TEXTURE_SWIZZLE_A}
		for i := 0; i < len(swizzleParams); i++ {
			if format.Swizzle[i] != 0 {
				dev.TexParameteri(target, swizzleParams[i], int32(format.Swizzle[i]))
			}
		}
	}

	return t, nil
}
