package buffers

import (
	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nfbo/gpu"
)

type CubeMapFace gpu.Enum

const (
	CubeMapFace_PositiveX CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_POSITIVE_X)
	CubeMapFace_NegativeX CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_NEGATIVE_X)
	CubeMapFace_PositiveY CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_POSITIVE_Y)
	CubeMapFace_NegativeY CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_NEGATIVE_Y)
	CubeMapFace_PositiveZ CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_POSITIVE_Z)
	CubeMapFace_NegativeZ CubeMapFace = CubeMapFace(gpu.TEXTURE_CUBE_MAP_NEGATIVE_Z)
)

var CubeMapFaces = [6]CubeMapFace{
	CubeMapFace_PositiveX,
	CubeMapFace_NegativeX,
	CubeMapFace_PositiveY,
	CubeMapFace_NegativeY,
	CubeMapFace_PositiveZ,
	CubeMapFace_NegativeZ,
}

func (f CubeMapFace) IsValid() bool {
	return f >= CubeMapFace_PositiveX && f <= CubeMapFace_NegativeZ
}

func (f CubeMapFace) String() string {
	return gpu.Enum(f).String()
}

type CubeMapFormat struct {
	// Used for everything except color attachment 0, which is always the cube map
	Format        *Format
	TextureFormat TextureFormat
}

// NewCubeMapFormat returns a format with a mipmapped RGBA8 cube map and the default depth buffer
func NewCubeMapFormat() CubeMapFormat {
	return CubeMapFormat{
		Format:        NewFormat(),
		TextureFormat: DefaultColorTextureFormat(true).WithMipmap(true),
	}
}

// FboCubeMap is an fbo rendering into the faces of a cube map attached at color attachment 0
type FboCubeMap struct {
	*Fbo
	cubeMap *Texture
}

func NewFboCubeMap(ctx *Context, faceWidth, faceHeight int32, format CubeMapFormat) (*FboCubeMap, error) {

	cubeMap, err := NewTextureCubeMap(ctx, faceWidth, faceHeight, format.TextureFormat)
	if err != nil {
		return nil, err
	}

	var amended *Format
	if format.Format != nil {
		amended = format.Format.Clone()
	} else {
		amended = NewFormat()
	}

	// Owned, so the fbo deletes it with itself, or when construction fails
	amended.attachments.Set(AttachmentPoint_Color0, OwnedTexture(cubeMap))
	amended.multisampleAttachments.Remove(AttachmentPoint_Color0)

	fbo, err := NewFbo(ctx, faceWidth, faceHeight, amended)
	if err != nil {
		return nil, err
	}

	return &FboCubeMap{
		Fbo:     fbo,
		cubeMap: cubeMap,
	}, nil
}

// TextureCubeMap returns the cube map, resolved and with up to date mipmaps
func (fbo *FboCubeMap) TextureCubeMap() *Texture {

	if fbo.deleted {
		return nil
	}

	fbo.resolveTextures()
	fbo.updateMipmaps(AttachmentPoint_Color0)
	return fbo.cubeMap
}

// BindFramebufferFace points p of the primary framebuffer at one face of the cube map,
// then binds the fbo to target. Multisampled content drawn to the previous face is
// resolved into it first, and the multisample mirror at p stays attached.
func (fbo *FboCubeMap) BindFramebufferFace(face CubeMapFace, target gpu.Enum, p AttachmentPoint) {

	if fbo.deleted || !face.IsValid() {
		return
	}

	fbo.resolveTextures()

	ctx := fbo.ctx
	ctx.PushFramebuffer(gpu.FRAMEBUFFER, fbo.Id)
	ctx.Dev.FramebufferTexture2D(gpu.FRAMEBUFFER, p.Enum(), gpu.Enum(face), fbo.cubeMap.Id, 0)
	ctx.PopFramebuffer(gpu.FRAMEBUFFER)

	fbo.BindFramebuffer(target)
}

// CalcViewMatrix returns the view matrix looking from eye through face.
// An invalid face gives the identity matrix.
func CalcViewMatrix(face CubeMapFace, eye gglm.Vec3) gglm.Mat4 {

	if !face.IsValid() {
		return gglm.NewTrMatId().Mat4
	}

	var target, up gglm.Vec3
	switch face {
	case CubeMapFace_PositiveX:
		target = gglm.NewVec3(1+eye.X(), eye.Y(), eye.Z())
		up = gglm.NewVec3(0, -1, 0)
	case CubeMapFace_NegativeX:
		target = gglm.NewVec3(-1+eye.X(), eye.Y(), eye.Z())
		up = gglm.NewVec3(0, -1, 0)
	case CubeMapFace_PositiveY:
		target = gglm.NewVec3(eye.X(), 1+eye.Y(), eye.Z())
		up = gglm.NewVec3(0, 0, 1)
	case CubeMapFace_NegativeY:
		target = gglm.NewVec3(eye.X(), -1+eye.Y(), eye.Z())
		up = gglm.NewVec3(0, 0, -1)
	case CubeMapFace_PositiveZ:
		target = gglm.NewVec3(eye.X(), eye.Y(), 1+eye.Z())
		up = gglm.NewVec3(0, -1, 0)
	case CubeMapFace_NegativeZ:
		target = gglm.NewVec3(eye.X(), eye.Y(), -1+eye.Z())
		up = gglm.NewVec3(0, -1, 0)
	}

	return gglm.LookAtRH(&eye, &target, &up).Mat4
}
