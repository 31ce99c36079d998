package buffers_test

import (
	"errors"
	"testing"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nfbo/buffers"
	"github.com/bloeys/nfbo/gpu"
)

func TestFboCubeMap(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 4)

	fbo, err := buffers.NewFboCubeMap(ctx, 128, 128, buffers.NewCubeMapFormat())
	if err != nil {
		t.Fatal(err)
	}

	cube := fbo.TextureCubeMap()
	if cube == nil || !cube.IsCubeMap() {
		t.Fatalf("TextureCubeMap = %v", cube)
	}

	// Only 2D textures are returned as color textures
	if fbo.ColorTexture() != nil {
		t.Error("ColorTexture returned the cube map")
	}

	ref := dev.Framebuffer(fbo.Id).Attachments[gpu.COLOR_ATTACHMENT0]
	if ref.Texture != cube.Id || ref.TextureTarget != gpu.TEXTURE_CUBE_MAP_POSITIVE_X {
		t.Fatalf("color attachment = %+v, want +X face of %d", ref, cube.Id)
	}

	devCube := dev.Texture(cube.Id)
	if devCube.Width != 128 || devCube.Height != 128 || devCube.Target != gpu.TEXTURE_CUBE_MAP {
		t.Errorf("device cube map = %+v", devCube)
	}

	a := mustAttachment(t, fbo.Fbo, buffers.AttachmentPoint_Color0)
	if !a.Owned || a.Texture() != cube {
		t.Errorf("cube map attachment = %+v, want owned", a)
	}

	fbo.BindFramebufferFace(buffers.CubeMapFace_NegativeY, gpu.FRAMEBUFFER, buffers.AttachmentPoint_Color0)

	ref = dev.Framebuffer(fbo.Id).Attachments[gpu.COLOR_ATTACHMENT0]
	if ref.TextureTarget != gpu.TEXTURE_CUBE_MAP_NEGATIVE_Y {
		t.Errorf("bound face = %s, want -Y", ref.TextureTarget)
	}

	if dev.DrawFramebuffer != fbo.Id {
		t.Errorf("draw framebuffer = %d, want %d", dev.DrawFramebuffer, fbo.Id)
	}

	// Invalid faces leave everything as is
	fbo.BindFramebufferFace(buffers.CubeMapFace(gpu.TEXTURE_2D), gpu.FRAMEBUFFER, buffers.AttachmentPoint_Color0)
	if dev.Framebuffer(fbo.Id).Attachments[gpu.COLOR_ATTACHMENT0].TextureTarget != gpu.TEXTURE_CUBE_MAP_NEGATIVE_Y {
		t.Error("invalid face changed the attachment")
	}

	fbo.UnbindFramebuffer()
	fbo.Delete()
	assertNoLiveObjects(t, dev)
}

func TestFboCubeMapMipmaps(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 4)

	fbo, err := buffers.NewFboCubeMap(ctx, 64, 64, buffers.NewCubeMapFormat())
	if err != nil {
		t.Fatal(err)
	}

	id := fbo.TextureCubeMap().Id
	if n := dev.Texture(id).MipmapGenerations; n != 0 {
		t.Fatalf("mipmaps generated %d times before any draw", n)
	}

	for _, face := range buffers.CubeMapFaces {
		fbo.BindFramebufferFace(face, gpu.FRAMEBUFFER, buffers.AttachmentPoint_Color0)
	}

	fbo.TextureCubeMap()
	fbo.TextureCubeMap()

	if n := dev.Texture(id).MipmapGenerations; n != 1 {
		t.Fatalf("mipmaps generated %d times, want 1", n)
	}
}

func TestFboCubeMapMultisample(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)

	format := buffers.NewCubeMapFormat()
	format.Format.SetSamples(4)

	fbo, err := buffers.NewFboCubeMap(ctx, 64, 64, format)
	if err != nil {
		t.Fatal(err)
	}

	if !fbo.HasMultisample() {
		t.Fatal("cube map fbo should multisample")
	}

	fbo.Bind()
	fbo.TextureCubeMap()

	if len(dev.Blits) != 1 || dev.Blits[0].DrawFramebuffer != fbo.Id {
		t.Fatalf("resolve blits = %+v", dev.Blits)
	}

	fbo.Delete()
	assertNoLiveObjects(t, dev)
}

func TestFboCubeMapMultisampleFaces(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)

	format := buffers.NewCubeMapFormat()
	format.Format.SetSamples(4)

	fbo, err := buffers.NewFboCubeMap(ctx, 64, 64, format)
	if err != nil {
		t.Fatal(err)
	}

	mirror, ok := fbo.MultisampleAttachment(buffers.AttachmentPoint_Color0)
	if !ok {
		t.Fatal("no multisample mirror at Color0")
	}

	fbo.BindFramebufferFace(buffers.CubeMapFace_PositiveX, gpu.DRAW_FRAMEBUFFER, buffers.AttachmentPoint_Color0)
	if dev.DrawFramebuffer != fbo.MultisampleId {
		t.Fatalf("draw framebuffer = %d, want the multisample framebuffer %d", dev.DrawFramebuffer, fbo.MultisampleId)
	}

	if len(dev.Blits) != 0 {
		t.Fatalf("resolved %d times before anything was drawn", len(dev.Blits))
	}

	fbo.BindFramebufferFace(buffers.CubeMapFace_NegativeZ, gpu.DRAW_FRAMEBUFFER, buffers.AttachmentPoint_Color0)

	// Content drawn for +X lands in +X before the attachment moves on
	if len(dev.Blits) != 1 {
		t.Fatalf("resolve blits = %d, want 1", len(dev.Blits))
	}

	resolved := dev.Blits[0].DrawAttachments[gpu.COLOR_ATTACHMENT0]
	if dev.Blits[0].DrawFramebuffer != fbo.Id || resolved.TextureTarget != gpu.TEXTURE_CUBE_MAP_POSITIVE_X {
		t.Errorf("resolve went to framebuffer %d face %s, want %d +X", dev.Blits[0].DrawFramebuffer, resolved.TextureTarget, fbo.Id)
	}

	if ref := dev.Framebuffer(fbo.Id).Attachments[gpu.COLOR_ATTACHMENT0]; ref.TextureTarget != gpu.TEXTURE_CUBE_MAP_NEGATIVE_Z {
		t.Errorf("primary face = %s, want -Z", ref.TextureTarget)
	}

	if ref := dev.Framebuffer(fbo.MultisampleId).Attachments[gpu.COLOR_ATTACHMENT0]; ref.Renderbuffer != mirror.Id() || ref.Texture != 0 {
		t.Errorf("multisample Color0 = %+v, want mirror renderbuffer %d", ref, mirror.Id())
	}

	fbo.TextureCubeMap()
	if len(dev.Blits) != 2 || dev.Blits[1].DrawAttachments[gpu.COLOR_ATTACHMENT0].TextureTarget != gpu.TEXTURE_CUBE_MAP_NEGATIVE_Z {
		t.Errorf("reading the cube map did not resolve into -Z: %+v", dev.Blits)
	}

	fbo.Delete()
	assertNoLiveObjects(t, dev)
}

func TestFboCubeMapFailureReleasesCubeMap(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 4)
	dev.UnsupportedFormats[gpu.RGBA8] = true

	_, err := buffers.NewFboCubeMap(ctx, 64, 64, buffers.NewCubeMapFormat())
	if !errors.Is(err, buffers.ErrInvalidSpecification) {
		t.Fatalf("err = %v, want ErrInvalidSpecification", err)
	}

	assertNoLiveObjects(t, dev)

	if _, err := buffers.NewFboCubeMap(ctx, 0, 64, buffers.NewCubeMapFormat()); !errors.Is(err, buffers.ErrInvalidDimensions) {
		t.Fatalf("err = %v, want ErrInvalidDimensions", err)
	}
}

func TestCubeMapFace(t *testing.T) {

	for _, face := range buffers.CubeMapFaces {
		if !face.IsValid() {
			t.Errorf("%s reported invalid", face)
		}
	}

	if buffers.CubeMapFace(gpu.TEXTURE_CUBE_MAP).IsValid() {
		t.Error("TEXTURE_CUBE_MAP is not a face")
	}
}

func TestCalcViewMatrix(t *testing.T) {

	eye := gglm.NewVec3(1, 2, 3)

	tests := []struct {
		face   buffers.CubeMapFace
		target gglm.Vec3
		up     gglm.Vec3
	}{
		{buffers.CubeMapFace_PositiveX, gglm.NewVec3(2, 2, 3), gglm.NewVec3(0, -1, 0)},
		{buffers.CubeMapFace_NegativeX, gglm.NewVec3(0, 2, 3), gglm.NewVec3(0, -1, 0)},
		{buffers.CubeMapFace_PositiveY, gglm.NewVec3(1, 3, 3), gglm.NewVec3(0, 0, 1)},
		{buffers.CubeMapFace_NegativeY, gglm.NewVec3(1, 1, 3), gglm.NewVec3(0, 0, -1)},
		{buffers.CubeMapFace_PositiveZ, gglm.NewVec3(1, 2, 4), gglm.NewVec3(0, -1, 0)},
		{buffers.CubeMapFace_NegativeZ, gglm.NewVec3(1, 2, 2), gglm.NewVec3(0, -1, 0)},
	}

	for _, tt := range tests {

		want := gglm.LookAtRH(&eye, &tt.target, &tt.up).Mat4
		got := buffers.CalcViewMatrix(tt.face, eye)

		if got.Data != want.Data {
			t.Errorf("%s view = %v, want %v", tt.face, got.Data, want.Data)
		}
	}

	got := buffers.CalcViewMatrix(buffers.CubeMapFace(gpu.TEXTURE_2D), eye)
	if got.Data != gglm.NewTrMatId().Data {
		t.Errorf("invalid face view = %v, want identity", got.Data)
	}
}
