package buffers_test

import (
	"testing"

	"github.com/bloeys/nfbo/buffers"
	"github.com/bloeys/nfbo/gpu"
)

func TestNewFormatDefaults(t *testing.T) {

	f := buffers.NewFormat()

	if !f.HasColorTexture() || f.ColorTextureFormat().InternalFormat != gpu.RGBA8 {
		t.Errorf("color texture = %v %s, want RGBA8", f.HasColorTexture(), f.ColorTextureFormat().InternalFormat)
	}
	if !f.HasDepthBuffer() || f.DepthBufferInternalFormat() != gpu.DEPTH_COMPONENT24 {
		t.Errorf("depth buffer = %v %s, want DEPTH_COMPONENT24", f.HasDepthBuffer(), f.DepthBufferInternalFormat())
	}
	if f.HasDepthTexture() || f.HasStencilBuffer() {
		t.Error("depth texture and stencil should be off by default")
	}
	if f.Samples() != 0 || f.CoverageSamples() != 0 {
		t.Errorf("samples = %d/%d, want 0/0", f.Samples(), f.CoverageSamples())
	}
	if len(f.AttachmentPoints()) != 0 {
		t.Errorf("default format has attachments %v", f.AttachmentPoints())
	}
}

func TestFormatBuilder(t *testing.T) {

	f := buffers.NewFormat().
		SetSamples(4).
		SetCoverageSamples(8).
		DisableColor().
		SetDepthTexture(buffers.DefaultDepthTextureFormat()).
		SetStencilBuffer(true).
		SetLabel("shadow")

	if f.Samples() != 4 || f.CoverageSamples() != 8 {
		t.Errorf("samples = %d/%d", f.Samples(), f.CoverageSamples())
	}
	if f.HasColorTexture() {
		t.Error("color should be disabled")
	}
	if !f.HasDepthTexture() || f.DepthTextureFormat().Swizzle[0] != gpu.RED {
		t.Error("depth texture should use the default swizzled format")
	}
	if !f.HasStencilBuffer() || f.Label() != "shadow" {
		t.Errorf("stencil/label = %v/%q", f.HasStencilBuffer(), f.Label())
	}

	f.DisableDepth()
	if f.HasDepthTexture() || f.HasDepthBuffer() {
		t.Error("DisableDepth should turn off both depth options")
	}
}

func TestFormatAttachments(t *testing.T) {

	_, ctx := newContext(gpu.Profile_GL, 4)

	tex := mustTexture(t, ctx, gpu.RGBA8)
	msRb, err := buffers.NewMultisampleRenderbuffer(ctx, 64, 64, gpu.RGBA8, 4, 0)
	if err != nil {
		t.Fatal(err)
	}

	f := buffers.NewFormat().AttachTexture(buffers.AttachmentPoint_Color1, tex, msRb)

	a, ok := f.Attachment(buffers.AttachmentPoint_Color1)
	if !ok || a.Owned || a.Texture() != tex {
		t.Fatalf("attachment = %+v, %v", a, ok)
	}

	ms, ok := f.MultisampleAttachment(buffers.AttachmentPoint_Color1)
	if !ok || ms.Owned || ms.Renderbuffer() != msRb {
		t.Fatalf("multisample attachment = %+v, %v", ms, ok)
	}

	// Clones are independent
	c := f.Clone()
	c.RemoveAttachment(buffers.AttachmentPoint_Color1)

	if _, ok := f.Attachment(buffers.AttachmentPoint_Color1); !ok {
		t.Fatal("removing from a clone changed the original")
	}
	if _, ok := c.MultisampleAttachment(buffers.AttachmentPoint_Color1); ok {
		t.Fatal("RemoveAttachment left the multisample mirror")
	}

	// Attaching again without a mirror drops the old one
	f.AttachTexture(buffers.AttachmentPoint_Color1, tex, nil)
	if _, ok := f.MultisampleAttachment(buffers.AttachmentPoint_Color1); ok {
		t.Fatal("stale multisample mirror after re-attaching")
	}
}

func TestFormatAttachInvalidPointPanics(t *testing.T) {

	_, ctx := newContext(gpu.Profile_GL, 4)
	tex := mustTexture(t, ctx, gpu.RGBA8)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()

	buffers.NewFormat().AttachTexture(buffers.AttachmentPoint(gpu.TEXTURE_2D), tex, nil)
}

func TestDepthStencilFormats(t *testing.T) {

	tests := []struct {
		profile   gpu.Profile
		depth     gpu.Enum
		internal  gpu.Enum
		pixelType gpu.Enum
		ok        bool
	}{
		{gpu.Profile_GL, gpu.DEPTH_COMPONENT24, gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8, true},
		{gpu.Profile_GL, gpu.DEPTH_COMPONENT32F, gpu.DEPTH32F_STENCIL8, gpu.FLOAT_32_UNSIGNED_INT_24_8_REV, true},
		{gpu.Profile_GL, gpu.DEPTH24_STENCIL8, gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8, true},
		{gpu.Profile_GL, gpu.DEPTH_COMPONENT16, 0, 0, false},
		{gpu.Profile_ES2, gpu.DEPTH_COMPONENT, gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8, true},
		{gpu.Profile_ES2, gpu.DEPTH_COMPONENT32F, 0, 0, false},
	}

	for _, tt := range tests {

		internal, pixelType, ok := buffers.DepthStencilFormats(tt.profile, tt.depth)
		if internal != tt.internal || pixelType != tt.pixelType || ok != tt.ok {
			t.Errorf("DepthStencilFormats(%s, %s) = %s, %s, %v; want %s, %s, %v",
				tt.profile, tt.depth, internal, pixelType, ok, tt.internal, tt.pixelType, tt.ok)
		}
	}
}

func TestDefaultColorInternalFormat(t *testing.T) {

	if got := buffers.DefaultColorInternalFormat(gpu.Profile_GL); got != gpu.RGBA8 {
		t.Errorf("GL = %s, want RGBA8", got)
	}

	if got := buffers.DefaultColorInternalFormat(gpu.Profile_ES2); got != gpu.RGBA {
		t.Errorf("ES2 = %s, want RGBA", got)
	}
}
