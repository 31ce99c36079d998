package buffers_test

import (
	"testing"

	"github.com/bloeys/nfbo/buffers"
	"github.com/bloeys/nfbo/gpu"
)

func TestResolveHappensOncePerDraw(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)
	fbo := mustFbo(t, ctx, 64, 64, buffers.NewFormat().SetSamples(4))

	// Nothing drawn yet
	fbo.ColorTexture()
	if len(dev.Blits) != 0 {
		t.Fatalf("resolved %d times before any draw", len(dev.Blits))
	}

	fbo.Bind()
	if !fbo.NeedsResolve() {
		t.Fatal("binding for drawing should require a resolve")
	}

	fbo.ColorTexture()
	fbo.ColorTexture()
	fbo.Texture(buffers.AttachmentPoint_Color0)

	if len(dev.Blits) != 1 {
		t.Fatalf("resolved %d times, want 1", len(dev.Blits))
	}

	if fbo.NeedsResolve() {
		t.Fatal("flag still set after resolve")
	}

	b := dev.Blits[0]
	if b.ReadFramebuffer != fbo.MultisampleId || b.DrawFramebuffer != fbo.Id {
		t.Errorf("resolve blit %d -> %d, want %d -> %d", b.ReadFramebuffer, b.DrawFramebuffer, fbo.MultisampleId, fbo.Id)
	}
	if b.Mask != gpu.COLOR_BUFFER_BIT|gpu.DEPTH_BUFFER_BIT || b.Filter != gpu.NEAREST {
		t.Errorf("resolve blit mask/filter = 0x%X/%s", uint32(b.Mask), b.Filter)
	}
	if b.Src != [4]int32{0, 0, 64, 64} || b.Dst != [4]int32{0, 0, 64, 64} {
		t.Errorf("resolve blit areas = %v -> %v", b.Src, b.Dst)
	}

	// Drawing again makes the next read resolve again
	fbo.Bind()
	fbo.ColorTexture()
	if len(dev.Blits) != 2 {
		t.Fatalf("resolved %d times after second draw, want 2", len(dev.Blits))
	}
}

func TestResolveRestoresBindings(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)
	fbo := mustFbo(t, ctx, 64, 64, buffers.NewFormat().SetSamples(4))
	other := mustFbo(t, ctx, 64, 64, nil)

	fbo.Bind()
	other.BindFramebuffer(gpu.READ_FRAMEBUFFER)

	fbo.ColorTexture()

	if dev.DrawFramebuffer != fbo.MultisampleId || dev.ReadFramebuffer != other.Id {
		t.Fatalf("after resolve draw/read = %d/%d, want %d/%d", dev.DrawFramebuffer, dev.ReadFramebuffer, fbo.MultisampleId, other.Id)
	}

	if ctx.FramebufferBinding(gpu.DRAW_FRAMEBUFFER) != fbo.MultisampleId || ctx.FramebufferBinding(gpu.READ_FRAMEBUFFER) != other.Id {
		t.Fatal("cached bindings out of sync after resolve")
	}
}

func TestResolvePerAttachment(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)

	tex2 := mustTexture(t, ctx, gpu.RGBA16F)

	rb1, err := buffers.NewRenderbuffer(ctx, 64, 64, gpu.RGBA8)
	if err != nil {
		t.Fatal(err)
	}

	format := buffers.NewFormat().
		SetSamples(4).
		AttachTexture(buffers.AttachmentPoint_Color2, tex2, nil).
		AttachRenderbuffer(buffers.AttachmentPoint_Color1, rb1, nil)

	fbo := mustFbo(t, ctx, 64, 64, format)

	fbo.Bind()
	fbo.ColorTexture()

	// Color1 is a renderbuffer in the primary framebuffer and is not resolved
	want := []gpu.Enum{gpu.COLOR_ATTACHMENT0, gpu.COLOR_ATTACHMENT0 + 2}
	if len(dev.Blits) != len(want) {
		t.Fatalf("resolve blits = %d, want %d", len(dev.Blits), len(want))
	}

	for i, b := range dev.Blits {

		if b.ReadBuffer != want[i] {
			t.Errorf("blit %d read buffer = %s, want %s", i, b.ReadBuffer, want[i])
		}

		if !equalEnums(b.DrawBuffers, []gpu.Enum{want[i]}) {
			t.Errorf("blit %d draw buffers = %v, want [%s]", i, b.DrawBuffers, want[i])
		}
	}

	// Multisample framebuffer keeps drawing into every color attachment
	msFb := dev.Framebuffer(fbo.MultisampleId)
	wantAll := []gpu.Enum{gpu.COLOR_ATTACHMENT0, gpu.COLOR_ATTACHMENT0 + 1, gpu.COLOR_ATTACHMENT0 + 2}
	if !equalEnums(msFb.DrawBuffers, wantAll) {
		t.Errorf("multisample draw buffers = %v, want %v", msFb.DrawBuffers, wantAll)
	}
}

func TestResolveStrategies(t *testing.T) {

	t.Run("angle single blit", func(t *testing.T) {

		dev, ctx := newContext(gpu.Profile_ANGLE, 4)
		fbo := mustFbo(t, ctx, 32, 32, buffers.NewFormat().SetSamples(4))

		if !fbo.HasMultisample() {
			t.Fatal("ANGLE should multisample")
		}

		fbo.Bind()
		fbo.ColorTexture()
		fbo.ColorTexture()

		if len(dev.Blits) != 1 || dev.Blits[0].Mask != gpu.COLOR_BUFFER_BIT|gpu.DEPTH_BUFFER_BIT {
			t.Fatalf("blits = %+v, want one color+depth blit", dev.Blits)
		}
	})

	t.Run("apple", func(t *testing.T) {

		dev, ctx := newContext(gpu.Profile_ES2Apple, 4)
		fbo := mustFbo(t, ctx, 32, 32, buffers.NewFormat().SetSamples(4))

		fbo.Bind()
		fbo.ColorTexture()
		fbo.ColorTexture()

		if dev.AppleResolves != 1 || len(dev.Blits) != 0 {
			t.Fatalf("apple resolves/blits = %d/%d, want 1/0", dev.AppleResolves, len(dev.Blits))
		}
	})
}

func TestReadBindResolves(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)
	fbo := mustFbo(t, ctx, 64, 64, buffers.NewFormat().SetSamples(4))

	fbo.BindFramebuffer(gpu.DRAW_FRAMEBUFFER)
	if dev.DrawFramebuffer != fbo.MultisampleId {
		t.Fatalf("draw binding = %d, want the multisample framebuffer %d", dev.DrawFramebuffer, fbo.MultisampleId)
	}

	fbo.BindFramebuffer(gpu.READ_FRAMEBUFFER)
	if dev.ReadFramebuffer != fbo.Id {
		t.Fatalf("read binding = %d, want the primary framebuffer %d", dev.ReadFramebuffer, fbo.Id)
	}

	if len(dev.Blits) != 1 || fbo.NeedsResolve() {
		t.Fatalf("blits = %d; NeedsResolve = %v, want 1/false", len(dev.Blits), fbo.NeedsResolve())
	}
}

func TestMipmapsRegeneratedOncePerDraw(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)

	format := buffers.NewFormat().SetColorTexture(buffers.DefaultColorTextureFormat(true).WithMipmap(true))
	fbo := mustFbo(t, ctx, 64, 64, format)

	tex := fbo.ColorTexture()
	if got := dev.Texture(tex.Id).MipmapGenerations; got != 0 {
		t.Fatalf("mipmaps generated %d times before any draw", got)
	}

	if got := dev.Texture(tex.Id).Params[gpu.TEXTURE_MIN_FILTER]; got != int32(gpu.LINEAR_MIPMAP_LINEAR) {
		t.Errorf("min filter = 0x%X, want LINEAR_MIPMAP_LINEAR", got)
	}

	fbo.Bind()
	if !fbo.NeedsMipmapUpdate() {
		t.Fatal("binding for drawing should require a mipmap update")
	}

	fbo.ColorTexture()
	fbo.ColorTexture()

	if got := dev.Texture(tex.Id).MipmapGenerations; got != 1 {
		t.Fatalf("mipmaps generated %d times, want 1", got)
	}

	fbo.Bind()
	fbo.BindTexture(3, buffers.AttachmentPoint_Color0)

	if got := dev.Texture(tex.Id).MipmapGenerations; got != 2 {
		t.Fatalf("mipmaps generated %d times after second draw, want 2", got)
	}

	if ctx.TextureBinding(gpu.TEXTURE_2D) != tex.Id {
		t.Fatal("BindTexture did not bind the color texture")
	}

	fbo.UnbindTexture(3, buffers.AttachmentPoint_Color0)
	if ctx.TextureBinding(gpu.TEXTURE_2D) != 0 {
		t.Fatal("UnbindTexture left the texture bound")
	}
}

func TestMipmapFlagNeedsMipmappedTexture(t *testing.T) {

	dev, ctx := newContext(gpu.Profile_GL, 8)

	plain := mustFbo(t, ctx, 64, 64, nil)
	plain.Bind()
	if plain.NeedsMipmapUpdate() {
		t.Fatal("fbo without mipmapped textures flagged for a mipmap update")
	}

	// Mipmapped texture at Color1, read through Color0 first
	tex, err := buffers.NewTexture2D(ctx, 64, 64, buffers.NewTextureFormat(gpu.RGBA8).WithMipmap(true))
	if err != nil {
		t.Fatal(err)
	}

	fbo := mustFbo(t, ctx, 64, 64, buffers.NewFormat().AttachTexture(buffers.AttachmentPoint_Color1, tex, nil))
	fbo.Bind()

	if fbo.Texture(buffers.AttachmentPoint_Depth) != nil {
		t.Fatal("depth renderbuffer returned as a texture")
	}

	// A read that returns nothing does not consume the update
	if !fbo.NeedsMipmapUpdate() {
		t.Fatal("flag consumed by a read that returned nothing")
	}

	// The flag is per fbo, so reading another texture consumes it
	fbo.ColorTexture()
	if fbo.NeedsMipmapUpdate() {
		t.Fatal("flag still set after reading the color texture")
	}

	fbo.Texture(buffers.AttachmentPoint_Color1)
	if n := dev.Texture(tex.Id).MipmapGenerations; n != 0 {
		t.Fatalf("mipmaps generated %d times, want 0", n)
	}
}
