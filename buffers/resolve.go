package buffers

import (
	"github.com/bloeys/nfbo/gpu"
)

// markAsDirty records that the fbo was bound for drawing, so its textures need a resolve
// (when multisampled) and a mipmap refresh (when mipmapped) before they are read
func (fbo *Fbo) markAsDirty() {

	if fbo.MultisampleId != 0 {
		fbo.needsResolve = true
	}

	for _, p := range fbo.attachments.Points() {

		a, _ := fbo.attachments.Get(p)
		if a.Kind == AttachmentKind_Texture && a.tex.HasMipmapping() {
			fbo.needsMipmapUpdate = true
			return
		}
	}
}

// resolveTextures copies the multisample attachments into their primary textures.
// Does nothing unless the fbo was drawn to since the last resolve.
func (fbo *Fbo) resolveTextures() {

	if !fbo.needsResolve {
		return
	}
	fbo.needsResolve = false

	if fbo.MultisampleId == 0 {
		return
	}

	ctx := fbo.ctx
	ctx.PushFramebuffer(gpu.READ_FRAMEBUFFER, fbo.MultisampleId)
	ctx.PushFramebuffer(gpu.DRAW_FRAMEBUFFER, fbo.Id)
	defer ctx.PopFramebuffer(gpu.READ_FRAMEBUFFER)
	defer ctx.PopFramebuffer(gpu.DRAW_FRAMEBUFFER)

	switch ctx.Caps.Resolve {

	case gpu.ResolveStrategy_Apple:
		ctx.Dev.ResolveMultisampleFramebuffer()

	case gpu.ResolveStrategy_SingleBlit:
		ctx.Dev.BlitFramebuffer(0, 0, fbo.Width, fbo.Height, 0, 0, fbo.Width, fbo.Height, gpu.COLOR_BUFFER_BIT|gpu.DEPTH_BUFFER_BIT, gpu.NEAREST)

	default:
		fbo.resolvePerAttachment()
	}
}

// resolvePerAttachment blits one color attachment at a time, as a single blit only
// copies from the read buffer into every draw buffer
func (fbo *Fbo) resolvePerAttachment() {

	dev := fbo.ctx.Dev
	caps := &fbo.ctx.Caps

	resolved := false
	for _, p := range fbo.attachments.Points() {

		a, _ := fbo.attachments.Get(p)
		if a.Kind != AttachmentKind_Texture || !fbo.multisampleAttachments.Has(p) || !caps.IsColorAttachment(p.Enum()) {
			continue
		}

		dev.DrawBuffers([]gpu.Enum{p.Enum()})
		dev.ReadBuffer(p.Enum())
		dev.BlitFramebuffer(0, 0, fbo.Width, fbo.Height, 0, 0, fbo.Width, fbo.Height, gpu.COLOR_BUFFER_BIT|gpu.DEPTH_BUFFER_BIT, gpu.NEAREST)
		resolved = true
	}

	if !resolved {
		return
	}

	// The multisample framebuffer keeps drawing into every color attachment
	fbo.ctx.PushFramebuffer(gpu.DRAW_FRAMEBUFFER, fbo.MultisampleId)
	fbo.setAllDrawBuffers(&fbo.multisampleAttachments)
	fbo.ctx.PopFramebuffer(gpu.DRAW_FRAMEBUFFER)
}

// updateMipmaps regenerates the mipmaps of the texture at p if it is mipmapped and the
// fbo was drawn to since the last update
func (fbo *Fbo) updateMipmaps(p AttachmentPoint) {

	if !fbo.needsMipmapUpdate {
		return
	}
	fbo.needsMipmapUpdate = false

	a, ok := fbo.attachments.Get(p)
	if !ok || a.Kind != AttachmentKind_Texture || !a.tex.HasMipmapping() {
		return
	}

	ctx := fbo.ctx
	ctx.PushTextureBinding(a.tex.Target, a.tex.Id)
	ctx.Dev.GenerateMipmap(a.tex.Target)
	ctx.PopTextureBinding(a.tex.Target)
}
