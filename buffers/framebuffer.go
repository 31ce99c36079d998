package buffers

import (
	"fmt"
	"strings"

	"github.com/bloeys/nfbo/gpu"
	"github.com/bloeys/nfbo/logging"
)

// Fbo is an offscreen render target.
//
// When multisampling is requested and available, drawing goes to a second framebuffer
// whose attachments are multisampled renderbuffers mirroring the primary attachments.
// Its content is resolved into the primary attachments only when one of them is read
// through ColorTexture, DepthTexture, Texture or BindTexture. Mipmaps of mipmapped
// texture attachments are regenerated at the same moment.
type Fbo struct {
	Id            uint32
	MultisampleId uint32
	Width         int32
	Height        int32

	ctx    *Context
	format Format
	label  string

	attachments            AttachmentStore
	multisampleAttachments AttachmentStore

	needsResolve      bool
	needsMipmapUpdate bool
	deleted           bool
}

// NewFboSimple creates an fbo with a color texture (with or without alpha) and
// optional depth and stencil buffers
func NewFboSimple(ctx *Context, width, height int32, alpha, depth, stencil bool) (*Fbo, error) {

	format := NewFormat().SetColorTexture(DefaultColorTextureFormat(alpha)).SetStencilBuffer(stencil)
	if !depth {
		format.DisableDepth()
	}

	return NewFbo(ctx, width, height, format)
}

// NewFbo creates an fbo from format, which is copied and not modified.
//
// The primary framebuffer is validated by the device and an *InvalidSpecificationError is
// returned when it is incomplete, in which case everything created for it is freed. An
// incomplete multisample framebuffer is not an error: the fbo is created without
// multisampling.
func NewFbo(ctx *Context, width, height int32, format *Format) (*Fbo, error) {

	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	if format == nil {
		format = NewFormat()
	}

	fbo := &Fbo{
		Width:  width,
		Height: height,
		ctx:    ctx,
		format: *format.Clone(),
	}

	if err := fbo.init(); err != nil {
		fbo.discard()
		return nil, err
	}

	ctx.framebufferCreated(fbo)
	return fbo, nil
}

func (fbo *Fbo) init() error {

	dev := fbo.ctx.Dev

	fbo.Id = dev.GenFramebuffer()
	if fbo.Id == 0 {
		return fmt.Errorf("failed to generate framebuffer: %w", ErrAllocationFailed)
	}

	fbo.ctx.PushFramebuffer(gpu.FRAMEBUFFER, fbo.Id)
	defer fbo.ctx.PopFramebuffer(gpu.FRAMEBUFFER)

	// Afterwards the format attachments are exactly what gets attached
	if err := fbo.initFormatAttachments(); err != nil {
		return err
	}

	useMsaa, useCsaa := fbo.initMultisamplingSettings()
	if useMsaa || useCsaa {
		fbo.initMultisample(useCsaa)
	}

	for _, p := range fbo.format.attachments.Points() {

		a, _ := fbo.format.attachments.Get(p)
		switch a.Kind {

		case AttachmentKind_Renderbuffer:
			dev.FramebufferRenderbuffer(gpu.FRAMEBUFFER, p.Enum(), gpu.RENDERBUFFER, a.Id())

		case AttachmentKind_Texture:
			target := a.tex.Target
			if target == gpu.TEXTURE_CUBE_MAP {
				target = gpu.TEXTURE_CUBE_MAP_POSITIVE_X
			}
			dev.FramebufferTexture2D(gpu.FRAMEBUFFER, p.Enum(), target, a.Id(), 0)
		}

		fbo.attachments.Set(p, a)
	}

	fbo.setAllDrawBuffers(&fbo.attachments)

	if err := checkStatus(dev); err != nil {
		return err
	}

	fbo.needsResolve = false
	fbo.needsMipmapUpdate = false
	fbo.label = fbo.format.label

	return nil
}

// initFormatAttachments creates the default attachments the format asks for, unless
// something is already attached at the same point
func (fbo *Fbo) initFormatAttachments() error {

	f := &fbo.format
	caps := &fbo.ctx.Caps

	if f.colorTexture && !f.attachments.Has(AttachmentPoint_Color0) {

		tex, err := NewTexture2D(fbo.ctx, fbo.Width, fbo.Height, f.colorTextureFormat)
		if err != nil {
			return err
		}

		f.attachments.Set(AttachmentPoint_Color0, OwnedTexture(tex))
	}

	preexistingDepth := f.attachments.Has(AttachmentPoint_Depth) ||
		(caps.DepthStencilAttachment && f.attachments.Has(AttachmentPoint_DepthStencil))

	if f.depthTexture && !preexistingDepth {

		tex, err := NewTexture2D(fbo.ctx, fbo.Width, fbo.Height, f.depthTextureFormat)
		if err != nil {
			return err
		}

		f.attachments.Set(AttachmentPoint_Depth, OwnedTexture(tex))

	} else if f.depthBuffer && !preexistingDepth {

		if !f.stencilBuffer {

			rb, err := NewRenderbuffer(fbo.ctx, fbo.Width, fbo.Height, f.depthBufferInternalFormat)
			if err != nil {
				return err
			}

			f.attachments.Set(AttachmentPoint_Depth, OwnedRenderbuffer(rb))
			return nil
		}

		internalFormat, _, ok := DepthStencilFormats(caps.Profile, f.depthBufferInternalFormat)
		if !ok {
			logging.WarnLog.Printf("no depth-stencil format pairs with depth format %s, using %s\n", f.depthBufferInternalFormat, gpu.DEPTH24_STENCIL8)
			internalFormat = gpu.DEPTH24_STENCIL8
		}

		rb, err := NewRenderbuffer(fbo.ctx, fbo.Width, fbo.Height, internalFormat)
		if err != nil {
			return err
		}

		if caps.DepthStencilAttachment {
			f.attachments.Set(AttachmentPoint_DepthStencil, OwnedRenderbuffer(rb))
		} else {
			f.attachments.Set(AttachmentPoint_Depth, OwnedRenderbuffer(rb))
			f.attachments.Set(AttachmentPoint_Stencil, OwnedRenderbuffer(rb))
		}

	} else if f.stencilBuffer && !f.attachments.Has(AttachmentPoint_Stencil) && !f.attachments.Has(AttachmentPoint_DepthStencil) {

		rb, err := NewRenderbuffer(fbo.ctx, fbo.Width, fbo.Height, gpu.STENCIL_INDEX8)
		if err != nil {
			return err
		}

		f.attachments.Set(AttachmentPoint_Stencil, OwnedRenderbuffer(rb))
	}

	return nil
}

// initMultisamplingSettings decides between CSAA and MSAA and clamps the sample count
func (fbo *Fbo) initMultisamplingSettings() (useMsaa, useCsaa bool) {

	f := &fbo.format
	caps := &fbo.ctx.Caps

	if !caps.Multisample {
		f.samples = 0
		f.coverageSamples = 0
		return false, false
	}

	useCsaa = caps.CoverageSample && f.coverageSamples > f.samples
	useMsaa = !useCsaa && (f.coverageSamples > 0 || f.samples > 0)

	f.samples = caps.ClampSamples(f.samples)

	return useMsaa, useCsaa
}

// initMultisample creates the multisample framebuffer with a mirror renderbuffer for every
// primary attachment that has no explicit mirror. If the device rejects it multisampling
// is dropped.
func (fbo *Fbo) initMultisample(csaa bool) {

	f := &fbo.format
	dev := fbo.ctx.Dev

	fbo.MultisampleId = dev.GenFramebuffer()
	if fbo.MultisampleId == 0 {
		logging.WarnLog.Println("failed to generate multisample framebuffer, continuing without multisampling")
		return
	}

	fbo.ctx.PushFramebuffer(gpu.FRAMEBUFFER, fbo.MultisampleId)
	defer fbo.ctx.PopFramebuffer(gpu.FRAMEBUFFER)

	coverageSamples := int32(0)
	if csaa {
		coverageSamples = f.coverageSamples
	}

	for _, p := range f.attachments.Points() {

		if f.multisampleAttachments.Has(p) {
			continue
		}

		a, _ := f.attachments.Get(p)
		rb, err := NewMultisampleRenderbuffer(fbo.ctx, fbo.Width, fbo.Height, a.InternalFormat(), f.samples, coverageSamples)
		if err != nil {
			logging.WarnLog.Printf("failed to create multisample mirror for %s, continuing without multisampling. Err=%v\n", p, err)
			fbo.discardMultisample()
			return
		}

		f.multisampleAttachments.Set(p, OwnedRenderbuffer(rb))
	}

	for _, p := range f.multisampleAttachments.Points() {
		a, _ := f.multisampleAttachments.Get(p)
		dev.FramebufferRenderbuffer(gpu.FRAMEBUFFER, p.Enum(), gpu.RENDERBUFFER, a.Id())
		fbo.multisampleAttachments.Set(p, a)
	}

	fbo.setAllDrawBuffers(&fbo.multisampleAttachments)

	if err := checkStatus(dev); err != nil {
		logging.WarnLog.Printf("multisample framebuffer rejected by device, continuing without multisampling. Err=%v\n", err)
		fbo.discardMultisample()
	}
}

func (fbo *Fbo) discardMultisample() {

	fbo.multisampleAttachments.Clear()
	fbo.format.multisampleAttachments.Release()

	if fbo.MultisampleId != 0 {
		fbo.ctx.Dev.DeleteFramebuffer(fbo.MultisampleId)
		fbo.ctx.framebufferIdDeleted(fbo.MultisampleId)
		fbo.MultisampleId = 0
	}
}

// setAllDrawBuffers declares every color attachment in store as a draw buffer of the
// bound framebuffer
func (fbo *Fbo) setAllDrawBuffers(store *AttachmentStore) {

	caps := &fbo.ctx.Caps
	if !caps.DrawBuffers {
		return
	}

	drawBuffers := make([]gpu.Enum, 0, 4)
	for _, p := range store.Points() {
		if caps.IsColorAttachment(p.Enum()) {
			drawBuffers = append(drawBuffers, p.Enum())
		}
	}

	if len(drawBuffers) == 0 {
		drawBuffers = append(drawBuffers, gpu.NONE)
	}

	fbo.ctx.Dev.DrawBuffers(drawBuffers)
}

// discard frees whatever a failed construction created
func (fbo *Fbo) discard() {

	dev := fbo.ctx.Dev

	fbo.attachments.Clear()
	fbo.format.attachments.Release()
	fbo.discardMultisample()

	if fbo.Id != 0 {
		dev.DeleteFramebuffer(fbo.Id)
		fbo.ctx.framebufferIdDeleted(fbo.Id)
		fbo.Id = 0
	}

	fbo.deleted = true
}

// Delete frees both framebuffers and every attachment the fbo owns. Attachments supplied
// by the caller are left alone. Calling Delete again does nothing.
func (fbo *Fbo) Delete() {

	if fbo.deleted {
		return
	}

	fbo.ctx.framebufferDeleted(fbo)

	dev := fbo.ctx.Dev
	dev.DeleteFramebuffer(fbo.Id)
	fbo.ctx.framebufferIdDeleted(fbo.Id)
	fbo.Id = 0

	if fbo.MultisampleId != 0 {
		dev.DeleteFramebuffer(fbo.MultisampleId)
		fbo.ctx.framebufferIdDeleted(fbo.MultisampleId)
		fbo.MultisampleId = 0
	}

	fbo.attachments.Release()
	fbo.multisampleAttachments.Release()
	fbo.format.attachments.Clear()
	fbo.format.multisampleAttachments.Clear()

	fbo.deleted = true
}

//
// Binding
//

// BindFramebuffer binds the fbo to target (FRAMEBUFFER, DRAW_FRAMEBUFFER or READ_FRAMEBUFFER)
func (fbo *Fbo) BindFramebuffer(target gpu.Enum) {
	fbo.ctx.BindFramebuffer(fbo, target)
}

// Bind binds the fbo for drawing and reading
func (fbo *Fbo) Bind() {
	fbo.ctx.BindFramebuffer(fbo, gpu.FRAMEBUFFER)
}

func (fbo *Fbo) BindWithViewport() {
	fbo.ctx.BindFramebuffer(fbo, gpu.FRAMEBUFFER)
	fbo.ctx.Dev.Viewport(0, 0, fbo.Width, fbo.Height)
}

func (fbo *Fbo) UnbindFramebuffer() {
	fbo.ctx.UnbindFramebuffer()
}

func (fbo *Fbo) UnBindWithViewport(width, height int32) {
	fbo.ctx.UnbindFramebuffer()
	fbo.ctx.Dev.Viewport(0, 0, width, height)
}

// prepareForBind returns the framebuffer to bind to target, and updates dirty state
func (fbo *Fbo) prepareForBind(target gpu.Enum) uint32 {

	if target == gpu.READ_FRAMEBUFFER {
		fbo.resolveTextures()
		return fbo.Id
	}

	fbo.markAsDirty()
	if fbo.MultisampleId != 0 {
		return fbo.MultisampleId
	}

	return fbo.Id
}

//
// Accessors
//

// ColorTexture returns the 2D texture at color attachment 0, resolved and with up to date
// mipmaps, or nil if there is none
func (fbo *Fbo) ColorTexture() *Texture {

	a, ok := fbo.attachments.Get(AttachmentPoint_Color0)
	if fbo.deleted || !ok || a.Kind != AttachmentKind_Texture || !a.tex.Is2D() {
		return nil
	}

	fbo.resolveTextures()
	fbo.updateMipmaps(AttachmentPoint_Color0)
	return a.tex
}

// DepthTexture returns the 2D texture at the depth (or depth-stencil) attachment,
// resolved and with up to date mipmaps, or nil if there is none
func (fbo *Fbo) DepthTexture() *Texture {

	if fbo.deleted {
		return nil
	}

	p := AttachmentPoint_Depth
	a, ok := fbo.attachments.Get(p)
	if !ok && fbo.ctx.Caps.DepthStencilAttachment {
		p = AttachmentPoint_DepthStencil
		a, ok = fbo.attachments.Get(p)
	}

	if !ok || a.Kind != AttachmentKind_Texture || !a.tex.Is2D() {
		return nil
	}

	fbo.resolveTextures()
	fbo.updateMipmaps(p)
	return a.tex
}

// Texture returns the texture of any shape at p, resolved and with up to date mipmaps,
// or nil if there is none
func (fbo *Fbo) Texture(p AttachmentPoint) *Texture {

	a, ok := fbo.attachments.Get(p)
	if fbo.deleted || !ok || a.Kind != AttachmentKind_Texture {
		return nil
	}

	fbo.resolveTextures()
	fbo.updateMipmaps(p)
	return a.tex
}

// BindTexture binds the texture at p to unit. Does nothing if there is none.
func (fbo *Fbo) BindTexture(unit uint32, p AttachmentPoint) {

	if tex := fbo.Texture(p); tex != nil {
		tex.Bind(unit)
	}
}

func (fbo *Fbo) UnbindTexture(unit uint32, p AttachmentPoint) {

	if tex := fbo.Texture(p); tex != nil {
		tex.UnBind(unit)
	}
}

// Attachment returns what is attached at p on the primary framebuffer, without resolving
func (fbo *Fbo) Attachment(p AttachmentPoint) (Attachment, bool) {
	return fbo.attachments.Get(p)
}

// MultisampleAttachment returns the multisample mirror of p, if any
func (fbo *Fbo) MultisampleAttachment(p AttachmentPoint) (Attachment, bool) {
	return fbo.multisampleAttachments.Get(p)
}

// Points returns the attachment points of the primary framebuffer in ascending order
func (fbo *Fbo) Points() []AttachmentPoint {
	return fbo.attachments.Points()
}

func (fbo *Fbo) TextureCount() int {
	return fbo.attachments.Count(AttachmentKind_Texture)
}

func (fbo *Fbo) RenderbufferCount() int {
	return fbo.attachments.Count(AttachmentKind_Renderbuffer)
}

func (fbo *Fbo) HasMultisample() bool {
	return fbo.MultisampleId != 0
}

// Samples returns the MSAA sample count in effect after clamping
func (fbo *Fbo) Samples() int32 {

	if fbo.MultisampleId == 0 {
		return 0
	}

	return fbo.format.samples
}

func (fbo *Fbo) CoverageSamples() int32 {

	if fbo.MultisampleId == 0 {
		return 0
	}

	return fbo.format.coverageSamples
}

// Format returns the settings the fbo was built with, samples clamped. Attachments the
// fbo owns are left out, so a new fbo built from it creates its own.
func (fbo *Fbo) Format() *Format {

	f := fbo.format.Clone()
	f.attachments = fbo.format.attachments.borrowedOnly()
	f.multisampleAttachments = fbo.format.multisampleAttachments.borrowedOnly()

	return f
}

func (fbo *Fbo) NeedsResolve() bool {
	return fbo.needsResolve
}

func (fbo *Fbo) NeedsMipmapUpdate() bool {
	return fbo.needsMipmapUpdate
}

func (fbo *Fbo) IsDeleted() bool {
	return fbo.deleted
}

func (fbo *Fbo) Label() string {
	return fbo.label
}

func (fbo *Fbo) SetLabel(label string) {
	fbo.label = label
}

func (fbo *Fbo) String() string {

	b := strings.Builder{}

	fmt.Fprintf(&b, "ID: %d", fbo.Id)
	if fbo.MultisampleId != 0 {
		fmt.Fprintf(&b, "  Multisample ID: %d", fbo.MultisampleId)
	}
	b.WriteByte('\n')

	if fbo.label != "" {
		fmt.Fprintf(&b, "  Label: %s\n", fbo.label)
	}
	fmt.Fprintf(&b, "   Dims: %d x %d\n", fbo.Width, fbo.Height)

	for _, p := range fbo.attachments.Points() {
		a, _ := fbo.attachments.Get(p)
		fmt.Fprintf(&b, "-%s Attachment: %s\n  %s\n", a.Kind, p, a)
	}

	return b.String()
}
