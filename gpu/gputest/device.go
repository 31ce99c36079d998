// Package gputest provides an in-memory gpu.Device for tests.
//
// The device keeps track of every object it hands out, the current bindings and
// the calls that matter to the framebuffer layer (blits, mipmap generation,
// integer queries). Completeness is evaluated with a reduced set of the OpenGL
// rules, enough to tell a well formed framebuffer from a broken one.
package gputest

import (
	"github.com/bloeys/nfbo/gpu"
	"golang.org/x/exp/maps"
)

var _ gpu.Device = &Device{}

type AttachmentRef struct {
	Renderbuffer  uint32
	Texture       uint32
	TextureTarget gpu.Enum
	Level         int32
}

type Framebuffer struct {
	Id          uint32
	Attachments map[gpu.Enum]AttachmentRef
	// nil until DrawBuffers is called on this framebuffer
	DrawBuffers []gpu.Enum
	ReadBuffer  gpu.Enum
}

type Renderbuffer struct {
	Id              uint32
	InternalFormat  gpu.Enum
	Width           int32
	Height          int32
	Samples         int32
	CoverageSamples int32
	HasStorage      bool
}

type Texture struct {
	Id                uint32
	Target            gpu.Enum
	InternalFormat    gpu.Enum
	Width             int32
	Height            int32
	Params            map[gpu.Enum]int32
	MipmapGenerations int
}

type Blit struct {
	ReadFramebuffer uint32
	DrawFramebuffer uint32
	ReadBuffer      gpu.Enum
	DrawBuffers     []gpu.Enum
	// Attachments of the draw framebuffer at the time of the blit
	DrawAttachments map[gpu.Enum]AttachmentRef
	Src             [4]int32
	Dst             [4]int32
	Mask            gpu.Bitfield
	Filter          gpu.Enum
}

type Device struct {
	MaxSamples          int32
	MaxColorAttachments int32
	Extensions          map[string]bool

	// Internal formats the device refuses to render to
	UnsupportedFormats map[gpu.Enum]bool
	// When set, any framebuffer with a multisampled attachment is reported unsupported
	RejectMultisample bool
	// When non-nil and returning a non zero status, replaces the computed completeness status
	StatusOverride func(framebuffer uint32) gpu.Enum

	DrawFramebuffer   uint32
	ReadFramebuffer   uint32
	BoundRenderbuffer uint32
	ActiveUnit        gpu.Enum
	BoundTextures     map[gpu.Enum]uint32
	ViewportRect      [4]int32

	IntegerQueries      map[gpu.Enum]int
	BindFramebufferCall int
	Blits               []Blit
	AppleResolves       int
	DoubleDeletes       int

	nextId        uint32
	framebuffers  map[uint32]*Framebuffer
	renderbuffers map[uint32]*Renderbuffer
	textures      map[uint32]*Texture
}

// NewDevice returns a device reporting maxSamples and 8 color attachments
func NewDevice(maxSamples int32) *Device {
	return &Device{
		MaxSamples:          maxSamples,
		MaxColorAttachments: 8,
		Extensions:          map[string]bool{},
		UnsupportedFormats:  map[gpu.Enum]bool{},
		ActiveUnit:          gpu.TEXTURE0,
		BoundTextures:       map[gpu.Enum]uint32{},
		IntegerQueries:      map[gpu.Enum]int{},
		framebuffers:        map[uint32]*Framebuffer{},
		renderbuffers:       map[uint32]*Renderbuffer{},
		textures:            map[uint32]*Texture{},
	}
}

func (d *Device) genId() uint32 {
	d.nextId++
	return d.nextId
}

func (d *Device) GetIntegerv(pname gpu.Enum) int32 {

	d.IntegerQueries[pname]++

	switch pname {
	case gpu.MAX_SAMPLES:
		return d.MaxSamples
	case gpu.MAX_COLOR_ATTACHMENTS:
		return d.MaxColorAttachments
	case gpu.NUM_EXTENSIONS:
		return int32(len(d.Extensions))
	default:
		return 0
	}
}

func (d *Device) HasExtension(name string) bool {
	return d.Extensions[name]
}

//
// Framebuffers
//

func (d *Device) GenFramebuffer() uint32 {
	id := d.genId()
	d.framebuffers[id] = &Framebuffer{
		Id:          id,
		Attachments: map[gpu.Enum]AttachmentRef{},
	}
	return id
}

func (d *Device) DeleteFramebuffer(id uint32) {

	if id == 0 {
		return
	}

	if _, ok := d.framebuffers[id]; !ok {
		d.DoubleDeletes++
		return
	}

	delete(d.framebuffers, id)

	if d.DrawFramebuffer == id {
		d.DrawFramebuffer = 0
	}

	if d.ReadFramebuffer == id {
		d.ReadFramebuffer = 0
	}
}

func (d *Device) BindFramebuffer(target gpu.Enum, id uint32) {

	d.BindFramebufferCall++

	switch target {
	case gpu.FRAMEBUFFER:
		d.DrawFramebuffer = id
		d.ReadFramebuffer = id
	case gpu.DRAW_FRAMEBUFFER:
		d.DrawFramebuffer = id
	case gpu.READ_FRAMEBUFFER:
		d.ReadFramebuffer = id
	}
}

func (d *Device) boundFramebuffer(target gpu.Enum) *Framebuffer {

	if target == gpu.READ_FRAMEBUFFER {
		return d.framebuffers[d.ReadFramebuffer]
	}

	return d.framebuffers[d.DrawFramebuffer]
}

func (d *Device) FramebufferRenderbuffer(target, attachment, renderbufferTarget gpu.Enum, renderbuffer uint32) {

	fb := d.boundFramebuffer(target)
	if fb == nil {
		return
	}

	if renderbuffer == 0 {
		delete(fb.Attachments, attachment)
		return
	}

	fb.Attachments[attachment] = AttachmentRef{Renderbuffer: renderbuffer}
}

func (d *Device) FramebufferTexture2D(target, attachment, textureTarget gpu.Enum, texture uint32, level int32) {

	fb := d.boundFramebuffer(target)
	if fb == nil {
		return
	}

	if texture == 0 {
		delete(fb.Attachments, attachment)
		return
	}

	fb.Attachments[attachment] = AttachmentRef{Texture: texture, TextureTarget: textureTarget, Level: level}
}

func (d *Device) DrawBuffers(buffers []gpu.Enum) {

	fb := d.boundFramebuffer(gpu.DRAW_FRAMEBUFFER)
	if fb == nil {
		return
	}

	fb.DrawBuffers = append([]gpu.Enum{}, buffers...)
}

func (d *Device) ReadBuffer(buffer gpu.Enum) {

	fb := d.boundFramebuffer(gpu.READ_FRAMEBUFFER)
	if fb == nil {
		return
	}

	fb.ReadBuffer = buffer
}

func (d *Device) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {

	id := d.DrawFramebuffer
	if target == gpu.READ_FRAMEBUFFER {
		id = d.ReadFramebuffer
	}

	if d.StatusOverride != nil {
		if status := d.StatusOverride(id); status != 0 {
			return status
		}
	}

	if id == 0 {
		return gpu.FRAMEBUFFER_COMPLETE
	}

	fb, ok := d.framebuffers[id]
	if !ok {
		return gpu.FRAMEBUFFER_UNDEFINED
	}

	if len(fb.Attachments) == 0 {
		return gpu.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}

	samples := int32(-1)
	for point, ref := range fb.Attachments {

		var format gpu.Enum
		var pointSamples int32

		if ref.Renderbuffer != 0 {

			rb, ok := d.renderbuffers[ref.Renderbuffer]
			if !ok || !rb.HasStorage {
				return gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
			}

			format = rb.InternalFormat
			pointSamples = rb.Samples
		} else {

			tex, ok := d.textures[ref.Texture]
			if !ok || tex.Width == 0 || tex.Height == 0 {
				return gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
			}

			format = tex.InternalFormat
		}

		if !formatFitsPoint(point, format) {
			return gpu.FRAMEBUFFER_INCOMPLETE_ATTACHMENT
		}

		if d.UnsupportedFormats[format] || (d.RejectMultisample && pointSamples > 0) {
			return gpu.FRAMEBUFFER_UNSUPPORTED
		}

		if samples != -1 && samples != pointSamples {
			return gpu.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE
		}
		samples = pointSamples
	}

	for _, buf := range fb.DrawBuffers {

		if buf == gpu.NONE {
			continue
		}

		if _, ok := fb.Attachments[buf]; !ok {
			return gpu.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER
		}
	}

	return gpu.FRAMEBUFFER_COMPLETE
}

func formatFitsPoint(point, format gpu.Enum) bool {

	switch point {
	case gpu.DEPTH_ATTACHMENT:
		return gpu.IsDepthFormat(format)
	case gpu.STENCIL_ATTACHMENT:
		return gpu.IsStencilFormat(format)
	case gpu.DEPTH_STENCIL_ATTACHMENT:
		return gpu.IsDepthFormat(format) && gpu.IsStencilFormat(format)
	default:
		return !gpu.IsDepthFormat(format) && !gpu.IsStencilFormat(format)
	}
}

//
// Renderbuffers
//

func (d *Device) GenRenderbuffer() uint32 {
	id := d.genId()
	d.renderbuffers[id] = &Renderbuffer{Id: id}
	return id
}

func (d *Device) DeleteRenderbuffer(id uint32) {

	if id == 0 {
		return
	}

	if _, ok := d.renderbuffers[id]; !ok {
		d.DoubleDeletes++
		return
	}

	delete(d.renderbuffers, id)

	if d.BoundRenderbuffer == id {
		d.BoundRenderbuffer = 0
	}
}

func (d *Device) BindRenderbuffer(target gpu.Enum, id uint32) {
	d.BoundRenderbuffer = id
}

func (d *Device) storage(internalFormat gpu.Enum, samples, coverage, width, height int32) {

	rb := d.renderbuffers[d.BoundRenderbuffer]
	if rb == nil {
		return
	}

	rb.InternalFormat = internalFormat
	rb.Samples = samples
	rb.CoverageSamples = coverage
	rb.Width = width
	rb.Height = height
	rb.HasStorage = true
}

func (d *Device) RenderbufferStorage(target, internalFormat gpu.Enum, width, height int32) {
	d.storage(internalFormat, 0, 0, width, height)
}

func (d *Device) RenderbufferStorageMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32) {
	d.storage(internalFormat, samples, 0, width, height)
}

func (d *Device) RenderbufferStorageMultisampleCoverage(target gpu.Enum, coverageSamples, colorSamples int32, internalFormat gpu.Enum, width, height int32) {
	d.storage(internalFormat, colorSamples, coverageSamples, width, height)
}

//
// Transfers
//

func (d *Device) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask gpu.Bitfield, filter gpu.Enum) {

	b := Blit{
		ReadFramebuffer: d.ReadFramebuffer,
		DrawFramebuffer: d.DrawFramebuffer,
		Src:             [4]int32{srcX0, srcY0, srcX1, srcY1},
		Dst:             [4]int32{dstX0, dstY0, dstX1, dstY1},
		Mask:            mask,
		Filter:          filter,
	}

	if fb := d.framebuffers[d.ReadFramebuffer]; fb != nil {
		b.ReadBuffer = fb.ReadBuffer
	}

	if fb := d.framebuffers[d.DrawFramebuffer]; fb != nil {
		b.DrawBuffers = append([]gpu.Enum{}, fb.DrawBuffers...)
		b.DrawAttachments = maps.Clone(fb.Attachments)
	}

	d.Blits = append(d.Blits, b)
}

func (d *Device) ResolveMultisampleFramebuffer() {
	d.AppleResolves++
}

//
// Textures
//

func (d *Device) GenTexture() uint32 {
	id := d.genId()
	d.textures[id] = &Texture{
		Id:     id,
		Params: map[gpu.Enum]int32{},
	}
	return id
}

func (d *Device) DeleteTexture(id uint32) {

	if id == 0 {
		return
	}

	if _, ok := d.textures[id]; !ok {
		d.DoubleDeletes++
		return
	}

	delete(d.textures, id)

	for target, bound := range d.BoundTextures {
		if bound == id {
			delete(d.BoundTextures, target)
		}
	}
}

func (d *Device) ActiveTexture(unit gpu.Enum) {
	d.ActiveUnit = unit
}

func (d *Device) BindTexture(target gpu.Enum, id uint32) {

	d.BoundTextures[target] = id

	if tex := d.textures[id]; tex != nil && tex.Target == 0 {
		tex.Target = target
	}
}

func bindingTarget(target gpu.Enum) gpu.Enum {

	if target >= gpu.TEXTURE_CUBE_MAP_POSITIVE_X && target <= gpu.TEXTURE_CUBE_MAP_NEGATIVE_Z {
		return gpu.TEXTURE_CUBE_MAP
	}

	return target
}

func (d *Device) boundTexture(target gpu.Enum) *Texture {
	return d.textures[d.BoundTextures[bindingTarget(target)]]
}

func (d *Device) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, pixelType gpu.Enum) {

	tex := d.boundTexture(target)
	if tex == nil || level != 0 {
		return
	}

	tex.InternalFormat = internalFormat
	tex.Width = width
	tex.Height = height
}

func (d *Device) TexParameteri(target, pname gpu.Enum, param int32) {

	tex := d.boundTexture(target)
	if tex == nil {
		return
	}

	tex.Params[pname] = param
}

func (d *Device) GenerateMipmap(target gpu.Enum) {

	tex := d.boundTexture(target)
	if tex == nil {
		return
	}

	tex.MipmapGenerations++
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.ViewportRect = [4]int32{x, y, width, height}
}

//
// Inspection
//

func (d *Device) Framebuffer(id uint32) *Framebuffer {
	return d.framebuffers[id]
}

func (d *Device) Renderbuffer(id uint32) *Renderbuffer {
	return d.renderbuffers[id]
}

func (d *Device) Texture(id uint32) *Texture {
	return d.textures[id]
}

func (d *Device) LiveFramebuffers() int {
	return len(d.framebuffers)
}

func (d *Device) LiveRenderbuffers() int {
	return len(d.renderbuffers)
}

func (d *Device) LiveTextures() int {
	return len(d.textures)
}

// ResetCalls forgets recorded blits, resolves and query counts but keeps all objects
func (d *Device) ResetCalls() {
	d.Blits = nil
	d.AppleResolves = 0
	d.BindFramebufferCall = 0
	d.IntegerQueries = map[gpu.Enum]int{}
}
