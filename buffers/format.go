package buffers

import (
	"github.com/bloeys/nfbo/assert"
	"github.com/bloeys/nfbo/gpu"
)

// DefaultColorInternalFormat is the color format used for renderbuffers when none is given
func DefaultColorInternalFormat(profile gpu.Profile) gpu.Enum {

	switch profile {
	case gpu.Profile_ES2, gpu.Profile_ES2Apple, gpu.Profile_ES3, gpu.Profile_ANGLE:
		return gpu.RGBA
	default:
		return gpu.RGBA8
	}
}

func DefaultDepthInternalFormat() gpu.Enum {
	return gpu.DEPTH_COMPONENT24
}

func DefaultColorTextureFormat(alpha bool) TextureFormat {

	if alpha {
		return NewTextureFormat(gpu.RGBA8)
	}

	return NewTextureFormat(gpu.RGB8)
}

// DefaultDepthTextureFormat samples depth into every color channel. The swizzle is
// dropped on profiles that lack it.
func DefaultDepthTextureFormat() TextureFormat {
	return NewTextureFormat(gpu.DEPTH_COMPONENT24).WithSwizzle(gpu.RED, gpu.RED, gpu.RED, gpu.ONE)
}

type depthStencilFormat struct {
	internalFormat gpu.Enum
	pixelType      gpu.Enum
}

var (
	es2DepthStencilFormats = map[gpu.Enum]depthStencilFormat{
		gpu.DEPTH24_STENCIL8:  {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
		gpu.DEPTH_STENCIL:     {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
		gpu.DEPTH_COMPONENT:   {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
		gpu.DEPTH_COMPONENT24: {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
	}

	glDepthStencilFormats = map[gpu.Enum]depthStencilFormat{
		gpu.DEPTH24_STENCIL8:   {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
		gpu.DEPTH32F_STENCIL8:  {gpu.DEPTH32F_STENCIL8, gpu.FLOAT_32_UNSIGNED_INT_24_8_REV},
		gpu.DEPTH_COMPONENT24:  {gpu.DEPTH24_STENCIL8, gpu.UNSIGNED_INT_24_8},
		gpu.DEPTH_COMPONENT32F: {gpu.DEPTH32F_STENCIL8, gpu.FLOAT_32_UNSIGNED_INT_24_8_REV},
	}
)

// DepthStencilFormats returns the packed depth+stencil complement of a depth format,
// e.g. DEPTH_COMPONENT24 -> DEPTH24_STENCIL8, along with its pixel transfer type.
// ok is false when the profile has no complement for depthInternalFormat.
func DepthStencilFormats(profile gpu.Profile, depthInternalFormat gpu.Enum) (internalFormat, pixelType gpu.Enum, ok bool) {

	table := glDepthStencilFormats
	if profile.IsES2() {
		table = es2DepthStencilFormats
	}

	f, ok := table[depthInternalFormat]
	return f.internalFormat, f.pixelType, ok
}

// Format describes the attachments and multisampling of an Fbo. It is pure
// configuration: nothing here creates or deletes device objects. Setters return the
// format so calls can be chained.
type Format struct {
	samples         int32
	coverageSamples int32

	colorTexture       bool
	colorTextureFormat TextureFormat

	depthTexture       bool
	depthTextureFormat TextureFormat

	depthBuffer               bool
	depthBufferInternalFormat gpu.Enum

	stencilBuffer bool

	label string

	attachments            AttachmentStore
	multisampleAttachments AttachmentStore
}

// NewFormat returns the default format: an RGBA8 color texture and a 24 bit depth
// renderbuffer, without stencil or multisampling.
func NewFormat() *Format {
	return &Format{
		colorTexture:              true,
		colorTextureFormat:        DefaultColorTextureFormat(true),
		depthTextureFormat:        DefaultDepthTextureFormat(),
		depthBuffer:               true,
		depthBufferInternalFormat: DefaultDepthInternalFormat(),
	}
}

// SetSamples sets the number of MSAA samples. Values above the device maximum are clamped.
func (f *Format) SetSamples(samples int32) *Format {
	f.samples = samples
	return f
}

// SetCoverageSamples sets the number of CSAA coverage samples, used only on devices with
// coverage sampling and only when greater than the MSAA sample count.
func (f *Format) SetCoverageSamples(coverageSamples int32) *Format {
	f.coverageSamples = coverageSamples
	return f
}

// SetColorTexture enables the default color texture at color attachment 0
func (f *Format) SetColorTexture(format TextureFormat) *Format {
	f.colorTexture = true
	f.colorTextureFormat = format
	return f
}

// DisableColor disables the default color texture
func (f *Format) DisableColor() *Format {
	f.colorTexture = false
	return f
}

// SetDepthBuffer enables the default depth renderbuffer. A depth texture, when also
// enabled, takes precedence.
func (f *Format) SetDepthBuffer(internalFormat gpu.Enum) *Format {
	f.depthBuffer = true
	f.depthBufferInternalFormat = internalFormat
	return f
}

// SetDepthTexture enables a depth texture in place of the default depth renderbuffer
func (f *Format) SetDepthTexture(format TextureFormat) *Format {
	f.depthTexture = true
	f.depthTextureFormat = format
	return f
}

// DisableDepth disables both the default depth renderbuffer and depth texture
func (f *Format) DisableDepth() *Format {
	f.depthBuffer = false
	f.depthTexture = false
	return f
}

// SetStencilBuffer enables or disables the default stencil buffer. With a depth
// renderbuffer both share one packed depth-stencil renderbuffer.
func (f *Format) SetStencilBuffer(stencil bool) *Format {
	f.stencilBuffer = stencil
	return f
}

func (f *Format) SetLabel(label string) *Format {
	f.label = label
	return f
}

// AttachRenderbuffer places rb at p, replacing whatever was there. multisampleRb, when
// not nil, is used as the multisample mirror of p instead of an automatically created one.
// Both remain owned by the caller.
func (f *Format) AttachRenderbuffer(p AttachmentPoint, rb *Renderbuffer, multisampleRb *Renderbuffer) *Format {

	assert.T(p.IsValid(), "invalid attachment point "+p.String())
	assert.T(rb != nil, "attaching nil renderbuffer at "+p.String())

	f.attachments.Set(p, BorrowedRenderbuffer(rb))
	f.setMultisample(p, multisampleRb)
	return f
}

// AttachTexture places tex at p, replacing whatever was there. multisampleRb, when not nil,
// is used as the multisample mirror of p. Both remain owned by the caller.
func (f *Format) AttachTexture(p AttachmentPoint, tex *Texture, multisampleRb *Renderbuffer) *Format {

	assert.T(p.IsValid(), "invalid attachment point "+p.String())
	assert.T(tex != nil, "attaching nil texture at "+p.String())

	f.attachments.Set(p, BorrowedTexture(tex))
	f.setMultisample(p, multisampleRb)
	return f
}

func (f *Format) setMultisample(p AttachmentPoint, multisampleRb *Renderbuffer) {

	if multisampleRb == nil {
		f.multisampleAttachments.Remove(p)
		return
	}

	f.multisampleAttachments.Set(p, BorrowedRenderbuffer(multisampleRb))
}

// RemoveAttachment clears p and its multisample mirror
func (f *Format) RemoveAttachment(p AttachmentPoint) *Format {
	f.attachments.Remove(p)
	f.multisampleAttachments.Remove(p)
	return f
}

func (f *Format) Samples() int32 {
	return f.samples
}

func (f *Format) CoverageSamples() int32 {
	return f.coverageSamples
}

func (f *Format) HasColorTexture() bool {
	return f.colorTexture
}

func (f *Format) ColorTextureFormat() TextureFormat {
	return f.colorTextureFormat
}

func (f *Format) HasDepthTexture() bool {
	return f.depthTexture
}

func (f *Format) DepthTextureFormat() TextureFormat {
	return f.depthTextureFormat
}

func (f *Format) HasDepthBuffer() bool {
	return f.depthBuffer
}

func (f *Format) DepthBufferInternalFormat() gpu.Enum {
	return f.depthBufferInternalFormat
}

func (f *Format) HasStencilBuffer() bool {
	return f.stencilBuffer
}

func (f *Format) Label() string {
	return f.label
}

func (f *Format) Attachment(p AttachmentPoint) (Attachment, bool) {
	return f.attachments.Get(p)
}

func (f *Format) MultisampleAttachment(p AttachmentPoint) (Attachment, bool) {
	return f.multisampleAttachments.Get(p)
}

// AttachmentPoints returns the points with an explicit attachment, in ascending order
func (f *Format) AttachmentPoints() []AttachmentPoint {
	return f.attachments.Points()
}

func (f *Format) Clone() *Format {
	c := *f
	c.attachments = f.attachments.clone()
	c.multisampleAttachments = f.multisampleAttachments.clone()
	return &c
}
