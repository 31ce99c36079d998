package gpu

import "fmt"

// Profile identifies the API flavour a context was created with
type Profile int32

const (
	Profile_Unknown Profile = iota
	// Desktop OpenGL core profile
	Profile_GL
	// OpenGL ES 2 without multisampling
	Profile_ES2
	// OpenGL ES 2 with APPLE_framebuffer_multisample
	Profile_ES2Apple
	Profile_ES3
	// OpenGL ES 2 through ANGLE, with ANGLE_framebuffer_multisample and ANGLE_framebuffer_blit
	Profile_ANGLE
)

func (p Profile) String() string {

	switch p {
	case Profile_GL:
		return "GL"
	case Profile_ES2:
		return "ES2"
	case Profile_ES2Apple:
		return "ES2Apple"
	case Profile_ES3:
		return "ES3"
	case Profile_ANGLE:
		return "ANGLE"
	default:
		return fmt.Sprintf("Profile(%d)", int32(p))
	}
}

// IsES2 reports whether the profile is limited to the ES2 framebuffer model:
// a single color attachment, no combined depth-stencil point and no draw buffers.
func (p Profile) IsES2() bool {
	return p == Profile_ES2 || p == Profile_ES2Apple || p == Profile_ANGLE
}

// ResolveStrategy is how multisampled content is copied into the single sampled attachments
type ResolveStrategy int32

const (
	ResolveStrategy_None ResolveStrategy = iota
	// One blit per color attachment, rebinding draw and read buffers for each
	ResolveStrategy_PerAttachment
	// A single color+depth blit of the whole framebuffer
	ResolveStrategy_SingleBlit
	// glResolveMultisampleFramebufferAPPLE
	ResolveStrategy_Apple
)

const CoverageSampleExtension = "GL_NV_framebuffer_multisample_coverage"

// Caps are the device limits and features the framebuffer layer depends on.
// They are queried once when a context is created and never again.
type Caps struct {
	Profile Profile

	MaxSamples          int32
	MaxColorAttachments int32

	// Number of attachment points, starting at COLOR_ATTACHMENT0, treated as color points
	ColorAttachmentPoints int32

	Multisample bool
	// NV coverage sampled antialiasing (CSAA)
	CoverageSample bool
	Blit           bool
	DrawBuffers    bool
	// Whether DEPTH_STENCIL_ATTACHMENT exists. When it does not, a packed depth-stencil
	// buffer is attached at both the depth and stencil points.
	DepthStencilAttachment bool
	// Unsized renderbuffer formats must be replaced by sized ones
	SizedRenderbufferFormats bool

	Resolve ResolveStrategy
}

// QueryCaps asks the device for its limits according to profile
func QueryCaps(dev Device, profile Profile) Caps {

	caps := Caps{
		Profile:               profile,
		MaxColorAttachments:   1,
		ColorAttachmentPoints: 1,
	}

	switch profile {

	case Profile_GL, Profile_ES3:
		caps.Multisample = true
		caps.Blit = true
		caps.DrawBuffers = true
		caps.DepthStencilAttachment = true
		caps.Resolve = ResolveStrategy_PerAttachment
		caps.ColorAttachmentPoints = 16
		caps.MaxSamples = dev.GetIntegerv(MAX_SAMPLES)
		caps.MaxColorAttachments = dev.GetIntegerv(MAX_COLOR_ATTACHMENTS)
		caps.CoverageSample = profile == Profile_GL && dev.HasExtension(CoverageSampleExtension)

	case Profile_ANGLE:
		caps.Multisample = true
		caps.Resolve = ResolveStrategy_SingleBlit
		caps.MaxSamples = dev.GetIntegerv(MAX_SAMPLES)

	case Profile_ES2Apple:
		caps.Multisample = true
		caps.Resolve = ResolveStrategy_Apple
		caps.MaxSamples = dev.GetIntegerv(MAX_SAMPLES)

	case Profile_ES2:
		caps.SizedRenderbufferFormats = true
	}

	if caps.MaxSamples < 0 {
		caps.MaxSamples = 0
	}

	return caps
}

// ClampSamples limits a requested sample count to what the device supports
func (c *Caps) ClampSamples(samples int32) int32 {

	if samples > c.MaxSamples {
		return c.MaxSamples
	}

	if samples < 0 {
		return 0
	}

	return samples
}

// IsColorAttachment reports whether an attachment enum falls in the color range of this device
func (c *Caps) IsColorAttachment(attachment Enum) bool {
	return attachment >= COLOR_ATTACHMENT0 && attachment < COLOR_ATTACHMENT0+Enum(c.ColorAttachmentPoints)
}
