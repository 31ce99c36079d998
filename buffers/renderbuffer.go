package buffers

import (
	"fmt"
	"strings"

	"github.com/bloeys/nfbo/gpu"
)

// Renderbuffer is 2D pixel storage that can be attached to a framebuffer but not sampled
type Renderbuffer struct {
	Id              uint32
	Width           int32
	Height          int32
	InternalFormat  gpu.Enum
	Samples         int32
	CoverageSamples int32
	Label           string

	ctx *Context
}

func (rb *Renderbuffer) Bind() {
	rb.ctx.BindRenderbuffer(rb.Id)
}

func (rb *Renderbuffer) UnBind() {
	rb.ctx.BindRenderbuffer(0)
}

func (rb *Renderbuffer) SetLabel(label string) {
	rb.Label = label
}

// Delete frees the device renderbuffer. Calling it again does nothing.
func (rb *Renderbuffer) Delete() {

	if rb.Id == 0 {
		return
	}

	rb.ctx.Dev.DeleteRenderbuffer(rb.Id)
	rb.ctx.renderbufferDeleted(rb.Id)
	rb.Id = 0
}

func (rb *Renderbuffer) String() string {

	b := strings.Builder{}
	fmt.Fprintf(&b, "ID: %d", rb.Id)
	if rb.Label != "" {
		fmt.Fprintf(&b, "; Label: %s", rb.Label)
	}
	fmt.Fprintf(&b, "; Intrnl Fmt: %s; Dims: %d x %d", rb.InternalFormat, rb.Width, rb.Height)
	if rb.Samples > 0 || rb.CoverageSamples > 0 {
		fmt.Fprintf(&b, "; Samples: %d; Coverage Samples: %d", rb.Samples, rb.CoverageSamples)
	}

	return b.String()
}

// sizedRenderbufferFormat replaces the unsized formats that ES2 does not accept for renderbuffers
func sizedRenderbufferFormat(internalFormat gpu.Enum) gpu.Enum {

	switch internalFormat {
	case gpu.RGBA:
		return gpu.RGBA8
	case gpu.RGB:
		return gpu.RGB8
	case gpu.DEPTH_COMPONENT:
		return gpu.DEPTH_COMPONENT24
	default:
		return internalFormat
	}
}

func NewRenderbuffer(ctx *Context, width, height int32, internalFormat gpu.Enum) (*Renderbuffer, error) {
	return NewMultisampleRenderbuffer(ctx, width, height, internalFormat, 0, 0)
}

// NewMultisampleRenderbuffer creates a renderbuffer with storage for samples color samples.
// samples is clamped to the device maximum, and coverageSamples is ignored unless the
// device supports coverage sampled antialiasing.
func NewMultisampleRenderbuffer(ctx *Context, width, height int32, internalFormat gpu.Enum, samples, coverageSamples int32) (*Renderbuffer, error) {

	rb := &Renderbuffer{
		Width:           width,
		Height:          height,
		InternalFormat:  internalFormat,
		Samples:         ctx.Caps.ClampSamples(samples),
		CoverageSamples: coverageSamples,
		ctx:             ctx,
	}

	if !ctx.Caps.CoverageSample || rb.CoverageSamples < 0 {
		rb.CoverageSamples = 0
	}

	if ctx.Caps.SizedRenderbufferFormats {
		rb.InternalFormat = sizedRenderbufferFormat(rb.InternalFormat)
	}

	rb.Id = ctx.Dev.GenRenderbuffer()
	if rb.Id == 0 {
		return nil, fmt.Errorf("failed to generate renderbuffer: %w", ErrAllocationFailed)
	}

	dev := ctx.Dev
	ctx.PushRenderbuffer(rb.Id)

	if rb.CoverageSamples > 0 {
		dev.RenderbufferStorageMultisampleCoverage(gpu.RENDERBUFFER, rb.CoverageSamples, rb.Samples, rb.InternalFormat, rb.Width, rb.Height)
	} else if rb.Samples > 0 {
		dev.RenderbufferStorageMultisample(gpu.RENDERBUFFER, rb.Samples, rb.InternalFormat, rb.Width, rb.Height)
	} else {
		dev.RenderbufferStorage(gpu.RENDERBUFFER, rb.InternalFormat, rb.Width, rb.Height)
	}

	ctx.PopRenderbuffer()
	return rb, nil
}
