// Package gldevice implements gpu.Device on top of desktop OpenGL 4.1 core.
//
// gl.Init must have been called on the current thread, with a current context,
// before any method is used.
package gldevice

import (
	"github.com/bloeys/nfbo/gpu"
	"github.com/bloeys/nfbo/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
)

var _ gpu.Device = &GlDevice{}

type GlDevice struct {
	extensions map[string]struct{}

	warnedCoverage bool
}

func (d *GlDevice) GetIntegerv(pname gpu.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (d *GlDevice) HasExtension(name string) bool {

	if d.extensions == nil {

		d.extensions = map[string]struct{}{}

		var count int32
		gl.GetIntegerv(gl.NUM_EXTENSIONS, &count)
		for i := int32(0); i < count; i++ {
			d.extensions[gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))] = struct{}{}
		}
	}

	_, ok := d.extensions[name]
	return ok
}

func (d *GlDevice) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (d *GlDevice) DeleteFramebuffer(id uint32) {
	gl.DeleteFramebuffers(1, &id)
}

func (d *GlDevice) BindFramebuffer(target gpu.Enum, id uint32) {
	gl.BindFramebuffer(uint32(target), id)
}

func (d *GlDevice) FramebufferRenderbuffer(target, attachment, renderbufferTarget gpu.Enum, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(uint32(target), uint32(attachment), uint32(renderbufferTarget), renderbuffer)
}

func (d *GlDevice) FramebufferTexture2D(target, attachment, textureTarget gpu.Enum, texture uint32, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(textureTarget), texture, level)
}

func (d *GlDevice) DrawBuffers(buffers []gpu.Enum) {

	if len(buffers) == 0 {
		return
	}

	bufs := make([]uint32, len(buffers))
	for i := 0; i < len(buffers); i++ {
		bufs[i] = uint32(buffers[i])
	}

	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

func (d *GlDevice) ReadBuffer(buffer gpu.Enum) {
	gl.ReadBuffer(uint32(buffer))
}

func (d *GlDevice) CheckFramebufferStatus(target gpu.Enum) gpu.Enum {
	return gpu.Enum(gl.CheckFramebufferStatus(uint32(target)))
}

func (d *GlDevice) GenRenderbuffer() uint32 {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return id
}

func (d *GlDevice) DeleteRenderbuffer(id uint32) {
	gl.DeleteRenderbuffers(1, &id)
}

func (d *GlDevice) BindRenderbuffer(target gpu.Enum, id uint32) {
	gl.BindRenderbuffer(uint32(target), id)
}

func (d *GlDevice) RenderbufferStorage(target, internalFormat gpu.Enum, width, height int32) {
	gl.RenderbufferStorage(uint32(target), uint32(internalFormat), width, height)
}

func (d *GlDevice) RenderbufferStorageMultisample(target gpu.Enum, samples int32, internalFormat gpu.Enum, width, height int32) {
	gl.RenderbufferStorageMultisample(uint32(target), samples, uint32(internalFormat), width, height)
}

// RenderbufferStorageMultisampleCoverage falls back to plain multisampling because the
// 4.1 core bindings do not load NV_framebuffer_multisample_coverage.
func (d *GlDevice) RenderbufferStorageMultisampleCoverage(target gpu.Enum, coverageSamples, colorSamples int32, internalFormat gpu.Enum, width, height int32) {

	if !d.warnedCoverage {
		d.warnedCoverage = true
		logging.WarnLog.Printf("coverage sampled renderbuffers are not available through the loaded bindings, using %d color samples instead of %d coverage samples\n", colorSamples, coverageSamples)
	}

	gl.RenderbufferStorageMultisample(uint32(target), colorSamples, uint32(internalFormat), width, height)
}

func (d *GlDevice) BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask gpu.Bitfield, filter gpu.Enum) {
	gl.BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1, uint32(mask), uint32(filter))
}

func (d *GlDevice) ResolveMultisampleFramebuffer() {
	logging.ErrLog.Println("ResolveMultisampleFramebuffer is only available on OpenGL ES 2 with APPLE_framebuffer_multisample")
}

func (d *GlDevice) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (d *GlDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *GlDevice) ActiveTexture(unit gpu.Enum) {
	gl.ActiveTexture(uint32(unit))
}

func (d *GlDevice) BindTexture(target gpu.Enum, id uint32) {
	gl.BindTexture(uint32(target), id)
}

func (d *GlDevice) TexImage2D(target gpu.Enum, level int32, internalFormat gpu.Enum, width, height int32, format, pixelType gpu.Enum) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(pixelType), nil)
}

func (d *GlDevice) TexParameteri(target, pname gpu.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (d *GlDevice) GenerateMipmap(target gpu.Enum) {
	gl.GenerateMipmap(uint32(target))
}

func (d *GlDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func NewGlDevice() *GlDevice {
	return &GlDevice{}
}
