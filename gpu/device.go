// Package gpu describes the graphics device the framebuffer layer talks to.
//
// Device is deliberately close to the OpenGL entry points the layer needs, so that
// an implementation is mostly a one line forward per method. Differences between
// API flavours (desktop, ES2, ES3, ANGLE) are not expressed here but in Caps,
// which is queried once per context and consulted by callers.
package gpu

type Device interface {
	GetIntegerv(pname Enum) int32
	HasExtension(name string) bool

	GenFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(target Enum, id uint32)
	FramebufferRenderbuffer(target, attachment, renderbufferTarget Enum, renderbuffer uint32)
	FramebufferTexture2D(target, attachment, textureTarget Enum, texture uint32, level int32)
	DrawBuffers(buffers []Enum)
	ReadBuffer(buffer Enum)
	CheckFramebufferStatus(target Enum) Enum

	GenRenderbuffer() uint32
	DeleteRenderbuffer(id uint32)
	BindRenderbuffer(target Enum, id uint32)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)
	RenderbufferStorageMultisample(target Enum, samples int32, internalFormat Enum, width, height int32)
	RenderbufferStorageMultisampleCoverage(target Enum, coverageSamples, colorSamples int32, internalFormat Enum, width, height int32)

	BlitFramebuffer(srcX0, srcY0, srcX1, srcY1, dstX0, dstY0, dstX1, dstY1 int32, mask Bitfield, filter Enum)
	ResolveMultisampleFramebuffer()

	GenTexture() uint32
	DeleteTexture(id uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, id uint32)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, pixelType Enum)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)

	Viewport(x, y, width, height int32)
}
