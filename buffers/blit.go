package buffers

import (
	"github.com/bloeys/nfbo/gpu"
)

// Area is an integer rectangle in framebuffer pixels. X2 and Y2 are exclusive.
type Area struct {
	X1, Y1 int32
	X2, Y2 int32
}

func NewArea(x1, y1, x2, y2 int32) Area {
	return Area{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// AreaFromSize returns the area starting at the origin with the given size
func AreaFromSize(width, height int32) Area {
	return Area{X2: width, Y2: height}
}

func (a Area) Width() int32 {
	return a.X2 - a.X1
}

func (a Area) Height() int32 {
	return a.Y2 - a.Y1
}

// Bounds returns the whole fbo as an area
func (fbo *Fbo) Bounds() Area {
	return AreaFromSize(fbo.Width, fbo.Height)
}

// BlitTo copies srcArea of this fbo into dstArea of dst. The areas may differ in size,
// in which case filter (NEAREST or LINEAR) decides the sampling. Multisampled content
// is resolved first.
func (fbo *Fbo) BlitTo(dst *Fbo, srcArea, dstArea Area, filter gpu.Enum, mask gpu.Bitfield) error {

	if fbo.deleted || dst.deleted {
		return ErrFboDeleted
	}

	return fbo.blit(fbo.readId(), dst.Id, srcArea, dstArea, filter, mask)
}

// BlitToScreen copies srcArea of this fbo into dstArea of the default framebuffer
func (fbo *Fbo) BlitToScreen(srcArea, dstArea Area, filter gpu.Enum, mask gpu.Bitfield) error {

	if fbo.deleted {
		return ErrFboDeleted
	}

	return fbo.blit(fbo.readId(), 0, srcArea, dstArea, filter, mask)
}

// BlitFromScreen copies srcArea of the default framebuffer into dstArea of this fbo
func (fbo *Fbo) BlitFromScreen(srcArea, dstArea Area, filter gpu.Enum, mask gpu.Bitfield) error {

	if fbo.deleted {
		return ErrFboDeleted
	}

	return fbo.blit(0, fbo.Id, srcArea, dstArea, filter, mask)
}

func (fbo *Fbo) readId() uint32 {

	if fbo.ctx.Caps.Blit {
		fbo.resolveTextures()
	}

	return fbo.Id
}

func (fbo *Fbo) blit(readId, drawId uint32, srcArea, dstArea Area, filter gpu.Enum, mask gpu.Bitfield) error {

	ctx := fbo.ctx
	if !ctx.Caps.Blit {
		return ErrBlitUnsupported
	}

	ctx.PushFramebuffer(gpu.READ_FRAMEBUFFER, readId)
	ctx.PushFramebuffer(gpu.DRAW_FRAMEBUFFER, drawId)

	ctx.Dev.BlitFramebuffer(
		srcArea.X1, srcArea.Y1, srcArea.X2, srcArea.Y2,
		dstArea.X1, dstArea.Y1, dstArea.X2, dstArea.Y2,
		mask, filter,
	)

	ctx.PopFramebuffer(gpu.DRAW_FRAMEBUFFER)
	ctx.PopFramebuffer(gpu.READ_FRAMEBUFFER)
	return nil
}
