package buffers

import (
	"github.com/bloeys/nfbo/assert"
	"github.com/bloeys/nfbo/gpu"
	"github.com/bloeys/nfbo/logging"
)

// Context wraps a device together with the capabilities queried from it and a cache
// of the current framebuffer, texture and renderbuffer bindings.
//
// Everything that needs a binding only for the duration of one operation pushes it and
// pops it afterwards, so that nested operations (e.g. a resolve triggered by a texture
// read in the middle of a frame) leave the caller's bindings untouched.
//
// A Context, and everything created from it, must only be used from the thread that
// owns the device.
type Context struct {
	Dev  gpu.Device
	Caps gpu.Caps

	// Top of each stack is the current binding
	drawFbStack []uint32
	readFbStack []uint32

	activeUnit    uint32
	textureStacks map[textureSlot][]uint32

	rbStack []uint32

	fbos map[*Fbo]struct{}
}

type textureSlot struct {
	unit   uint32
	target gpu.Enum
}

func NewContext(dev gpu.Device, profile gpu.Profile) *Context {

	ctx := &Context{
		Dev:           dev,
		Caps:          gpu.QueryCaps(dev, profile),
		drawFbStack:   []uint32{0},
		readFbStack:   []uint32{0},
		textureStacks: map[textureSlot][]uint32{},
		rbStack:       []uint32{0},
		fbos:          map[*Fbo]struct{}{},
	}

	logging.InfoLog.Printf("framebuffer context created. Profile=%s; MaxSamples=%d; MaxColorAttachments=%d; CSAA=%v\n",
		profile, ctx.Caps.MaxSamples, ctx.Caps.MaxColorAttachments, ctx.Caps.CoverageSample)

	return ctx
}

//
// Framebuffers
//

// FramebufferBinding returns the framebuffer currently bound to target.
// FRAMEBUFFER reports the draw binding.
func (c *Context) FramebufferBinding(target gpu.Enum) uint32 {

	if target == gpu.READ_FRAMEBUFFER {
		return c.readFbStack[len(c.readFbStack)-1]
	}

	return c.drawFbStack[len(c.drawFbStack)-1]
}

// BindFramebufferTarget binds id to target, skipping the device call when it is
// already bound there.
func (c *Context) BindFramebufferTarget(target gpu.Enum, id uint32) {

	draw := &c.drawFbStack[len(c.drawFbStack)-1]
	read := &c.readFbStack[len(c.readFbStack)-1]

	switch target {

	case gpu.FRAMEBUFFER:
		if *draw == id && *read == id {
			return
		}
		*draw = id
		*read = id

	case gpu.DRAW_FRAMEBUFFER:
		if *draw == id {
			return
		}
		*draw = id

	case gpu.READ_FRAMEBUFFER:
		if *read == id {
			return
		}
		*read = id

	default:
		assert.T(false, "unknown framebuffer target "+target.String())
	}

	c.Dev.BindFramebuffer(target, id)
}

// PushFramebuffer saves the current binding of target and binds id in its place
func (c *Context) PushFramebuffer(target gpu.Enum, id uint32) {

	switch target {
	case gpu.FRAMEBUFFER:
		c.drawFbStack = append(c.drawFbStack, c.drawFbStack[len(c.drawFbStack)-1])
		c.readFbStack = append(c.readFbStack, c.readFbStack[len(c.readFbStack)-1])
	case gpu.DRAW_FRAMEBUFFER:
		c.drawFbStack = append(c.drawFbStack, c.drawFbStack[len(c.drawFbStack)-1])
	case gpu.READ_FRAMEBUFFER:
		c.readFbStack = append(c.readFbStack, c.readFbStack[len(c.readFbStack)-1])
	default:
		assert.T(false, "unknown framebuffer target "+target.String())
	}

	c.BindFramebufferTarget(target, id)
}

// PopFramebuffer restores the binding of target saved by the matching PushFramebuffer
func (c *Context) PopFramebuffer(target gpu.Enum) {

	switch target {

	case gpu.FRAMEBUFFER:
		assert.T(len(c.drawFbStack) > 1 && len(c.readFbStack) > 1, "framebuffer stack underflow")

		oldDraw, oldRead := c.popStack(&c.drawFbStack), c.popStack(&c.readFbStack)
		newDraw, newRead := c.FramebufferBinding(gpu.DRAW_FRAMEBUFFER), c.FramebufferBinding(gpu.READ_FRAMEBUFFER)

		if newDraw == newRead && (oldDraw != newDraw || oldRead != newRead) {
			c.Dev.BindFramebuffer(gpu.FRAMEBUFFER, newDraw)
			return
		}

		if oldDraw != newDraw {
			c.Dev.BindFramebuffer(gpu.DRAW_FRAMEBUFFER, newDraw)
		}

		if oldRead != newRead {
			c.Dev.BindFramebuffer(gpu.READ_FRAMEBUFFER, newRead)
		}

	case gpu.DRAW_FRAMEBUFFER:
		assert.T(len(c.drawFbStack) > 1, "draw framebuffer stack underflow")

		old := c.popStack(&c.drawFbStack)
		if cur := c.FramebufferBinding(gpu.DRAW_FRAMEBUFFER); cur != old {
			c.Dev.BindFramebuffer(gpu.DRAW_FRAMEBUFFER, cur)
		}

	case gpu.READ_FRAMEBUFFER:
		assert.T(len(c.readFbStack) > 1, "read framebuffer stack underflow")

		old := c.popStack(&c.readFbStack)
		if cur := c.FramebufferBinding(gpu.READ_FRAMEBUFFER); cur != old {
			c.Dev.BindFramebuffer(gpu.READ_FRAMEBUFFER, cur)
		}

	default:
		assert.T(false, "unknown framebuffer target "+target.String())
	}
}

func (c *Context) popStack(stack *[]uint32) uint32 {
	s := *stack
	top := s[len(s)-1]
	*stack = s[:len(s)-1]
	return top
}

// BindFramebuffer binds fbo to target. Binding for drawing selects the multisample
// framebuffer when there is one and marks the fbo as needing a resolve. Binding for
// reading resolves first and selects the primary framebuffer.
func (c *Context) BindFramebuffer(fbo *Fbo, target gpu.Enum) {

	if fbo.deleted {
		logging.ErrLog.Printf("binding deleted framebuffer. Label=%q\n", fbo.label)
		return
	}

	c.BindFramebufferTarget(target, fbo.prepareForBind(target))
}

// UnbindFramebuffer binds the default framebuffer
func (c *Context) UnbindFramebuffer() {
	c.BindFramebufferTarget(gpu.FRAMEBUFFER, 0)
}

// ActiveFbo returns the fbo currently bound for drawing, or nil
func (c *Context) ActiveFbo() *Fbo {

	id := c.FramebufferBinding(gpu.DRAW_FRAMEBUFFER)
	if id == 0 {
		return nil
	}

	for fbo := range c.fbos {
		if fbo.Id == id || fbo.MultisampleId == id {
			return fbo
		}
	}

	return nil
}

// LiveFbos returns the number of fbos created on this context and not yet deleted
func (c *Context) LiveFbos() int {
	return len(c.fbos)
}

func (c *Context) framebufferCreated(fbo *Fbo) {
	c.fbos[fbo] = struct{}{}
}

func (c *Context) framebufferDeleted(fbo *Fbo) {
	delete(c.fbos, fbo)
}

// framebufferIdDeleted mirrors the device, which reverts bindings of a deleted framebuffer to 0
func (c *Context) framebufferIdDeleted(id uint32) {

	for i := range c.drawFbStack {
		if c.drawFbStack[i] == id {
			c.drawFbStack[i] = 0
		}
	}

	for i := range c.readFbStack {
		if c.readFbStack[i] == id {
			c.readFbStack[i] = 0
		}
	}
}

//
// Textures
//

func (c *Context) setActiveUnit(unit uint32) {

	if c.activeUnit == unit {
		return
	}

	c.activeUnit = unit
	c.Dev.ActiveTexture(gpu.TEXTURE0 + gpu.Enum(unit))
}

func (c *Context) textureStack(target gpu.Enum) []uint32 {

	slot := textureSlot{unit: c.activeUnit, target: target}

	stack, ok := c.textureStacks[slot]
	if !ok {
		stack = []uint32{0}
		c.textureStacks[slot] = stack
	}

	return stack
}

// TextureBinding returns the texture bound to target on the active texture unit
func (c *Context) TextureBinding(target gpu.Enum) uint32 {
	stack := c.textureStack(target)
	return stack[len(stack)-1]
}

// BindTexture binds id to target on unit
func (c *Context) BindTexture(unit uint32, target gpu.Enum, id uint32) {

	c.setActiveUnit(unit)

	stack := c.textureStack(target)
	if stack[len(stack)-1] == id {
		return
	}

	stack[len(stack)-1] = id
	c.Dev.BindTexture(target, id)
}

// PushTextureBinding saves the binding of target on the active unit and binds id
func (c *Context) PushTextureBinding(target gpu.Enum, id uint32) {

	slot := textureSlot{unit: c.activeUnit, target: target}
	stack := c.textureStack(target)
	c.textureStacks[slot] = append(stack, stack[len(stack)-1])

	c.BindTexture(c.activeUnit, target, id)
}

// PopTextureBinding restores the binding saved by PushTextureBinding
func (c *Context) PopTextureBinding(target gpu.Enum) {

	slot := textureSlot{unit: c.activeUnit, target: target}
	stack := c.textureStack(target)
	assert.T(len(stack) > 1, "texture binding stack underflow for "+target.String())

	old := stack[len(stack)-1]
	stack = stack[:len(stack)-1]
	c.textureStacks[slot] = stack

	if cur := stack[len(stack)-1]; cur != old {
		c.Dev.BindTexture(target, cur)
	}
}

// textureDeleted mirrors the device, which reverts bindings of a deleted texture to 0
func (c *Context) textureDeleted(id uint32) {

	for _, stack := range c.textureStacks {
		for i := range stack {
			if stack[i] == id {
				stack[i] = 0
			}
		}
	}
}

//
// Renderbuffers
//

// RenderbufferBinding returns the renderbuffer currently bound to RENDERBUFFER
func (c *Context) RenderbufferBinding() uint32 {
	return c.rbStack[len(c.rbStack)-1]
}

// BindRenderbuffer binds id to RENDERBUFFER
func (c *Context) BindRenderbuffer(id uint32) {

	top := &c.rbStack[len(c.rbStack)-1]
	if *top == id {
		return
	}

	*top = id
	c.Dev.BindRenderbuffer(gpu.RENDERBUFFER, id)
}

// PushRenderbuffer saves the current renderbuffer binding and binds id in its place
func (c *Context) PushRenderbuffer(id uint32) {
	c.rbStack = append(c.rbStack, c.RenderbufferBinding())
	c.BindRenderbuffer(id)
}

// PopRenderbuffer restores the binding saved by PushRenderbuffer
func (c *Context) PopRenderbuffer() {

	assert.T(len(c.rbStack) > 1, "renderbuffer binding stack underflow")

	old := c.popStack(&c.rbStack)
	if cur := c.RenderbufferBinding(); cur != old {
		c.Dev.BindRenderbuffer(gpu.RENDERBUFFER, cur)
	}
}

func (c *Context) renderbufferDeleted(id uint32) {

	for i := range c.rbStack {
		if c.rbStack[i] == id {
			c.rbStack[i] = 0
		}
	}
}
