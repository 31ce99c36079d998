package buffers

import (
	"fmt"

	"github.com/bloeys/nfbo/gpu"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AttachmentPoint is a slot of a framebuffer. Values are the device attachment enums.
type AttachmentPoint gpu.Enum

const (
	AttachmentPoint_Color0       AttachmentPoint = AttachmentPoint(gpu.COLOR_ATTACHMENT0)
	AttachmentPoint_Color1       AttachmentPoint = AttachmentPoint(gpu.COLOR_ATTACHMENT0 + 1)
	AttachmentPoint_Color2       AttachmentPoint = AttachmentPoint(gpu.COLOR_ATTACHMENT0 + 2)
	AttachmentPoint_Color3       AttachmentPoint = AttachmentPoint(gpu.COLOR_ATTACHMENT0 + 3)
	AttachmentPoint_Depth        AttachmentPoint = AttachmentPoint(gpu.DEPTH_ATTACHMENT)
	AttachmentPoint_Stencil      AttachmentPoint = AttachmentPoint(gpu.STENCIL_ATTACHMENT)
	AttachmentPoint_DepthStencil AttachmentPoint = AttachmentPoint(gpu.DEPTH_STENCIL_ATTACHMENT)
)

// ColorAttachment returns the i-th color attachment point, 0 <= i < 16
func ColorAttachment(i int) AttachmentPoint {
	return AttachmentPoint(gpu.COLOR_ATTACHMENT0 + gpu.Enum(i))
}

func (p AttachmentPoint) Enum() gpu.Enum {
	return gpu.Enum(p)
}

func (p AttachmentPoint) IsColor() bool {
	return gpu.Enum(p) >= gpu.COLOR_ATTACHMENT0 && gpu.Enum(p) <= gpu.COLOR_ATTACHMENT15
}

func (p AttachmentPoint) IsValid() bool {
	return p.IsColor() ||
		p == AttachmentPoint_Depth ||
		p == AttachmentPoint_Stencil ||
		p == AttachmentPoint_DepthStencil
}

func (p AttachmentPoint) String() string {
	return gpu.Enum(p).String()
}

type AttachmentKind int32

const (
	AttachmentKind_Unknown AttachmentKind = iota
	AttachmentKind_Texture
	AttachmentKind_Renderbuffer
)

func (k AttachmentKind) String() string {

	switch k {
	case AttachmentKind_Texture:
		return "Texture"
	case AttachmentKind_Renderbuffer:
		return "Renderbuffer"
	default:
		return "Unknown"
	}
}

// Attachment is either a texture or a renderbuffer sitting at an attachment point.
// Owned attachments were created by the framebuffer layer and are deleted with the
// fbo that holds them. Borrowed ones belong to the caller and are never deleted here.
type Attachment struct {
	Kind  AttachmentKind
	Owned bool

	tex *Texture
	rb  *Renderbuffer
}

func OwnedTexture(tex *Texture) Attachment {
	return Attachment{Kind: AttachmentKind_Texture, Owned: true, tex: tex}
}

func BorrowedTexture(tex *Texture) Attachment {
	return Attachment{Kind: AttachmentKind_Texture, tex: tex}
}

func OwnedRenderbuffer(rb *Renderbuffer) Attachment {
	return Attachment{Kind: AttachmentKind_Renderbuffer, Owned: true, rb: rb}
}

func BorrowedRenderbuffer(rb *Renderbuffer) Attachment {
	return Attachment{Kind: AttachmentKind_Renderbuffer, rb: rb}
}

// Texture returns the texture of a texture attachment, otherwise nil
func (a Attachment) Texture() *Texture {
	return a.tex
}

// Renderbuffer returns the renderbuffer of a renderbuffer attachment, otherwise nil
func (a Attachment) Renderbuffer() *Renderbuffer {
	return a.rb
}

func (a Attachment) Id() uint32 {

	switch a.Kind {
	case AttachmentKind_Texture:
		return a.tex.Id
	case AttachmentKind_Renderbuffer:
		return a.rb.Id
	default:
		return 0
	}
}

func (a Attachment) InternalFormat() gpu.Enum {

	switch a.Kind {
	case AttachmentKind_Texture:
		return a.tex.Format.InternalFormat
	case AttachmentKind_Renderbuffer:
		return a.rb.InternalFormat
	default:
		return gpu.NONE
	}
}

// Bind binds the texture to unit, or the renderbuffer to the renderbuffer target
func (a Attachment) Bind(unit uint32) {

	switch a.Kind {
	case AttachmentKind_Texture:
		a.tex.Bind(unit)
	case AttachmentKind_Renderbuffer:
		a.rb.Bind()
	}
}

func (a Attachment) String() string {

	ownership := "borrowed"
	if a.Owned {
		ownership = "owned"
	}

	switch a.Kind {
	case AttachmentKind_Texture:
		return fmt.Sprintf("%s (%s)", a.tex, ownership)
	case AttachmentKind_Renderbuffer:
		return fmt.Sprintf("%s (%s)", a.rb, ownership)
	default:
		return "<none>"
	}
}

func (a Attachment) object() any {

	if a.Kind == AttachmentKind_Texture {
		return a.tex
	}

	return a.rb
}

func (a Attachment) delete() {

	switch a.Kind {
	case AttachmentKind_Texture:
		a.tex.Delete()
	case AttachmentKind_Renderbuffer:
		a.rb.Delete()
	}
}

// AttachmentStore maps attachment points to attachments. Iteration is in ascending
// attachment point order. The zero value is ready to use.
type AttachmentStore struct {
	entries map[AttachmentPoint]Attachment
}

func (s *AttachmentStore) Set(p AttachmentPoint, a Attachment) {

	if s.entries == nil {
		s.entries = map[AttachmentPoint]Attachment{}
	}

	s.entries[p] = a
}

func (s *AttachmentStore) Get(p AttachmentPoint) (Attachment, bool) {
	a, ok := s.entries[p]
	return a, ok
}

func (s *AttachmentStore) Has(p AttachmentPoint) bool {
	_, ok := s.entries[p]
	return ok
}

func (s *AttachmentStore) Remove(p AttachmentPoint) {
	delete(s.entries, p)
}

func (s *AttachmentStore) Len() int {
	return len(s.entries)
}

// Count returns how many entries are of kind
func (s *AttachmentStore) Count(kind AttachmentKind) int {

	n := 0
	for _, a := range s.entries {
		if a.Kind == kind {
			n++
		}
	}

	return n
}

func (s *AttachmentStore) Points() []AttachmentPoint {

	points := maps.Keys(s.entries)
	slices.Sort(points)
	return points
}

// Clear forgets all entries without deleting anything
func (s *AttachmentStore) Clear() {
	s.entries = nil
}

// Release deletes every owned object exactly once, in attachment point order, and
// clears the store. One object may sit at several points (e.g. a packed depth-stencil
// renderbuffer at both depth and stencil).
func (s *AttachmentStore) Release() {

	released := map[any]struct{}{}
	for _, p := range s.Points() {

		a := s.entries[p]
		if !a.Owned {
			continue
		}

		if _, ok := released[a.object()]; ok {
			continue
		}

		released[a.object()] = struct{}{}
		a.delete()
	}

	s.Clear()
}

func (s *AttachmentStore) clone() AttachmentStore {

	return AttachmentStore{entries: maps.Clone(s.entries)}
}

// borrowedOnly returns a copy holding only the borrowed entries
func (s *AttachmentStore) borrowedOnly() AttachmentStore {

	c := s.clone()
	maps.DeleteFunc(c.entries, func(_ AttachmentPoint, a Attachment) bool {
		return a.Owned
	})

	return c
}
