package buffers_test

import (
	"testing"

	"github.com/bloeys/nfbo/buffers"
	"github.com/bloeys/nfbo/gpu"
	"github.com/bloeys/nfbo/gpu/gputest"
)

func newContext(profile gpu.Profile, maxSamples int32) (*gputest.Device, *buffers.Context) {
	dev := gputest.NewDevice(maxSamples)
	return dev, buffers.NewContext(dev, profile)
}

func mustFbo(t *testing.T, ctx *buffers.Context, width, height int32, format *buffers.Format) *buffers.Fbo {

	t.Helper()

	fbo, err := buffers.NewFbo(ctx, width, height, format)
	if err != nil {
		t.Fatalf("NewFbo: %v", err)
	}

	return fbo
}

func mustTexture(t *testing.T, ctx *buffers.Context, format gpu.Enum) *buffers.Texture {

	t.Helper()

	tex, err := buffers.NewTexture2D(ctx, 64, 64, buffers.NewTextureFormat(format))
	if err != nil {
		t.Fatalf("NewTexture2D: %v", err)
	}

	return tex
}

func mustAttachment(t *testing.T, fbo *buffers.Fbo, p buffers.AttachmentPoint) buffers.Attachment {

	t.Helper()

	a, ok := fbo.Attachment(p)
	if !ok {
		t.Fatalf("no attachment at %s", p)
	}

	return a
}

func assertNoLiveObjects(t *testing.T, dev *gputest.Device) {

	t.Helper()

	if n := dev.LiveFramebuffers(); n != 0 {
		t.Errorf("LiveFramebuffers = %d, want 0", n)
	}
	if n := dev.LiveRenderbuffers(); n != 0 {
		t.Errorf("LiveRenderbuffers = %d, want 0", n)
	}
	if n := dev.LiveTextures(); n != 0 {
		t.Errorf("LiveTextures = %d, want 0", n)
	}
	if dev.DoubleDeletes != 0 {
		t.Errorf("DoubleDeletes = %d, want 0", dev.DoubleDeletes)
	}
}

func equalEnums(a, b []gpu.Enum) bool {

	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
