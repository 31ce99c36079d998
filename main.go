package main

import (
	"flag"
	"math"

	"github.com/bloeys/gglm/gglm"
	"github.com/bloeys/nfbo/buffers"
	"github.com/bloeys/nfbo/engine"
	"github.com/bloeys/nfbo/gpu"
	"github.com/bloeys/nfbo/gpu/gldevice"
	"github.com/bloeys/nfbo/input"
	"github.com/bloeys/nfbo/logging"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	winWidth    = flag.Int("width", 1280, "Window width")
	winHeight   = flag.Int("height", 720, "Window height")
	samples     = flag.Int("samples", 8, "MSAA samples of the scene fbo. Clamped to what the device supports")
	cubeMapSize = flag.Int("cubemap-size", 256, "Face size of the cube map fbo")
	vsync       = flag.Bool("vsync", true, "Enable vsync")
)

type Demo struct {
	Win       *engine.Window
	WinWidth  int32
	WinHeight int32

	Ctx *buffers.Context

	SceneFbo   *buffers.Fbo
	CubeMapFbo *buffers.FboCubeMap

	UseMsaa   bool
	FaceIndex int

	// Seconds of animation, which stops while space is held
	AnimTime  float64
	lastTicks uint32
}

func main() {

	flag.Parse()

	//Init engine
	err := engine.Init()
	if err != nil {
		logging.ErrLog.Fatalln("Failed to init engine. Err:", err)
	}
	defer engine.Quit()

	//Create window
	window, err := engine.CreateOpenGLWindowCentered("nfbo", int32(*winWidth), int32(*winHeight), engine.WindowFlags_RESIZABLE|engine.WindowFlags_ALLOW_HIGHDPI)
	if err != nil {
		logging.ErrLog.Fatalln("Failed to create window. Err: ", err)
	}
	defer window.Destroy()

	engine.SetVSync(*vsync)
	engine.SetMSAA(*samples > 0)

	demo := &Demo{
		Win:     window,
		Ctx:     buffers.NewContext(gldevice.NewGlDevice(), gpu.Profile_GL),
		UseMsaa: *samples > 0,
	}
	demo.WinWidth, demo.WinHeight = window.DrawableSize()
	window.ResizeCallbacks = append(window.ResizeCallbacks, demo.handleWindowResize)

	demo.Init()
	defer demo.DeInit()

	for {

		window.HandleEvents()
		if input.IsQuitClicked() || input.KeyClicked(sdl.K_ESCAPE) {
			break
		}

		demo.Update()
		demo.Render()
		window.Swap()
	}
}

func (d *Demo) Init() {

	d.initSceneFbo()

	format := buffers.NewCubeMapFormat()
	format.Format.SetLabel("cube map")

	var err error
	d.CubeMapFbo, err = buffers.NewFboCubeMap(d.Ctx, int32(*cubeMapSize), int32(*cubeMapSize), format)
	if err != nil {
		logging.ErrLog.Fatalf("Failed to create cube map fbo. Err=%v\n", err)
	}

	eye := gglm.NewVec3(0, 0, 0)
	for _, face := range buffers.CubeMapFaces {
		logging.InfoLog.Printf("Cube map face %s view matrix: %v\n", face, buffers.CalcViewMatrix(face, eye))
	}

	logging.InfoLog.Printf("Scene fbo:\n%s", d.SceneFbo)
	logging.InfoLog.Printf("Cube map fbo:\n%s", d.CubeMapFbo.Fbo)
}

func (d *Demo) initSceneFbo() {

	if d.SceneFbo != nil {
		d.SceneFbo.Delete()
	}

	format := buffers.NewFormat().
		SetStencilBuffer(true).
		SetLabel("scene")

	if d.UseMsaa {
		format.SetSamples(int32(*samples))
	}

	fbo, err := buffers.NewFbo(d.Ctx, d.WinWidth, d.WinHeight, format)
	if err != nil {
		logging.ErrLog.Fatalf("Failed to create scene fbo. Err=%v\n", err)
	}

	d.SceneFbo = fbo
}

func (d *Demo) handleWindowResize(width, height int32) {

	d.WinWidth, d.WinHeight = width, height
	d.initSceneFbo()
}

func (d *Demo) Update() {

	if input.KeyClicked(sdl.K_m) {
		d.UseMsaa = !d.UseMsaa
		engine.SetMSAA(d.UseMsaa)
		d.initSceneFbo()
		logging.InfoLog.Printf("MSAA=%v; Samples=%d\n", d.UseMsaa, d.SceneFbo.Samples())
	}

	if input.KeyClicked(sdl.K_c) {
		d.FaceIndex = (d.FaceIndex + 1) % len(buffers.CubeMapFaces)
	}

	ticks := sdl.GetTicks()
	if d.lastTicks != 0 && !input.KeyDown(sdl.K_SPACE) {
		d.AnimTime += float64(ticks-d.lastTicks) / 1000
	}
	d.lastTicks = ticks

	if input.KeyReleased(sdl.K_SPACE) {
		logging.InfoLog.Printf("Animation resumed at %.2fs\n", d.AnimTime)
	}
}

func (d *Demo) Render() {

	t := d.AnimTime

	// Scene
	d.SceneFbo.BindWithViewport()
	gl.ClearColor(float32(0.5+0.5*math.Sin(t)), 0.2, float32(0.5+0.5*math.Cos(t)), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
	d.SceneFbo.UnBindWithViewport(d.WinWidth, d.WinHeight)

	// Every cube face gets its own color
	for i, face := range buffers.CubeMapFaces {

		d.CubeMapFbo.BindFramebufferFace(face, gpu.DRAW_FRAMEBUFFER, buffers.AttachmentPoint_Color0)
		d.Ctx.Dev.Viewport(0, 0, d.CubeMapFbo.Width, d.CubeMapFbo.Height)

		c := float32(i+1) / float32(len(buffers.CubeMapFaces))
		gl.ClearColor(c, 1-c, 0.5, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	}
	d.CubeMapFbo.BindFramebufferFace(buffers.CubeMapFaces[d.FaceIndex], gpu.DRAW_FRAMEBUFFER, buffers.AttachmentPoint_Color0)
	d.CubeMapFbo.UnBindWithViewport(d.WinWidth, d.WinHeight)

	// Reading through the accessors resolves and regenerates mipmaps
	if tex := d.SceneFbo.ColorTexture(); tex == nil {
		logging.ErrLog.Println("Scene fbo has no color texture")
	}

	cubeMap := d.CubeMapFbo.TextureCubeMap()
	cubeMap.Bind(0)
	cubeMap.UnBind(0)

	err := d.SceneFbo.BlitToScreen(d.SceneFbo.Bounds(), buffers.AreaFromSize(d.WinWidth, d.WinHeight), gpu.LINEAR, gpu.COLOR_BUFFER_BIT)
	if err != nil {
		logging.ErrLog.Printf("Failed to blit scene fbo. Err=%v\n", err)
	}

	// Selected cube face in the bottom left corner
	previewSize := d.WinHeight / 4
	err = d.CubeMapFbo.BlitToScreen(d.CubeMapFbo.Bounds(), buffers.AreaFromSize(previewSize, previewSize), gpu.LINEAR, gpu.COLOR_BUFFER_BIT)
	if err != nil {
		logging.ErrLog.Printf("Failed to blit cube map fbo. Err=%v\n", err)
	}
}

func (d *Demo) DeInit() {
	d.SceneFbo.Delete()
	d.CubeMapFbo.Delete()
}
