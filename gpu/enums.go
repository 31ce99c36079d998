package gpu

import "fmt"

// Enum is a device enumerant. Values match the OpenGL (and OpenGL ES) registry
// so implementations can pass them to the driver unchanged.
type Enum uint32

// Bitfield is a device bitmask, like the mask argument of a blit
type Bitfield uint32

const (
	NONE Enum = 0
	ONE  Enum = 1

	// Framebuffer targets
	FRAMEBUFFER      Enum = 0x8D40
	READ_FRAMEBUFFER Enum = 0x8CA8
	DRAW_FRAMEBUFFER Enum = 0x8CA9
	RENDERBUFFER     Enum = 0x8D41

	// Attachment points
	COLOR_ATTACHMENT0        Enum = 0x8CE0
	COLOR_ATTACHMENT15       Enum = 0x8CEF
	DEPTH_ATTACHMENT         Enum = 0x8D00
	STENCIL_ATTACHMENT       Enum = 0x8D20
	DEPTH_STENCIL_ATTACHMENT Enum = 0x821A
	BACK                     Enum = 0x0405

	// Framebuffer status
	FRAMEBUFFER_COMPLETE                      Enum = 0x8CD5
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         Enum = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT Enum = 0x8CD7
	FRAMEBUFFER_INCOMPLETE_DIMENSIONS         Enum = 0x8CD9
	FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER        Enum = 0x8CDB
	FRAMEBUFFER_INCOMPLETE_READ_BUFFER        Enum = 0x8CDC
	FRAMEBUFFER_UNSUPPORTED                   Enum = 0x8CDD
	FRAMEBUFFER_INCOMPLETE_MULTISAMPLE        Enum = 0x8D56
	FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS      Enum = 0x8DA8
	FRAMEBUFFER_UNDEFINED                     Enum = 0x8219

	// Integer queries
	MAX_SAMPLES           Enum = 0x8D57
	MAX_COLOR_ATTACHMENTS Enum = 0x8CDF
	NUM_EXTENSIONS        Enum = 0x821D

	// Texture targets
	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE_CUBE_MAP            Enum = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X Enum = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X Enum = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y Enum = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y Enum = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z Enum = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z Enum = 0x851A
	TEXTURE0                    Enum = 0x84C0

	// Texture parameters
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	TEXTURE_WRAP_R     Enum = 0x8072
	TEXTURE_SWIZZLE_R  Enum = 0x8E42
	TEXTURE_SWIZZLE_G  Enum = 0x8E43
	TEXTURE_SWIZZLE_B  Enum = 0x8E44
	TEXTURE_SWIZZLE_A  Enum = 0x8E45

	NEAREST              Enum = 0x2600
	LINEAR               Enum = 0x2601
	LINEAR_MIPMAP_LINEAR Enum = 0x2703
	CLAMP_TO_EDGE        Enum = 0x812F

	// Pixel formats
	RED             Enum = 0x1903
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	RED_INTEGER     Enum = 0x8D94
	DEPTH_COMPONENT Enum = 0x1902
	DEPTH_STENCIL   Enum = 0x84F9
	STENCIL_INDEX8  Enum = 0x8D48

	// Internal formats
	RGB8               Enum = 0x8051
	RGBA8              Enum = 0x8058
	SRGB8_ALPHA8       Enum = 0x8C43
	RGBA16F            Enum = 0x881A
	RGBA32F            Enum = 0x8814
	R32I               Enum = 0x8235
	DEPTH_COMPONENT16  Enum = 0x81A5
	DEPTH_COMPONENT24  Enum = 0x81A6
	DEPTH_COMPONENT32F Enum = 0x8CAC
	DEPTH24_STENCIL8   Enum = 0x88F0
	DEPTH32F_STENCIL8  Enum = 0x8CAD

	// Pixel types
	UNSIGNED_BYTE                  Enum = 0x1401
	INT                            Enum = 0x1404
	UNSIGNED_INT                   Enum = 0x1405
	FLOAT                          Enum = 0x1406
	HALF_FLOAT                     Enum = 0x140B
	UNSIGNED_INT_24_8              Enum = 0x84FA
	FLOAT_32_UNSIGNED_INT_24_8_REV Enum = 0x8DAD
)

const (
	COLOR_BUFFER_BIT   Bitfield = 0x4000
	DEPTH_BUFFER_BIT   Bitfield = 0x0100
	STENCIL_BUFFER_BIT Bitfield = 0x0400
)

var enumNames = map[Enum]string{
	FRAMEBUFFER:      "GL_FRAMEBUFFER",
	READ_FRAMEBUFFER: "GL_READ_FRAMEBUFFER",
	DRAW_FRAMEBUFFER: "GL_DRAW_FRAMEBUFFER",
	RENDERBUFFER:     "GL_RENDERBUFFER",

	DEPTH_ATTACHMENT:         "GL_DEPTH_ATTACHMENT",
	STENCIL_ATTACHMENT:       "GL_STENCIL_ATTACHMENT",
	DEPTH_STENCIL_ATTACHMENT: "GL_DEPTH_STENCIL_ATTACHMENT",

	FRAMEBUFFER_COMPLETE:                      "GL_FRAMEBUFFER_COMPLETE",
	FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "GL_FRAMEBUFFER_INCOMPLETE_ATTACHMENT",
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "GL_FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT",
	FRAMEBUFFER_INCOMPLETE_DIMENSIONS:         "GL_FRAMEBUFFER_INCOMPLETE_DIMENSIONS",
	FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "GL_FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER",
	FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "GL_FRAMEBUFFER_INCOMPLETE_READ_BUFFER",
	FRAMEBUFFER_UNSUPPORTED:                   "GL_FRAMEBUFFER_UNSUPPORTED",
	FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:        "GL_FRAMEBUFFER_INCOMPLETE_MULTISAMPLE",

	TEXTURE_2D:       "GL_TEXTURE_2D",
	TEXTURE_CUBE_MAP: "GL_TEXTURE_CUBE_MAP",

	RGB:             "GL_RGB",
	RGBA:            "GL_RGBA",
	DEPTH_COMPONENT: "GL_DEPTH_COMPONENT",
	DEPTH_STENCIL:   "GL_DEPTH_STENCIL",
	STENCIL_INDEX8:  "GL_STENCIL_INDEX8",

	RGB8:               "GL_RGB8",
	RGBA8:              "GL_RGBA8",
	SRGB8_ALPHA8:       "GL_SRGB8_ALPHA8",
	RGBA16F:            "GL_RGBA16F",
	RGBA32F:            "GL_RGBA32F",
	R32I:               "GL_R32I",
	DEPTH_COMPONENT16:  "GL_DEPTH_COMPONENT16",
	DEPTH_COMPONENT24:  "GL_DEPTH_COMPONENT24",
	DEPTH_COMPONENT32F: "GL_DEPTH_COMPONENT32F",
	DEPTH24_STENCIL8:   "GL_DEPTH24_STENCIL8",
	DEPTH32F_STENCIL8:  "GL_DEPTH32F_STENCIL8",
}

func (e Enum) String() string {

	if e >= COLOR_ATTACHMENT0 && e <= COLOR_ATTACHMENT15 {
		return fmt.Sprintf("GL_COLOR_ATTACHMENT%d", e-COLOR_ATTACHMENT0)
	}

	if e >= TEXTURE_CUBE_MAP_POSITIVE_X && e <= TEXTURE_CUBE_MAP_NEGATIVE_Z {
		return [...]string{
			"GL_TEXTURE_CUBE_MAP_POSITIVE_X", "GL_TEXTURE_CUBE_MAP_NEGATIVE_X",
			"GL_TEXTURE_CUBE_MAP_POSITIVE_Y", "GL_TEXTURE_CUBE_MAP_NEGATIVE_Y",
			"GL_TEXTURE_CUBE_MAP_POSITIVE_Z", "GL_TEXTURE_CUBE_MAP_NEGATIVE_Z",
		}[e-TEXTURE_CUBE_MAP_POSITIVE_X]
	}

	if name, ok := enumNames[e]; ok {
		return name
	}

	return fmt.Sprintf("0x%04X", uint32(e))
}

// IsDepthFormat reports whether an internal format carries depth
func IsDepthFormat(internalFormat Enum) bool {

	switch internalFormat {
	case DEPTH_COMPONENT, DEPTH_COMPONENT16, DEPTH_COMPONENT24, DEPTH_COMPONENT32F,
		DEPTH_STENCIL, DEPTH24_STENCIL8, DEPTH32F_STENCIL8:
		return true
	default:
		return false
	}
}

// IsStencilFormat reports whether an internal format carries stencil
func IsStencilFormat(internalFormat Enum) bool {
	return internalFormat == STENCIL_INDEX8 ||
		internalFormat == DEPTH_STENCIL ||
		internalFormat == DEPTH24_STENCIL8 ||
		internalFormat == DEPTH32F_STENCIL8
}

// PixelTransferFor returns the client format and pixel type that pair with an internal
// format when allocating texture storage.
func PixelTransferFor(internalFormat Enum) (format, pixelType Enum) {

	switch internalFormat {
	case RGB, RGB8:
		return RGB, UNSIGNED_BYTE
	case RGBA, RGBA8, SRGB8_ALPHA8:
		return RGBA, UNSIGNED_BYTE
	case RGBA16F:
		return RGBA, HALF_FLOAT
	case RGBA32F:
		return RGBA, FLOAT
	case R32I:
		return RED_INTEGER, INT
	case DEPTH_COMPONENT, DEPTH_COMPONENT16, DEPTH_COMPONENT24:
		return DEPTH_COMPONENT, UNSIGNED_INT
	case DEPTH_COMPONENT32F:
		return DEPTH_COMPONENT, FLOAT
	case DEPTH_STENCIL, DEPTH24_STENCIL8:
		return DEPTH_STENCIL, UNSIGNED_INT_24_8
	case DEPTH32F_STENCIL8:
		return DEPTH_STENCIL, FLOAT_32_UNSIGNED_INT_24_8_REV
	default:
		return RGBA, UNSIGNED_BYTE
	}
}
