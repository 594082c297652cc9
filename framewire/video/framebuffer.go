package video

// Framebuffer dimensions are fixed for the whole session. Pixels are
// packed 0xAARRGGBB, 4 bytes each, stored as native uint32 values.
const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
	BytesPerPixel     = 4
)

type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint32
}

// NewFrameBuffer creates a frame buffer at the fixed session dimensions.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint32, FramebufferWidth*FramebufferHeight),
	}
}

func (fb FrameBuffer) GetPixel(x, y uint) uint32 {
	return fb.buffer[y*fb.width+x]
}

func (fb *FrameBuffer) SetPixel(x, y uint, color uint32) {
	fb.buffer[y*fb.width+x] = color
}

// ToSlice exposes the raw pixel data in row-major order.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }
