package frame

// A Plane is one channel of a decoded video frame. Stride is bytes per row,
// which can exceed the row's pixel bytes when the decoder pads rows for
// alignment.
type Plane struct {
	Data   []byte
	Width  int
	Height int
	Stride int // bytes per row
}

// Resize the plane in place to hold height rows of stride bytes.
// The backing array is reused if it has enough capacity, so in steady state
// (same sized frames) this never allocates.
func (p *Plane) Resize(width, height, stride int) {
	size := height * stride
	if cap(p.Data) < size {
		p.Data = make([]byte, size)
	} else {
		p.Data = p.Data[:size]
	}
	p.Width = width
	p.Height = height
	p.Stride = stride
}

// Row returns the pixel bytes of row y, excluding any stride padding.
func (p *Plane) Row(y int) []byte {
	return p.Data[y*p.Stride : y*p.Stride+p.Width]
}

// Fill the plane from tightly packed source rows (row length = srcStride).
func (p *Plane) Fill(src []byte, width, height, srcStride int) {
	p.Resize(width, height, srcStride)
	copy(p.Data, src[:height*srcStride])
}

// A Buffer holds one fully decoded frame: three 8-bit color planes (YUV 420),
// an 8-bit alpha plane, and a 16-bit depth plane (2 bytes per pixel, little
// endian). A Buffer belongs to its Pool for its entire lifetime; the decoder
// overwrites it in place and the renderer reads it in place. It is never
// copied between pool entries.
type Buffer struct {
	Y     Plane
	U     Plane
	V     Plane
	Alpha Plane
	Depth Plane // 16-bit samples, Stride is still in bytes

	// Presentation timestamp in microseconds, decoder clock domain.
	PTS int64
}

// Planes returns all five planes, color first.
func (b *Buffer) Planes() [5]*Plane {
	return [5]*Plane{&b.Y, &b.U, &b.V, &b.Alpha, &b.Depth}
}

// Width and Height of the frame are those of the full-resolution Y plane.
func (b *Buffer) Width() int  { return b.Y.Width }
func (b *Buffer) Height() int { return b.Y.Height }

// A Pool is a fixed set of reusable frame Buffers, allocated once when the
// playback pipeline is created. Ring slot i always refers to pool entry i;
// nothing is ever moved or reallocated after construction, so a *Buffer
// handed to the renderer stays valid until the ring wraps back around to it.
type Pool struct {
	buffers []Buffer
}

func NewPool(size int) *Pool {
	return &Pool{
		buffers: make([]Buffer, size),
	}
}

func (p *Pool) Size() int {
	return len(p.buffers)
}

// Get returns the buffer at index i. The pool retains ownership.
func (p *Pool) Get(i int) *Buffer {
	return &p.buffers[i]
}
