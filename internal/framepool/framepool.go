// Package framepool implements the Shared-Memory Frame Pool (spec.md §4.A):
// a single mmapped XRGB8888 buffer sized once to the compositor-assigned
// output geometry, written into by both the image fitter and the video
// pipeline driver and committed to a Wayland surface.
package framepool

import (
	"fmt"
	"os"
	"syscall"

	"github.com/neurlang/wayland/client"
)

// Pool owns the backing file, its memory map, the compositor shm pool, and
// the single child buffer carved from it. Lifetime equals the renderer
// process lifetime; frame_size never changes after New.
type Pool struct {
	width, height int
	stride        int
	frameSize     int

	file *os.File
	mmap []byte

	shmPool *client.ShmPool
	buffer  *client.Buffer
}

// New creates a uniquely-named, already-unlinked backing file under the
// system temp directory, maps it read+write, and carves a single XRGB8888
// buffer of the full extent from a pool bound to its fd.
func New(width, height int, shm *client.Shm) (*Pool, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	stride := width * 4
	size := height * stride

	f, err := os.CreateTemp("", fmt.Sprintf("papdieo-%d-*.shm", os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("create shm backing file: %w", err)
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncate shm backing file: %w", err)
	}
	path := f.Name()
	if err := os.Remove(path); err != nil {
		f.Close()
		return nil, fmt.Errorf("unlink shm backing file: %w", err)
	}

	mapping, err := syscall.Mmap(int(f.Fd()), 0, size, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap shm backing file: %w", err)
	}

	shmPool := shm.CreatePool(int(f.Fd()), int32(size), nil)
	buffer := shmPool.CreateBuffer(0, int32(width), int32(height), int32(stride), client.ShmFormatXrgb8888, nil)

	return &Pool{
		width: width, height: height, stride: stride, frameSize: size,
		file: f, mmap: mapping, shmPool: shmPool, buffer: buffer,
	}, nil
}

// WriteRGBA converts a decoded-and-fitted RGBA frame into the mapping's
// XRGB8888 byte order, forcing alpha to opaque. len(rgba) must be <= the
// pool's frame size and a multiple of 4.
func (p *Pool) WriteRGBA(rgba []byte) error {
	if len(rgba) > p.frameSize || len(rgba)%4 != 0 {
		return fmt.Errorf("rgba frame of %d bytes does not fit pool of %d bytes", len(rgba), p.frameSize)
	}
	for i := 0; i+3 < len(rgba); i += 4 {
		r, g, b := rgba[i], rgba[i+1], rgba[i+2]
		p.mmap[i+0] = b
		p.mmap[i+1] = g
		p.mmap[i+2] = r
		p.mmap[i+3] = 255
	}
	return nil
}

// WriteVideoBGRx copies h rows of exactly w*4 bytes from a BGRx sample whose
// row stride (srcStride) may exceed w*4 due to decoder alignment.
func (p *Pool) WriteVideoBGRx(src []byte, srcStride, w, h int) error {
	rowBytes := w * 4
	if h*rowBytes > p.frameSize {
		return fmt.Errorf("video frame %dx%d exceeds pool of %d bytes", w, h, p.frameSize)
	}
	for row := 0; row < h; row++ {
		srcStart := row * srcStride
		if srcStart+rowBytes > len(src) {
			return fmt.Errorf("video row %d: source stride %d too short for %d bytes", row, srcStride, rowBytes)
		}
		dstStart := row * rowBytes
		copy(p.mmap[dstStart:dstStart+rowBytes], src[srcStart:srcStart+rowBytes])
	}
	return nil
}

// AttachAndCommit attaches the pool's one buffer at (0,0), damages the full
// extent, and commits. Callers perform this exactly once per produced frame.
func (p *Pool) AttachAndCommit(surface *client.Surface) {
	surface.Attach(p.buffer, 0, 0)
	surface.DamageBuffer(0, 0, int32(p.width), int32(p.height))
	surface.Commit()
}

// Close releases the fd, mapping, shm pool, and buffer together.
func (p *Pool) Close() error {
	if p.buffer != nil {
		p.buffer.Destroy()
	}
	if p.shmPool != nil {
		p.shmPool.Destroy()
	}
	if err := syscall.Munmap(p.mmap); err != nil {
		return err
	}
	return p.file.Close()
}
