// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"fmt"
	"sync"

	"code.hybscloud.com/ispsim/align"
)

// Pool owns the backing memory of a fixed number of Buffers, allocated
// once at construction and released exactly once by Release.
type Pool struct {
	mu       sync.Mutex
	alloc    align.Allocator
	buffers  []*Buffer
	regions  [][]byte
	released bool
}

// NewPool allocates count buffers of width*height bytes each, aligned
// to alignment, using alloc. If any allocation fails, every region
// already allocated is released and NewPool returns a non-nil error:
// setup failure is fatal, there is no partially usable pool.
func NewPool(count, width, height int, alignment uintptr, alloc align.Allocator) (*Pool, error) {
	if count < 1 {
		return nil, fmt.Errorf("frame: count must be >= 1, got %d", count)
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("frame: width and height must be >= 1, got %dx%d", width, height)
	}
	if alloc == nil {
		alloc = align.Default
	}

	size := width * height
	p := &Pool{
		alloc:   alloc,
		buffers: make([]*Buffer, count),
		regions: make([][]byte, 0, count),
	}

	for i := 0; i < count; i++ {
		region, ok := alloc.Alloc(size, alignment)
		if !ok {
			p.releaseLocked()
			return nil, fmt.Errorf("frame: allocation %d/%d of %d bytes aligned to %d failed", i+1, count, size, alignment)
		}
		p.regions = append(p.regions, region)
		p.buffers[i] = &Buffer{
			ID:     uint32(i),
			Pixels: region,
			Size:   size,
		}
	}

	return p, nil
}

// Buffer returns the buffer at id, or nil if id is out of range.
func (p *Pool) Buffer(id uint32) *Buffer {
	if int(id) >= len(p.buffers) {
		return nil
	}
	return p.buffers[id]
}

// Count returns the number of buffers the pool owns.
func (p *Pool) Count() int {
	return len(p.buffers)
}

// Release releases every pixel region exactly once. A second call is a
// no-op.
func (p *Pool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *Pool) releaseLocked() {
	if p.released {
		return
	}
	for _, region := range p.regions {
		p.alloc.Free(region)
	}
	p.released = true
}
