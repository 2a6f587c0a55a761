// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package align

import (
	"sync/atomic"
	"unsafe"

	"code.hybscloud.com/ispsim/internal/cacheline"
)

// CacheLineSize is the target architecture's L1 cache line size,
// selected at compile time. AllocCacheLine allocates a region aligned
// to this boundary, the alignment pixel buffers want to avoid false
// sharing between a writer and a reader on adjacent buffers.
const CacheLineSize = cacheline.CacheLineSize

// AllocCacheLine allocates size bytes aligned to CacheLineSize using a.
func AllocCacheLine(a Allocator, size int) (region []byte, ok bool) {
	return a.Alloc(size, CacheLineSize)
}

// Allocator allocates and releases aligned memory regions.
//
// Alloc returns a region whose starting address is a multiple of
// alignment, or (nil, false) if size is not positive or alignment is not
// a nonzero power of two. Free releases a region previously returned by
// Alloc. Implementations need not be safe for concurrent use beyond
// whatever the underlying system allocator guarantees.
type Allocator interface {
	Alloc(size int, alignment uintptr) (region []byte, ok bool)
	Free(region []byte)
}

// heapAllocator is the default, GC-backed Allocator. It over-allocates
// by alignment-1 bytes and slices to the first aligned offset; Free is a
// no-op because Go's garbage collector reclaims the backing array once
// the returned slice (and any aliases of it) become unreachable.
type heapAllocator struct{}

// Default is the package-level heap-backed Allocator.
var Default Allocator = heapAllocator{}

func (heapAllocator) Alloc(size int, alignment uintptr) (region []byte, ok bool) {
	if size <= 0 {
		return nil, false
	}
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return nil, false
	}

	raw := make([]byte, uintptr(size)+alignment-1)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	offset := (alignment - base%alignment) % alignment
	region = raw[offset : offset+uintptr(size) : offset+uintptr(size)]
	return region, true
}

func (heapAllocator) Free(region []byte) {}

// IsAligned reports whether region's starting address is a multiple of
// alignment. A nil or empty region is never aligned, matching the
// convention that a failed allocation (nil) is never mistaken for a
// successful one.
func IsAligned(region []byte, alignment uintptr) bool {
	if len(region) == 0 {
		return false
	}
	if alignment == 0 || alignment&(alignment-1) != 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(region)))
	return addr%alignment == 0
}

// CountingAllocator decorates an Allocator and tracks how many Alloc
// calls have not yet been matched by a Free call. It exists for tests
// and teardown assertions that need to verify every aligned region was
// released exactly once.
type CountingAllocator struct {
	Allocator Allocator

	allocs atomic.Int64
	frees  atomic.Int64
}

// NewCountingAllocator wraps next (Default if nil) with allocation
// bookkeeping.
func NewCountingAllocator(next Allocator) *CountingAllocator {
	if next == nil {
		next = Default
	}
	return &CountingAllocator{Allocator: next}
}

func (c *CountingAllocator) Alloc(size int, alignment uintptr) (region []byte, ok bool) {
	region, ok = c.Allocator.Alloc(size, alignment)
	if ok {
		c.allocs.Add(1)
	}
	return region, ok
}

func (c *CountingAllocator) Free(region []byte) {
	c.Allocator.Free(region)
	c.frees.Add(1)
}

// Outstanding returns the number of Alloc calls not yet matched by a
// Free call. A correctly torn-down pool leaves this at zero.
func (c *CountingAllocator) Outstanding() int64 {
	return c.allocs.Load() - c.frees.Load()
}

// Allocs returns the total number of successful Alloc calls observed.
func (c *CountingAllocator) Allocs() int64 { return c.allocs.Load() }

// Frees returns the total number of Free calls observed.
func (c *CountingAllocator) Frees() int64 { return c.frees.Load() }
