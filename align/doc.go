// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package align provides an aligned memory allocation primitive behind a
// pluggable Allocator interface.
//
// # Alignment
//
// Alloc returns a byte slice whose starting address is a multiple of the
// requested power-of-two alignment. This is the same technique used for
// DMA-capable and cache-line-aligned buffers: over-allocate by
// alignment-1 bytes and slice to the first aligned offset.
//
//	region, ok := align.Default.Alloc(1920*1080, 64)
//	if !ok {
//	    // invalid size or alignment
//	}
//	align.IsAligned(region, 64) // true
//
// # Cache-line alignment
//
// CacheLineSize exposes the target architecture's L1 cache line size
// (see internal/cacheline), and AllocCacheLine allocates a region
// aligned to it (the camera package's pixel buffers do not use it; they
// are aligned to camera.Alignment, 64, unless configured otherwise):
//
//	region, ok := align.AllocCacheLine(align.Default, 1920*1080)
//
// # Instrumented allocation
//
// CountingAllocator decorates any Allocator and tracks outstanding
// Alloc/Free calls, so a caller can assert every allocation was released
// exactly once at teardown:
//
//	ca := &align.CountingAllocator{Allocator: align.Default}
//	region, _ := ca.Alloc(4096, 64)
//	ca.Free(region)
//	ca.Outstanding() // 0
package align
