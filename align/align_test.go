// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package align_test

import (
	"testing"

	"code.hybscloud.com/ispsim/align"
)

func TestDefaultAlloc_Aligned(t *testing.T) {
	for _, alignment := range []uintptr{1, 2, 4, 8, 16, 64, 128, 4096} {
		region, ok := align.Default.Alloc(1024, alignment)
		if !ok {
			t.Fatalf("Alloc(1024, %d) failed", alignment)
		}
		if len(region) != 1024 {
			t.Fatalf("Alloc(1024, %d) returned region of length %d", alignment, len(region))
		}
		if !align.IsAligned(region, alignment) {
			t.Fatalf("Alloc(1024, %d) returned misaligned region", alignment)
		}
	}
}

func TestAlloc_InvalidArguments(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		alignment uintptr
	}{
		{"zero size", 0, 64},
		{"negative size", -1, 64},
		{"zero alignment", 1024, 0},
		{"non-power-of-two alignment", 1024, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			region, ok := align.Default.Alloc(c.size, c.alignment)
			if ok || region != nil {
				t.Fatalf("Alloc(%d, %d) = (%v, %v), want (nil, false)", c.size, c.alignment, region, ok)
			}
		})
	}
}

func TestIsAligned_NilOrEmpty(t *testing.T) {
	if align.IsAligned(nil, 64) {
		t.Fatal("IsAligned(nil, 64) = true, want false")
	}
	if align.IsAligned([]byte{}, 64) {
		t.Fatal("IsAligned([]byte{}, 64) = true, want false")
	}
}

func TestCountingAllocator_TracksOutstanding(t *testing.T) {
	ca := align.NewCountingAllocator(nil)

	regions := make([][]byte, 4)
	for i := range regions {
		region, ok := ca.Alloc(4096, 64)
		if !ok {
			t.Fatalf("Alloc failed at iteration %d", i)
		}
		regions[i] = region
	}
	if got := ca.Outstanding(); got != 4 {
		t.Fatalf("Outstanding() = %d, want 4", got)
	}

	for _, region := range regions {
		ca.Free(region)
	}
	if got := ca.Outstanding(); got != 0 {
		t.Fatalf("Outstanding() = %d, want 0 after releasing every region", got)
	}
	if got := ca.Allocs(); got != 4 {
		t.Fatalf("Allocs() = %d, want 4", got)
	}
	if got := ca.Frees(); got != 4 {
		t.Fatalf("Frees() = %d, want 4", got)
	}
}

func TestAllocCacheLine_Aligned(t *testing.T) {
	region, ok := align.AllocCacheLine(align.Default, 4096)
	if !ok {
		t.Fatal("AllocCacheLine failed")
	}
	if !align.IsAligned(region, align.CacheLineSize) {
		t.Fatal("AllocCacheLine returned a region not aligned to CacheLineSize")
	}
}

func TestCountingAllocator_FailedAllocNotCounted(t *testing.T) {
	ca := align.NewCountingAllocator(nil)
	if _, ok := ca.Alloc(0, 64); ok {
		t.Fatal("Alloc(0, 64) unexpectedly succeeded")
	}
	if got := ca.Outstanding(); got != 0 {
		t.Fatalf("Outstanding() = %d, want 0 after a failed Alloc", got)
	}
}
