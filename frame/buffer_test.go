// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame_test

import (
	"testing"

	"code.hybscloud.com/ispsim/align"
	"code.hybscloud.com/ispsim/frame"
)

func TestNewPool_QuiescentInit(t *testing.T) {
	ca := align.NewCountingAllocator(nil)

	pool, err := frame.NewPool(4, 64, 64, 64, ca)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	if pool.Count() != 4 {
		t.Fatalf("Count() = %d, want 4", pool.Count())
	}
	if got := ca.Outstanding(); got != 4 {
		t.Fatalf("Outstanding() = %d, want 4 immediately after NewPool", got)
	}

	for i := uint32(0); i < 4; i++ {
		fb := pool.Buffer(i)
		if fb == nil {
			t.Fatalf("Buffer(%d) = nil", i)
		}
		if fb.ID != i {
			t.Fatalf("Buffer(%d).ID = %d, want %d", i, fb.ID, i)
		}
		if len(fb.Pixels) != 64*64 {
			t.Fatalf("Buffer(%d).Pixels has length %d, want %d", i, len(fb.Pixels), 64*64)
		}
		if !align.IsAligned(fb.Pixels, 64) {
			t.Fatalf("Buffer(%d).Pixels is not 64-byte aligned", i)
		}
		if fb.State() != frame.StateBusyWriting {
			t.Fatalf("Buffer(%d).State() = %v, want StateBusyWriting (zero value)", i, fb.State())
		}
	}

	pool.Release()
	if got := ca.Outstanding(); got != 0 {
		t.Fatalf("Outstanding() = %d, want 0 after Release", got)
	}

	// Release must be idempotent.
	pool.Release()
	if got := ca.Outstanding(); got != 0 {
		t.Fatalf("Outstanding() = %d, want 0 after a second Release", got)
	}
	if got := ca.Frees(); got != 4 {
		t.Fatalf("Frees() = %d, want 4 (second Release must not double-free)", got)
	}
}

func TestNewPool_OutOfRangeID(t *testing.T) {
	pool, err := frame.NewPool(2, 16, 16, 16, align.Default)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Release()

	if fb := pool.Buffer(99); fb != nil {
		t.Fatalf("Buffer(99) = %v, want nil", fb)
	}
}

func TestNewPool_InvalidArguments(t *testing.T) {
	cases := []struct {
		name        string
		count, w, h int
		alignment   uintptr
	}{
		{"zero count", 0, 16, 16, 16},
		{"negative count", -1, 16, 16, 16},
		{"zero width", 2, 0, 16, 16},
		{"zero height", 2, 16, 0, 16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := frame.NewPool(c.count, c.w, c.h, c.alignment, align.Default); err == nil {
				t.Fatalf("NewPool(%d, %d, %d, %d) succeeded, want error", c.count, c.w, c.h, c.alignment)
			}
		})
	}
}

type failingAfterN struct {
	allocated int
	failAt    int
}

func (f *failingAfterN) Alloc(size int, alignment uintptr) ([]byte, bool) {
	if f.allocated >= f.failAt {
		return nil, false
	}
	f.allocated++
	return align.Default.Alloc(size, alignment)
}

func (f *failingAfterN) Free(region []byte) {
	align.Default.Free(region)
}

func TestNewPool_PartialAllocationFailureReleasesEverything(t *testing.T) {
	alloc := &failingAfterN{failAt: 2}
	ca := align.NewCountingAllocator(alloc)

	_, err := frame.NewPool(4, 16, 16, 16, ca)
	if err == nil {
		t.Fatal("NewPool() succeeded, want error on partial allocation failure")
	}
	if got := ca.Outstanding(); got != 0 {
		t.Fatalf("Outstanding() = %d, want 0 after a failed NewPool releases what it allocated", got)
	}
}

func TestBuffer_StateTransitions(t *testing.T) {
	pool, err := frame.NewPool(1, 16, 16, 16, align.Default)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Release()

	fb := pool.Buffer(0)
	for _, s := range []frame.State{frame.StateBusyWriting, frame.StateReady, frame.StateBusyProcessing, frame.StateReady} {
		fb.SetState(s)
		if got := fb.State(); got != s {
			t.Fatalf("State() = %v, want %v", got, s)
		}
	}
}

func BenchmarkPool_AcquireRelease(b *testing.B) {
	pool, err := frame.NewPool(4, 1920, 1080, 64, align.Default)
	if err != nil {
		b.Fatalf("NewPool() error = %v", err)
	}
	defer pool.Release()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fb := pool.Buffer(uint32(i % 4))
		fb.SetState(frame.StateBusyWriting)
		fb.SetState(frame.StateReady)
	}
}
