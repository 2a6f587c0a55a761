// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package camera

import (
	"fmt"
	"log"
	"os"
	"time"

	"code.hybscloud.com/ispsim/align"
	"code.hybscloud.com/ispsim/frame"
	"code.hybscloud.com/ispsim/lru"
	"code.hybscloud.com/ispsim/ring"
)

// Builder configures and constructs a Device with fluent calls.
//
//	dev, err := camera.NewBuilder().
//	    BufferCount(4).
//	    FrameSize(1920, 1080).
//	    Build()
type Builder struct {
	bufferCount   int
	width, height int
	alignment     uintptr
	cacheCapacity int
	loader        LensLoader
	logger        *log.Logger
	allocator     align.Allocator
	capturePeriod time.Duration
}

// NewBuilder returns a Builder preset with the package's device
// defaults.
func NewBuilder() *Builder {
	return &Builder{
		bufferCount:   BufferCount,
		width:         FrameWidth,
		height:        FrameHeight,
		alignment:     Alignment,
		cacheCapacity: MetadataCacheSize,
		loader:        defaultLensLoader,
		logger:        log.New(os.Stdout, "", log.LstdFlags),
		allocator:     align.Default,
		capturePeriod: 33 * time.Millisecond,
	}
}

// BufferCount sets the number of buffers circulating in the pipeline.
func (b *Builder) BufferCount(n int) *Builder {
	b.bufferCount = n
	return b
}

// FrameSize sets the pixel buffer dimensions.
func (b *Builder) FrameSize(w, h int) *Builder {
	b.width, b.height = w, h
	return b
}

// Alignment sets the pixel buffer's byte alignment.
func (b *Builder) Alignment(a uintptr) *Builder {
	b.alignment = a
	return b
}

// CacheCapacity sets the lens metadata cache's fixed capacity.
func (b *Builder) CacheCapacity(n int) *Builder {
	b.cacheCapacity = n
	return b
}

// LensLoader overrides the default EEPROM-simulating loader, most
// commonly to inject an instant stub in tests.
func (b *Builder) LensLoader(f LensLoader) *Builder {
	b.loader = f
	return b
}

// Logger overrides the default stdout logger.
func (b *Builder) Logger(l *log.Logger) *Builder {
	b.logger = l
	return b
}

// Allocator overrides the default heap allocator, most commonly to
// inject an align.CountingAllocator in tests.
func (b *Builder) Allocator(a align.Allocator) *Builder {
	b.allocator = a
	return b
}

// CapturePeriod sets the sensor worker's tick interval.
func (b *Builder) CapturePeriod(d time.Duration) *Builder {
	b.capturePeriod = d
	return b
}

// Build validates the configuration, allocates the frame pool, primes
// the free queue with every buffer, and returns a ready-to-run Device.
// Any allocation or validation failure is returned as an error; no
// partially constructed Device escapes a failed Build.
func (b *Builder) Build() (*Device, error) {
	if b.bufferCount < 1 {
		return nil, fmt.Errorf("camera: buffer count must be >= 1, got %d", b.bufferCount)
	}
	if b.cacheCapacity < 1 {
		return nil, fmt.Errorf("camera: cache capacity must be >= 1, got %d", b.cacheCapacity)
	}

	pool, err := frame.NewPool(b.bufferCount, b.width, b.height, b.alignment, b.allocator)
	if err != nil {
		return nil, fmt.Errorf("camera: building frame pool: %w", err)
	}

	d := &Device{
		pool:          pool,
		free:          ring.New[*frame.Buffer](b.bufferCount),
		ready:         ring.New[*frame.Buffer](b.bufferCount),
		cache:         lru.New[uint32, *LensProfile](b.cacheCapacity, nil),
		loader:        b.loader,
		logger:        b.logger,
		capturePeriod: b.capturePeriod,
	}

	for i := 0; i < b.bufferCount; i++ {
		fb := pool.Buffer(uint32(i))
		fb.SetState(frame.StateReady)
		d.free.Write(fb)
	}

	d.logger.Printf("[System] camera device initialized: buffers=%d frame=%dx%d alignment=%d cache=%d",
		b.bufferCount, b.width, b.height, b.alignment, b.cacheCapacity)

	return d, nil
}
