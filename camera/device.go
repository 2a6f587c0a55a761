// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package camera

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/ispsim/frame"
	"code.hybscloud.com/ispsim/lru"
	"code.hybscloud.com/ispsim/ring"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Device-default constants, all overridable through Builder.
const (
	FrameWidth        = 1920
	FrameHeight       = 1080
	BufferCount       = 4
	Alignment         = 64
	MetadataCacheSize = 10
)

// LensProfile is an opaque per-lens calibration value, expensive to
// obtain and cheap to reuse.
type LensProfile struct {
	LensID     uint32
	GainFactor float32
}

// LensLoader loads a LensProfile for lensID. Production loaders model
// slow hardware access (tens of milliseconds); tests typically inject
// an instant stub.
type LensLoader func(lensID uint32) LensProfile

// Stats is a point-in-time snapshot of the pipeline's counters.
type Stats struct {
	ProcessedCount uint64
	SensorDropped  uint64
	ISPDropped     uint64
}

// Device is the pipeline root: a frame pool, the free/ready ring pair,
// the lens calibration cache, and the sensor/ISP workers that drive
// them.
type Device struct {
	mu    sync.Mutex
	pool  *frame.Pool
	free  *ring.Ring[*frame.Buffer]
	ready *ring.Ring[*frame.Buffer]
	cache *lru.Cache[uint32, *LensProfile]

	loader LensLoader
	logger *log.Logger

	capturePeriod time.Duration

	processedCount uint64
	sensorDropped  uint64
	ispDropped     uint64

	running atomix.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	closeOnce sync.Once
}

// isRecyclable reports whether fb is sitting unclaimed in a queue
// rather than being actively written or processed; only such a buffer
// may be reclaimed by the sensor when no truly-free buffer exists.
func isRecyclable(fb *frame.Buffer) bool {
	return fb.State() == frame.StateReady
}

// SensorTick runs one sensor iteration: acquire a buffer (free, or a
// recyclable ready one), fill it with a simulated capture, and publish
// it to the ready queue.
func (d *Device) SensorTick() {
	fb, ok := d.free.Read()
	if !ok {
		fb, ok = d.ready.ExtractStale(isRecyclable)
		if ok {
			d.mu.Lock()
			d.ispDropped++
			d.mu.Unlock()
			d.logger.Printf("[SENSOR] Recycled stale ready buffer id=%d (ISP too slow)", fb.ID)
		}
	}
	if !ok {
		d.mu.Lock()
		d.sensorDropped++
		dropped := d.sensorDropped
		d.mu.Unlock()
		d.logger.Printf("[SENSOR] DROP! No buffers available, total dropped=%d", dropped)
		return
	}

	fb.SetState(frame.StateBusyWriting)
	simulateCapture(fb)
	fb.SetState(frame.StateReady)

	d.logger.Printf("[SENSOR] Ready for processing buffer id=%d lens=%d", fb.ID, fb.LensID)

	if ejected, had := d.ready.Write(fb); had {
		if rejected, hadEject := d.free.Write(ejected); hadEject {
			d.assertPoolConservation(rejected)
		}
	}
}

// ISPTick runs one ISP iteration: consume a ready buffer, resolve its
// lens calibration profile (loading and caching on a miss), apply the
// gain pass, and return the buffer to the free queue.
func (d *Device) ISPTick() {
	fb, ok := d.ready.Read()
	if !ok {
		return
	}

	fb.SetState(frame.StateBusyProcessing)

	d.mu.Lock()
	profile, hit := d.cache.Get(fb.LensID)
	if !hit {
		d.logger.Printf("[ISP] Cache miss, loading lens %d calibration", fb.LensID)
		loaded := d.loader(fb.LensID)
		profile = &loaded
		d.cache.Put(fb.LensID, profile)
	}
	d.mu.Unlock()

	applyGain(fb, profile)

	fb.SetState(frame.StateReady)
	if ejected, had := d.free.Write(fb); had {
		d.assertPoolConservation(ejected)
	}

	d.mu.Lock()
	d.processedCount++
	count := d.processedCount
	d.mu.Unlock()

	d.logger.Printf("[ISP] Processed buffer id=%d lens=%d", fb.ID, fb.LensID)

	if count%30 == 0 {
		d.logger.Printf("[System] processed %d frames so far", count)
	}
}

// assertPoolConservation is reached only if a ring write ever ejects
// while returning a buffer to the free queue, which the bounded
// circulation of exactly BufferCount buffers should make impossible.
func (d *Device) assertPoolConservation(ejected *frame.Buffer) {
	panic(fmt.Sprintf("camera: free queue ejected buffer id=%d on return, pool conservation invariant broken", ejected.ID))
}

// Run starts the sensor and ISP workers and blocks until ctx is done.
// Both workers exit promptly on cancellation; Run waits for both to
// return before it returns.
func (d *Device) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	d.running.StoreRelease(true)
	defer d.running.StoreRelease(false)

	d.wg.Add(2)
	go d.sensorLoop(ctx)
	go d.ispLoop(ctx)
	d.wg.Wait()
}

func (d *Device) sensorLoop(ctx context.Context) {
	defer d.wg.Done()
	ticker := time.NewTicker(d.capturePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.SensorTick()
		}
	}
}

// idleSpinRounds bounds how many tight spins the ISP loop tries before
// escalating to iox.Backoff's OS-level wait; a handful of spins covers
// the common case where the sensor is only a tick or two behind.
const idleSpinRounds = 64

func (d *Device) ispLoop(ctx context.Context) {
	defer d.wg.Done()

	sw := spin.Wait{}
	var backoff iox.Backoff
	spins := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if d.ready.IsEmpty() {
			if spins < idleSpinRounds {
				sw.Once()
				spins++
			} else {
				backoff.Wait()
			}
			continue
		}
		spins = 0
		d.ISPTick()
	}
}

// Running reports whether Run is executing: it is true from the start
// of Run until both workers have returned, including the short window
// after cancellation while they finish their current tick. It is safe
// to call from any goroutine, including log lines
// that want to report pipeline liveness without threading a context
// through every call site.
func (d *Device) Running() bool {
	return d.running.LoadAcquire()
}

// Stop cancels the context passed to the most recent Run call, if any.
func (d *Device) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Stats returns a snapshot of the pipeline's drop and throughput
// counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Stats{
		ProcessedCount: d.processedCount,
		SensorDropped:  d.sensorDropped,
		ISPDropped:     d.ispDropped,
	}
}

// Close stops any running workers, drains the queues, and releases the
// pool's pixel memory exactly once. A second call is a no-op.
func (d *Device) Close() error {
	d.closeOnce.Do(func() {
		d.Stop()
		d.wg.Wait()
		for {
			if _, ok := d.free.Read(); !ok {
				break
			}
		}
		for {
			if _, ok := d.ready.Read(); !ok {
				break
			}
		}
		stats := d.Stats()
		d.logger.Printf("[System] shutting down, processed=%d sensorDropped=%d ispDropped=%d",
			stats.ProcessedCount, stats.SensorDropped, stats.ISPDropped)
		d.pool.Release()
	})
	return nil
}

func simulateCapture(fb *frame.Buffer) {
	seed := byte(fb.ID % 255)
	for i := range fb.Pixels {
		fb.Pixels[i] = byte((i + int(seed)) % 256)
	}
	fb.LensID = (fb.ID / 10) % 5
	fb.TimestampNS = time.Now().UnixNano()
}

func applyGain(fb *frame.Buffer, profile *LensProfile) {
	gain := profile.GainFactor
	limit := 100
	if limit > len(fb.Pixels) {
		limit = len(fb.Pixels)
	}
	for i := 0; i < limit; i++ {
		v := float32(fb.Pixels[i]) * gain
		if v > 255 {
			v = 255
		}
		fb.Pixels[i] = byte(v)
	}
}

// defaultLensLoader models slow EEPROM access behind a lens-calibration
// read.
func defaultLensLoader(lensID uint32) LensProfile {
	time.Sleep(20 * time.Millisecond)
	return LensProfile{
		LensID:     lensID,
		GainFactor: 1.2 + float32(lensID)*0.1,
	}
}
