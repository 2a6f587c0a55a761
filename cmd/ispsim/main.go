// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// ispsim runs a fixed-rate camera capture pipeline simulator: a sensor
// worker and an ISP worker circulate a fixed pool of pixel buffers
// through a bounded ready queue, a bounded free queue, and a
// least-recently-used lens-calibration cache.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"code.hybscloud.com/ispsim/camera"
)

func mainImpl() error {
	bufferCount := flag.Int("buffers", camera.BufferCount, "number of circulating frame buffers")
	width := flag.Int("width", camera.FrameWidth, "frame width in pixels")
	height := flag.Int("height", camera.FrameHeight, "frame height in pixels")
	alignment := flag.Uint64("alignment", camera.Alignment, "pixel buffer byte alignment, must be a power of two")
	cacheSize := flag.Int("cache", camera.MetadataCacheSize, "lens calibration cache capacity")
	capturePeriod := flag.Duration("capture-period", 33*time.Millisecond, "sensor tick interval")
	verbose := flag.Bool("v", true, "write the log to stdout; when false it goes to stderr")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unsupported arguments: %v", flag.Args())
	}

	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	if !*verbose {
		logger.SetOutput(os.Stderr)
	}

	dev, err := camera.NewBuilder().
		BufferCount(*bufferCount).
		FrameSize(*width, *height).
		Alignment(uintptr(*alignment)).
		CacheCapacity(*cacheSize).
		CapturePeriod(*capturePeriod).
		Logger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("building camera device: %w", err)
	}
	defer dev.Close()

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		dev.Run(ctx)
		close(runDone)
	}()

	logger.Printf("[System] pipeline running, press enter to stop")
	_, _ = bufio.NewReader(os.Stdin).ReadString('\n')

	cancel()
	<-runDone

	stats := dev.Stats()
	logger.Printf("[System] final stats: processed=%d sensorDropped=%d ispDropped=%d",
		stats.ProcessedCount, stats.SensorDropped, stats.ISPDropped)
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "ispsim: %s\n", err)
		os.Exit(1)
	}
}
