// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package camera wires a frame.Pool, two ring.Ring queues, and an
// lru.Cache into a fixed-rate sensor/ISP capture pipeline.
//
// A sensor worker fills free buffers with a simulated frame and
// publishes them on the ready queue; an ISP worker consumes ready
// buffers, applies a per-lens gain pass using a cached calibration
// profile, and returns the buffer to the free queue. Both workers run
// until their context is canceled.
//
//	dev, err := camera.NewBuilder().Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//	go dev.Run(ctx)
package camera
