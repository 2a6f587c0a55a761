// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package frame provides the fixed-size pixel buffer and the
// upfront-allocated pool that owns every buffer's backing memory for
// the lifetime of a capture pipeline.
//
// A Buffer's state transitions (StateBusyWriting -> StateReady ->
// StateBusyProcessing -> StateReady -> ...) are published through an
// acquire/release atomic so that a worker observing StateReady has
// also observed every pixel byte written before that transition.
//
//	pool, err := frame.NewPool(4, 1920, 1080, 64, align.Default)
//	if err != nil {
//	    // allocation failed at startup, fatal
//	}
//	defer pool.Release()
//	fb := pool.Buffer(0)
package frame
