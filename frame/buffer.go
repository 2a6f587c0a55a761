// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "code.hybscloud.com/atomix"

// State is a Buffer's position in the capture/process lifecycle.
type State uint32

const (
	// StateBusyWriting marks a buffer the sensor stage is currently
	// filling. No other stage may read or write Pixels.
	StateBusyWriting State = iota
	// StateBusyProcessing marks a buffer the ISP stage currently owns.
	StateBusyProcessing
	// StateReady marks a buffer with a complete, unclaimed frame: a
	// sensor-written frame waiting for ISP pickup, or an ISP-processed
	// frame waiting to be returned to the free queue.
	StateReady
)

// Buffer is a single fixed-size pixel buffer with its capture metadata.
// Pixels is allocated once by Pool and never reallocated; only its
// contents change across the buffer's lifetime.
type Buffer struct {
	ID          uint32
	Pixels      []byte
	Size        int
	TimestampNS int64
	LensID      uint32

	state atomix.Uint32
}

// State returns the buffer's current lifecycle state with acquire
// semantics: a caller observing StateReady has also observed every
// write to Pixels and the metadata fields made before the transition.
func (b *Buffer) State() State {
	return State(b.state.LoadAcquire())
}

// SetState publishes a new lifecycle state with release semantics: all
// writes to Pixels and the metadata fields preceding this call become
// visible to any goroutine that subsequently observes the new state via
// State.
func (b *Buffer) SetState(s State) {
	b.state.StoreRelease(uint32(s))
}
