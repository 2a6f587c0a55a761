// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring implements a bounded, mutex-guarded FIFO ring queue of
// opaque references.
//
// Ring is deliberately lock-based rather than lock-free: the two
// condition variables (notEmpty, notFull) are part of the data model but
// are only ever signaled, never waited on, by the current API. They exist
// for a future blocking variant and cost nothing when unused.
//
// Read never blocks: it returns (zero, false) immediately on an empty
// ring. Write never blocks either: on a full ring it ejects the oldest
// slot and returns it to the caller, who becomes responsible for the
// ejected value (the "recycle" contract). ExtractStale supports
// out-of-order reclamation of a single slot matching a predicate,
// preserving the relative order of everything else.
//
//	r := ring.New[*Frame](4)
//	if ejected, had := r.Write(frame); had {
//	    // caller now owns ejected
//	}
//	if v, ok := r.Read(); ok {
//	    // process v
//	}
package ring
