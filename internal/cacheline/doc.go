// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cacheline exposes the target architecture's L1 cache line size
// as a compile-time constant, selected via build tags. It exists so that
// alignment-sensitive packages (align) can reason about false
// sharing without hardcoding a single architecture's line size.
package cacheline
