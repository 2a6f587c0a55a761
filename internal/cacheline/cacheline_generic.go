// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !amd64 && !arm64 && !riscv64 && !loong64

package cacheline

// CacheLineSize is the default L1 cache line size for architectures without
// a dedicated file in this package. 64 bytes is the most common cache line
// size on modern CPUs. Covers: mips64, mips64le, ppc64, ppc64le, s390x,
// wasm, sparc64, and 32-bit architectures.
const CacheLineSize = 64
