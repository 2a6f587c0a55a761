// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lru implements a fixed-capacity, exact LRU cache.
//
// Cache pairs a map index with a doubly linked list ordered from most
// recently used (front) to least recently used (back), giving O(1) Get
// and Put including eviction. Get and Put both count as a use and move
// the touched entry to the front; Put evicts the back entry only when
// inserting a new key into an already-full cache.
//
// Cache is not internally synchronized; callers sharing one across
// goroutines must serialize access themselves.
//
//	c := lru.New[int, *LensParams](10, func(p *LensParams) { releaseParams(p) })
//	c.Put(lensID, params)
//	if params, ok := c.Get(lensID); ok {
//	    // params is the most recently used entry for lensID
//	}
package lru
