// This file is part of GopherAdvance.
//
// GopherAdvance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// GopherAdvance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GopherAdvance.  If not, see <https://www.gnu.org/licenses/>.

package apu

import (
	"sync/atomic"

	"github.com/seliware/gopheradvance/display"
)

// Ring is the single-producer single-consumer sample queue between the
// emulation goroutine and the audio sink. The produce side never blocks;
// when the consumer falls behind and the ring is full, new samples are
// dropped.
type Ring struct {
	buf []display.Sample

	// monotonically increasing positions, folded into the buffer by
	// masking. the buffer size is always a power of two
	read  atomic.Uint64
	write atomic.Uint64
}

// NewRing creates a ring holding capacity samples, rounded up to a
// power of two.
func NewRing(capacity int) *Ring {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Ring{buf: make([]display.Sample, size)}
}

// Push adds one sample. Called only from the emulation goroutine. When
// the consumer has stalled and the ring is full the sample is dropped;
// only the consumer ever moves the read position, which is what keeps
// the queue lock free.
func (r *Ring) Push(s display.Sample) {
	w := r.write.Load()
	rd := r.read.Load()

	if w-rd == uint64(len(r.buf)) {
		return
	}

	r.buf[w&uint64(len(r.buf)-1)] = s
	r.write.Store(w + 1)
}

// Pop fills dst with as many samples as are available, returning the
// count. Called only from the audio sink goroutine.
func (r *Ring) Pop(dst []display.Sample) int {
	rd := r.read.Load()
	w := r.write.Load()

	n := int(w - rd)
	if n > len(dst) {
		n = len(dst)
	}

	for i := 0; i < n; i++ {
		dst[i] = r.buf[(rd+uint64(i))&uint64(len(r.buf)-1)]
	}

	r.read.Store(rd + uint64(n))
	return n
}

// Len returns the number of buffered samples.
func (r *Ring) Len() int {
	return int(r.write.Load() - r.read.Load())
}
