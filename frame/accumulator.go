// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

// Accumulator is FrameReader's growable buffer of not-yet-framed bytes. It
// is pre-sized to the caller's MaxMsgSize so that, once one frame's worth
// of bytes has been consumed, steady-state operation is allocation-free.
type Accumulator struct {
	buf  []byte
	r, w int
}

// NewAccumulator returns an Accumulator pre-sized to hint bytes.
func NewAccumulator(hint int) *Accumulator {
	if hint <= 0 {
		hint = 4096
	}
	return &Accumulator{buf: make([]byte, hint)}
}

// Len returns the number of unread bytes currently buffered.
func (a *Accumulator) Len() int { return a.w - a.r }

// Bytes returns the unread bytes. The returned slice is only valid until
// the next call to Advance, Grow, or Commit.
func (a *Accumulator) Bytes() []byte { return a.buf[a.r:a.w] }

// Advance removes n bytes from the front of the unread region. It panics
// if n exceeds Len, which would indicate a Framer bug.
func (a *Accumulator) Advance(n int) {
	if n < 0 || n > a.Len() {
		panic("frame: Accumulator.Advance out of range")
	}
	a.r += n
	if a.r == a.w {
		a.r, a.w = 0, 0
	}
}

// Grow returns a writable tail of at least n bytes, compacting or
// reallocating the underlying storage as needed. The caller must follow up
// with Commit once bytes have actually been written into the returned
// slice.
func (a *Accumulator) Grow(n int) []byte {
	if cap(a.buf)-a.w >= n {
		return a.buf[a.w:cap(a.buf)]
	}
	// Compact first: sliding unread bytes to the front may free enough
	// room without allocating.
	if a.r > 0 {
		copy(a.buf, a.buf[a.r:a.w])
		a.w -= a.r
		a.r = 0
		if cap(a.buf)-a.w >= n {
			return a.buf[a.w:cap(a.buf)]
		}
	}
	needed := a.w + n
	grown := make([]byte, needed, needed*2)
	copy(grown, a.buf[:a.w])
	a.buf = grown
	return a.buf[a.w:cap(a.buf)]
}

// Commit marks n bytes, previously written into the slice returned by
// Grow, as part of the unread region.
func (a *Accumulator) Commit(n int) {
	a.w += n
}
