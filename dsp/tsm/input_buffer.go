package tsm

import "github.com/cwbudde/algo-dsp/dsp/buffer"

// inputBufferInitialCapacity is the starting per-channel capacity, doubled
// on growth exactly like dsp/buffer.Buffer.Grow is meant to be driven.
const inputBufferInitialCapacity = 4096

// inputBuffer is an unbounded-growth planar append buffer. It holds pending
// input frames per channel in a dsp/buffer.Buffer, grown geometrically, and
// supports left-shift eviction and zero-prepended random access reads.
type inputBuffer struct {
	planes []*buffer.Buffer
	pool   *buffer.Pool
}

func newInputBuffer(channels int) *inputBuffer {
	pool := buffer.NewPool()
	planes := make([]*buffer.Buffer, channels)
	for c := range planes {
		planes[c] = pool.Get(0)
	}
	return &inputBuffer{planes: planes, pool: pool}
}

// Reset returns every plane's Buffer to the pool and reacquires a fresh
// zero-length one, so a long-running Engine that SetFinal/Reset-cycles
// through many streams reuses backing storage instead of discarding and
// reallocating it on every cycle.
func (b *inputBuffer) Reset() {
	for c, p := range b.planes {
		b.pool.Put(p)
		b.planes[c] = b.pool.Get(0)
	}
}

// Frames reports the number of valid frames currently held.
func (b *inputBuffer) Frames() int {
	if len(b.planes) == 0 {
		return 0
	}
	return b.planes[0].Len()
}

// Append copies n frames from planes (one slice per channel, float32) onto
// the end of the buffer, growing capacity geometrically, and returns n.
func (b *inputBuffer) Append(planes [][]float32, n int) int {
	if n <= 0 {
		return 0
	}

	old := b.Frames()
	newLen := old + n

	for c, p := range b.planes {
		p.Grow(nextCapacity(p.Cap(), newLen))
		p.Resize(newLen)

		dst := p.Samples()[old:newLen]
		src := planes[c]
		for i := 0; i < n; i++ {
			dst[i] = float64(src[i])
		}
	}

	return n
}

// Evict removes the first k frames, left-shifting the remainder.
func (b *inputBuffer) Evict(k int) {
	if k <= 0 {
		return
	}

	frames := b.Frames()
	if k > frames {
		k = frames
	}
	remaining := frames - k

	for _, p := range b.planes {
		s := p.Samples()
		copy(s[:remaining], s[k:frames])
		p.Resize(remaining)
	}
}

// PeekZeroPrepend copies length frames into dest (one slice per channel)
// starting at logical index start. Indices before 0 or at/beyond Frames
// are filled with zero rather than clamped, so the earliest WSOLA
// iterations can legitimately look before the start of the stream.
func (b *inputBuffer) PeekZeroPrepend(dest [][]float64, start, length int) {
	frames := b.Frames()

	for c, p := range b.planes {
		d := dest[c][:length]
		src := p.Samples()

		for i := range d {
			idx := start + i
			if idx < 0 || idx >= frames {
				d[i] = 0
				continue
			}
			d[i] = src[idx]
		}
	}
}

func nextCapacity(current, needed int) int {
	if current >= needed {
		return current
	}
	if current < inputBufferInitialCapacity {
		current = inputBufferInitialCapacity
	}
	for current < needed {
		current *= 2
	}
	return current
}
