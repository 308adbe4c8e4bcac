package tui

// sparklineChars maps values 0..7 to Unicode block elements ▁▂▃▄▅▆▇█.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RingBuffer is a fixed-capacity circular buffer for float64 samples.
type RingBuffer struct {
	data  []float64
	head  int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer{data: make([]float64, capacity)}
}

// Push adds a sample, overwriting the oldest if full.
func (r *RingBuffer) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of valid samples.
func (r *RingBuffer) Len() int { return r.count }

// Cap returns the buffer capacity.
func (r *RingBuffer) Cap() int { return len(r.data) }

// Last returns the most recent sample, or 0 if empty.
func (r *RingBuffer) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	return r.data[idx]
}

// Max returns the largest retained sample, or 0 if empty.
func (r *RingBuffer) Max() float64 {
	var m float64
	for i, v := range r.Slice() {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Mean returns the average of the retained samples, or 0 if empty.
func (r *RingBuffer) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	var sum float64
	for _, v := range r.Slice() {
		sum += v
	}
	return sum / float64(r.count)
}

// Slice returns samples in chronological order (oldest first).
func (r *RingBuffer) Slice() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := range r.count {
		result[i] = r.data[(start+i)%len(r.data)]
	}
	return result
}

// Reset clears all samples.
func (r *RingBuffer) Reset() {
	r.head = 0
	r.count = 0
}

// RenderSparkline converts percentages (0..100) into a sparkline using
// Unicode blocks. Out-of-range values are clamped.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparklineChars[min(int(v/100.0*7.0), 7)]
	}
	return string(runes)
}

// RenderScaledSparkline renders non-negative values relative to their
// maximum, so the largest sample is a full block.
func RenderScaledSparkline(values []float64) string {
	var peak float64
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		return RenderSparkline(make([]float64, len(values)))
	}
	scaled := make([]float64, len(values))
	for i, v := range values {
		scaled[i] = v / peak * 100
	}
	return RenderSparkline(scaled)
}
