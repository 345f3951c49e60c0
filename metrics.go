package asyncrt

import (
	"sync"
	"time"
)

// quantileMarker is a single P-Square marker-based estimator for one
// target quantile, updated in O(1) per observation with no retained
// sample buffer. Jain, R. and Chlamtac, I. (1985), "The P^2 Algorithm
// for Dynamic Calculation of Quantiles and Histograms Without Storing
// Observations", Communications of the ACM 28(10). Not safe for
// concurrent use; StepLatencyMetrics holds the lock that serializes it.
type quantileMarker struct {
	p          float64
	q          [5]float64 // marker heights
	n          [5]int     // marker positions
	np         [5]float64 // desired marker positions
	dn         [5]float64 // increments for desired positions
	count      int
	initBuffer [5]float64
}

func newQuantileMarker(p float64) *quantileMarker {
	switch {
	case p < 0:
		p = 0
	case p > 1:
		p = 1
	}
	return &quantileMarker{p: p, dn: [5]float64{0, p / 2, p, (1 + p) / 2, 1}}
}

func (m *quantileMarker) update(x float64) {
	m.count++
	if m.count <= 5 {
		m.initBuffer[m.count-1] = x
		if m.count == 5 {
			m.initializeMarkers()
		}
		return
	}

	var k int
	switch {
	case x < m.q[0]:
		m.q[0] = x
		k = 0
	case x >= m.q[4]:
		m.q[4] = x
		k = 3
	default:
		for k = 0; k < 4; k++ {
			if m.q[k] <= x && x < m.q[k+1] {
				break
			}
		}
	}

	for i := k + 1; i < 5; i++ {
		m.n[i]++
	}
	for i := 0; i < 5; i++ {
		m.np[i] += m.dn[i]
	}

	for i := 1; i < 4; i++ {
		d := m.np[i] - float64(m.n[i])
		if (d >= 1 && m.n[i+1]-m.n[i] > 1) || (d <= -1 && m.n[i-1]-m.n[i] < -1) {
			sign := 1
			if d < 0 {
				sign = -1
			}
			qPrime := m.parabolic(i, sign)
			if m.q[i-1] < qPrime && qPrime < m.q[i+1] {
				m.q[i] = qPrime
			} else {
				m.q[i] = m.linear(i, sign)
			}
			m.n[i] += sign
		}
	}
}

// initializeMarkers seeds the five markers from the first five
// observations, sorted by a plain insertion sort (n is always 5).
func (m *quantileMarker) initializeMarkers() {
	for i := 1; i < 5; i++ {
		key := m.initBuffer[i]
		j := i - 1
		for j >= 0 && m.initBuffer[j] > key {
			m.initBuffer[j+1] = m.initBuffer[j]
			j--
		}
		m.initBuffer[j+1] = key
	}
	for i := 0; i < 5; i++ {
		m.q[i] = m.initBuffer[i]
		m.n[i] = i
	}
	m.np = [5]float64{0, 2 * m.p, 4 * m.p, 2 + 2*m.p, 4}
}

func (m *quantileMarker) parabolic(i, d int) float64 {
	df := float64(d)
	ni, niPrev, niNext := float64(m.n[i]), float64(m.n[i-1]), float64(m.n[i+1])
	term1 := df / (niNext - niPrev)
	term2 := (ni - niPrev + df) * (m.q[i+1] - m.q[i]) / (niNext - ni)
	term3 := (niNext - ni - df) * (m.q[i] - m.q[i-1]) / (ni - niPrev)
	return m.q[i] + term1*(term2+term3)
}

func (m *quantileMarker) linear(i, d int) float64 {
	if d == 1 {
		return m.q[i] + (m.q[i+1]-m.q[i])/float64(m.n[i+1]-m.n[i])
	}
	return m.q[i] - (m.q[i]-m.q[i-1])/float64(m.n[i]-m.n[i-1])
}

// quantile reports the current estimate; before 5 observations it falls
// back to a sort of the retained init buffer.
func (m *quantileMarker) quantile() float64 {
	if m.count == 0 {
		return 0
	}
	if m.count < 5 {
		sorted := make([]float64, m.count)
		copy(sorted, m.initBuffer[:m.count])
		for i := 1; i < m.count; i++ {
			key := sorted[i]
			j := i - 1
			for j >= 0 && sorted[j] > key {
				sorted[j+1] = sorted[j]
				j--
			}
			sorted[j+1] = key
		}
		idx := int(float64(m.count-1) * m.p)
		if idx >= m.count {
			idx = m.count - 1
		}
		return sorted[idx]
	}
	return m.q[2]
}

// StepLatencyMetrics tracks the distribution of single-step execution
// durations using streaming P-Square quantile markers, so a long-lived
// Executor never has to retain a growing sample buffer to report
// percentiles.
type StepLatencyMetrics struct {
	mu      sync.Mutex
	markers [4]*quantileMarker // P50, P90, P95, P99
	count   int
	sum     time.Duration
	max     time.Duration
}

func newStepLatencyMetrics() *StepLatencyMetrics {
	return &StepLatencyMetrics{
		markers: [4]*quantileMarker{
			newQuantileMarker(0.50),
			newQuantileMarker(0.90),
			newQuantileMarker(0.95),
			newQuantileMarker(0.99),
		},
	}
}

// record is called by ProcessorWorker after every runStep call.
func (m *StepLatencyMetrics) record(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, marker := range m.markers {
		marker.update(float64(d))
	}
	m.count++
	m.sum += d
	if d > m.max {
		m.max = d
	}
}

// Snapshot reports the current percentile estimates. Meaningless (all
// zero) before the first sample.
func (m *StepLatencyMetrics) Snapshot() StepLatencySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return StepLatencySnapshot{}
	}
	return StepLatencySnapshot{
		Count: m.count,
		Mean:  m.sum / time.Duration(m.count),
		P50:   time.Duration(m.markers[0].quantile()),
		P90:   time.Duration(m.markers[1].quantile()),
		P95:   time.Duration(m.markers[2].quantile()),
		P99:   time.Duration(m.markers[3].quantile()),
		Max:   m.max,
	}
}

// StepLatencySnapshot is a point-in-time read of StepLatencyMetrics.
type StepLatencySnapshot struct {
	Count int
	Mean  time.Duration
	P50   time.Duration
	P90   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// QueueDepthMetrics tracks an exponential moving average and high-water
// mark for a single ready queue's depth, sampled once per Submit/requeue.
type QueueDepthMetrics struct {
	mu          sync.Mutex
	current     int
	max         int
	avg         float64
	initialized bool
}

func (q *QueueDepthMetrics) update(depth int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.current = depth
	if depth > q.max {
		q.max = depth
	}
	if !q.initialized {
		q.avg = float64(depth)
		q.initialized = true
	} else {
		q.avg = 0.9*q.avg + 0.1*float64(depth)
	}
}

// Snapshot reports the current queue depth statistics.
func (q *QueueDepthMetrics) Snapshot() QueueDepthSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueDepthSnapshot{Current: q.current, Max: q.max, Avg: q.avg}
}

// QueueDepthSnapshot is a point-in-time read of QueueDepthMetrics.
type QueueDepthSnapshot struct {
	Current int
	Max     int
	Avg     float64
}
