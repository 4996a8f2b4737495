package stats

import (
	"sync"
	"sync/atomic"
)

// Metric is the identity shared by every statistic kind.
type Metric interface {
	// Name is the full dot-segmented stat name, tag values included.
	Name() string

	// TagExtractedName is the name with tag values removed. All stats that
	// share it form one family.
	TagExtractedName() string

	// Tags returns the extracted tags in extraction order. Callers must not
	// modify the returned slice.
	Tags() []Tag

	// Used reports whether the stat has ever been written.
	Used() bool
}

type metadata struct {
	name             string
	tagExtractedName string
	tags             []Tag
}

func (m *metadata) Name() string             { return m.name }
func (m *metadata) TagExtractedName() string { return m.tagExtractedName }
func (m *metadata) Tags() []Tag              { return m.tags }

func newMetadata(name, tagExtractedName string, tags []Tag) metadata {
	if tagExtractedName == "" {
		tagExtractedName = name
	}
	return metadata{name: name, tagExtractedName: tagExtractedName, tags: tags}
}

// Counter is a monotonically increasing unsigned value.
type Counter struct {
	metadata
	value   atomic.Uint64
	latched atomic.Uint64
	used    atomic.Bool
}

// NewCounter creates a counter outside of a Store.
func NewCounter(name, tagExtractedName string, tags []Tag) *Counter {
	return &Counter{metadata: newMetadata(name, tagExtractedName, tags)}
}

// Add increases the counter by delta.
func (c *Counter) Add(delta uint64) {
	c.value.Add(delta)
	c.used.Store(true)
}

// Inc increases the counter by one.
func (c *Counter) Inc() { c.Add(1) }

// Value returns the current value.
func (c *Counter) Value() uint64 { return c.value.Load() }

// Latch returns the increase since the previous Latch call.
func (c *Counter) Latch() uint64 {
	v := c.value.Load()
	return v - c.latched.Swap(v)
}

// Used reports whether the counter was ever incremented.
func (c *Counter) Used() bool { return c.used.Load() }

// Gauge is an unsigned value that can move in both directions.
type Gauge struct {
	metadata
	value atomic.Uint64
	used  atomic.Bool
}

// NewGauge creates a gauge outside of a Store.
func NewGauge(name, tagExtractedName string, tags []Tag) *Gauge {
	return &Gauge{metadata: newMetadata(name, tagExtractedName, tags)}
}

// Set replaces the value.
func (g *Gauge) Set(v uint64) {
	g.value.Store(v)
	g.used.Store(true)
}

// Add increases the value by delta.
func (g *Gauge) Add(delta uint64) {
	g.value.Add(delta)
	g.used.Store(true)
}

// Sub decreases the value by delta, stopping at zero.
func (g *Gauge) Sub(delta uint64) {
	for {
		cur := g.value.Load()
		next := uint64(0)
		if cur > delta {
			next = cur - delta
		}
		if g.value.CompareAndSwap(cur, next) {
			break
		}
	}
	g.used.Store(true)
}

// Value returns the current value.
func (g *Gauge) Value() uint64 { return g.value.Load() }

// Used reports whether the gauge was ever written.
func (g *Gauge) Used() bool { return g.used.Load() }

// TextReadout holds a string value.
type TextReadout struct {
	metadata
	mu    sync.RWMutex
	value string
	used  bool
}

// NewTextReadout creates a text readout outside of a Store.
func NewTextReadout(name, tagExtractedName string, tags []Tag) *TextReadout {
	return &TextReadout{metadata: newMetadata(name, tagExtractedName, tags)}
}

// Set replaces the value.
func (t *TextReadout) Set(v string) {
	t.mu.Lock()
	t.value = v
	t.used = true
	t.mu.Unlock()
}

// Value returns the current value.
func (t *TextReadout) Value() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.value
}

// Used reports whether the readout was ever set.
func (t *TextReadout) Used() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.used
}
