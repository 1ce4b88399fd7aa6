package searcher

import "time"

// SearchMetrics summarizes one findBestMove call.
type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Simulations  int
	FullPlayouts int
	// WeightedDeterminizations counts the iterations whose hidden-piece
	// sampling used the inference table instead of a uniform shuffle.
	WeightedDeterminizations int
	TreeNodes                int
}

// Collector gathers search metrics. Searches are single-threaded, so plain
// counters suffice.
type Collector interface {
	Start()
	AddSimulation()
	AddFullPlayout()
	AddWeightedDeterminization()
	SetTreeNodes(n int)
	Complete() SearchMetrics
}

type collector struct {
	metrics SearchMetrics
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start() {
	c.metrics = SearchMetrics{StartTime: time.Now()}
}

func (c *collector) AddSimulation() { c.metrics.Simulations++ }

func (c *collector) AddFullPlayout() { c.metrics.FullPlayouts++ }

func (c *collector) AddWeightedDeterminization() { c.metrics.WeightedDeterminizations++ }

func (c *collector) SetTreeNodes(n int) { c.metrics.TreeNodes = n }

func (c *collector) Complete() SearchMetrics {
	c.metrics.Duration = time.Since(c.metrics.StartTime)
	return c.metrics
}

type dummyCollector struct{}

// NewDummyCollector returns a collector that records nothing.
func NewDummyCollector() Collector {
	return dummyCollector{}
}

func (dummyCollector) Start()                      {}
func (dummyCollector) AddSimulation()              {}
func (dummyCollector) AddFullPlayout()             {}
func (dummyCollector) AddWeightedDeterminization() {}
func (dummyCollector) SetTreeNodes(int)            {}
func (dummyCollector) Complete() SearchMetrics     { return SearchMetrics{} }
