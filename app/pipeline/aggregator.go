package pipeline

import (
	"sync"

	"github.com/outbreakwatch/newswire/app/feed"
)

// Aggregator collects finished records per language. Appends come from
// all stage-2 workers concurrently, so order within a language reflects
// completion order, not feed order.
type Aggregator struct {
	mu      sync.Mutex
	records map[string][]feed.Record
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		records: make(map[string][]feed.Record),
	}
}

func (a *Aggregator) Add(language string, record feed.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.records[language] = append(a.records[language], record)
}

// Records hands over the collected map. Only called after the stage-2
// barrier, when no worker writes anymore.
func (a *Aggregator) Records() map[string][]feed.Record {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.records
}

func (a *Aggregator) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := 0
	for _, recs := range a.records {
		total += len(recs)
	}
	return total
}
