package metrics

import (
	"time"

	"photo-timeline/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current library statistics
type Stats struct {
	TotalPhotos   int `json:"totalPhotos"`
	WithLocation  int `json:"withLocation"`
	WithDate      int `json:"withDate"`
	DecodeFailure int `json:"decodeFailures"`
}

// Collector periodically collects and updates library gauges
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	LibraryPhotos.WithLabelValues("total").Set(float64(stats.TotalPhotos))
	LibraryPhotos.WithLabelValues("located").Set(float64(stats.WithLocation))
	LibraryPhotos.WithLabelValues("dated").Set(float64(stats.WithDate))
	LibraryPhotos.WithLabelValues("failed").Set(float64(stats.DecodeFailure))

	logging.Debug("Metrics collected: photos=%d, located=%d, dated=%d, failed=%d",
		stats.TotalPhotos, stats.WithLocation, stats.WithDate, stats.DecodeFailure)
}
