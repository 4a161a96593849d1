package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"photo-timeline/internal/fetcher"
	"photo-timeline/internal/logging"
	"photo-timeline/internal/metadata"
	"photo-timeline/internal/metrics"
	"photo-timeline/internal/notify"
	"photo-timeline/internal/views"
)

// ErrSuperseded is returned by Load when a newer cycle started before this
// one could publish. The cycle's results are discarded.
var ErrSuperseded = errors.New("load cycle superseded by a newer cycle")

// Trigger labels recorded for each cycle.
const (
	TriggerStartup  = "startup"
	TriggerPeriodic = "periodic"
	TriggerWatch    = "watch"
	TriggerManual   = "manual"
)

// Lister enumerates the files of a load cycle.
type Lister interface {
	List(ctx context.Context) ([]metadata.FileRef, error)
}

// Fetcher fetches metadata for a batch of files, one Result per file in
// input order.
type Fetcher interface {
	Fetch(ctx context.Context, refs []metadata.FileRef) []fetcher.Result
}

// Config controls the background triggers started by Start.
type Config struct {
	// ReloadInterval between periodic loads. Zero disables periodic loads.
	ReloadInterval time.Duration
	// WatchDir is watched with fsnotify when Watch is set.
	WatchDir string
	Watch    bool
	// WatchRecursive also watches subdirectories.
	WatchRecursive bool
	// Debounce coalesces bursts of filesystem events into one load.
	Debounce time.Duration
}

// Indexer runs load cycles and publishes their snapshots.
type Indexer struct {
	lister  Lister
	fetcher Fetcher
	config  Config
	log     hclog.Logger

	snapshot atomic.Pointer[Snapshot]

	// cycleMu guards seq and cancelPrev.
	cycleMu    sync.Mutex
	seq        uint64
	cancelPrev context.CancelFunc

	// publishMu serializes publication and notification.
	publishMu sync.Mutex
	locations *notify.Notifier[views.LocationItem]
	timeline  *notify.Notifier[views.TimelineItem]

	running   atomic.Int32
	startTime time.Time

	stateMu  sync.RWMutex
	lastErr  error
	lastLoad time.Time

	baseCtx   context.Context
	cancel    context.CancelFunc
	triggerCh chan string
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready      bool      `json:"ready"`
	Loading    bool      `json:"loading"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"startTime"`
	Uptime     string    `json:"uptime"`
	LastLoaded time.Time `json:"lastLoaded,omitempty"`
	CycleID    string    `json:"cycleId,omitempty"`
	Sequence   uint64    `json:"sequence"`
	Photos     int       `json:"photos"`
	LastError  string    `json:"lastError,omitempty"`
}

// New creates a new Indexer.
func New(lister Lister, f Fetcher, config Config) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Indexer{
		lister:    lister,
		fetcher:   f,
		config:    config,
		log:       logging.Named("indexer"),
		locations: notify.NewNotifier[views.LocationItem](nil),
		timeline:  notify.NewNotifier[views.TimelineItem](nil),
		startTime: time.Now(),
		baseCtx:   ctx,
		cancel:    cancel,
		triggerCh: make(chan string, 1),
		stopChan:  make(chan struct{}),
	}
}

// SetOnLocationViewChange sets the callback invoked when the location view's
// membership changes. It runs after the snapshot is published.
func (idx *Indexer) SetOnLocationViewChange(fn func(views.LocationView)) {
	if fn == nil {
		idx.locations.SetCallback(nil)
		return
	}
	idx.locations.SetCallback(func(items []views.LocationItem) {
		fn(views.LocationView(items))
	})
}

// SetOnDateViewChange sets the callback invoked when the date view's
// membership changes. It runs after the snapshot is published.
func (idx *Indexer) SetOnDateViewChange(fn func(views.DateView)) {
	if fn == nil {
		idx.timeline.SetCallback(nil)
		return
	}
	idx.timeline.SetCallback(func(items []views.TimelineItem) {
		fn(views.DateView(items))
	})
}

// Snapshot returns the latest published snapshot. Before the first cycle
// completes it returns an empty snapshot with Sequence 0.
func (idx *Indexer) Snapshot() *Snapshot {
	if s := idx.snapshot.Load(); s != nil {
		return s
	}
	return emptySnapshot
}

// GetStats implements metrics.StatsProvider.
func (idx *Indexer) GetStats() metrics.Stats {
	return idx.Snapshot().Stats()
}

// Load runs one load cycle synchronously.
func (idx *Indexer) Load(ctx context.Context) (*Snapshot, error) {
	return idx.load(ctx, TriggerManual)
}

func (idx *Indexer) load(ctx context.Context, trigger string) (*Snapshot, error) {
	cycleCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopLink := context.AfterFunc(idx.baseCtx, cancel)
	defer stopLink()

	idx.cycleMu.Lock()
	idx.seq++
	seq := idx.seq
	if idx.cancelPrev != nil {
		idx.cancelPrev()
	}
	idx.cancelPrev = cancel
	idx.cycleMu.Unlock()

	cycleID := uuid.NewString()
	log := idx.log.With("cycle", cycleID, "seq", seq, "trigger", trigger)
	start := time.Now()

	idx.running.Add(1)
	metrics.LoadCycleRunning.Inc()
	metrics.LoadCycleTriggersTotal.WithLabelValues(trigger).Inc()
	defer func() {
		idx.running.Add(-1)
		metrics.LoadCycleRunning.Dec()
		metrics.LoadCycleDuration.Observe(time.Since(start).Seconds())
	}()

	log.Debug("load cycle started")

	refs, err := idx.lister.List(cycleCtx)
	if err != nil {
		if idx.superseded(seq) {
			return nil, idx.discard(log)
		}
		err = fmt.Errorf("load cycle %s: failed to list photos: %w", cycleID, err)
		idx.fail(log, err)
		return nil, err
	}

	results := idx.fetcher.Fetch(cycleCtx, refs)

	records := make([]metadata.PhotoRecord, len(results))
	failures := 0
	for i, r := range results {
		records[i] = r.Record
		if !r.OK() {
			failures++
		}
	}

	locations, timeline := views.Index(records)

	idx.publishMu.Lock()
	defer idx.publishMu.Unlock()

	if idx.superseded(seq) {
		return nil, idx.discard(log)
	}
	if err := cycleCtx.Err(); err != nil {
		err = fmt.Errorf("load cycle %s aborted: %w", cycleID, err)
		idx.fail(log, err)
		return nil, err
	}

	snap := &Snapshot{
		CycleID:   cycleID,
		Sequence:  seq,
		LoadedAt:  time.Now(),
		Duration:  time.Since(start),
		Records:   records,
		Locations: locations,
		Timeline:  timeline,
		Failures:  failures,
	}
	idx.snapshot.Store(snap)

	idx.stateMu.Lock()
	idx.lastErr = nil
	idx.lastLoad = snap.LoadedAt
	idx.stateMu.Unlock()

	metrics.LoadCyclesTotal.WithLabelValues("success").Inc()
	metrics.LoadCycleLastTimestamp.Set(float64(snap.LoadedAt.Unix()))
	metrics.ViewItems.WithLabelValues("locations").Set(float64(len(locations)))
	metrics.ViewItems.WithLabelValues("timeline").Set(float64(len(timeline)))

	log.Info("load cycle published",
		"photos", len(records),
		"located", len(locations),
		"dated", len(timeline),
		"failures", failures,
		"duration", snap.Duration)

	idx.notify(snap)

	return snap, nil
}

// notify runs the view callbacks for a freshly published snapshot.
// Callers hold publishMu.
func (idx *Indexer) notify(snap *Snapshot) {
	if idx.locations.Publish(snap.Locations) {
		metrics.ViewNotificationsTotal.WithLabelValues("locations").Inc()
	} else {
		metrics.ViewNotificationsSuppressed.WithLabelValues("locations").Inc()
	}

	if idx.timeline.Publish(snap.Timeline) {
		metrics.ViewNotificationsTotal.WithLabelValues("timeline").Inc()
	} else {
		metrics.ViewNotificationsSuppressed.WithLabelValues("timeline").Inc()
	}
}

func (idx *Indexer) superseded(seq uint64) bool {
	idx.cycleMu.Lock()
	defer idx.cycleMu.Unlock()
	return seq != idx.seq
}

func (idx *Indexer) discard(log hclog.Logger) error {
	log.Debug("load cycle superseded, discarding results")
	metrics.LoadCyclesTotal.WithLabelValues("superseded").Inc()
	return ErrSuperseded
}

func (idx *Indexer) fail(log hclog.Logger, err error) {
	log.Error("load cycle failed", "error", err)
	metrics.LoadCyclesTotal.WithLabelValues("error").Inc()
	idx.stateMu.Lock()
	idx.lastErr = err
	idx.stateMu.Unlock()
}

// Start begins background loading: an initial load, periodic reloads and
// directory watching as configured.
func (idx *Indexer) Start() error {
	idx.wg.Add(1)
	go idx.run()

	if idx.config.Watch && idx.config.WatchDir != "" {
		w, err := newWatcher(idx.config.WatchDir, idx.config.WatchRecursive, idx.config.Debounce, func() {
			idx.trigger(TriggerWatch)
		})
		if err != nil {
			// Periodic reloads still pick up changes.
			logging.Warn("File watching disabled: %v", err)
		} else {
			idx.wg.Add(1)
			go func() {
				defer idx.wg.Done()
				w.run(idx.stopChan)
			}()
		}
	}

	idx.trigger(TriggerStartup)
	return nil
}

// Stop cancels any in-flight cycle and waits for background goroutines.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(func() {
		close(idx.stopChan)
		idx.cancel()
	})
	idx.wg.Wait()
}

// TriggerLoad requests a load cycle without waiting for it. Requests made
// while one is already queued are coalesced.
func (idx *Indexer) TriggerLoad() {
	idx.trigger(TriggerManual)
}

func (idx *Indexer) trigger(reason string) {
	select {
	case idx.triggerCh <- reason:
	default:
		logging.Debug("Load already queued, coalescing %s trigger", reason)
	}
}

func (idx *Indexer) run() {
	defer idx.wg.Done()

	var tick <-chan time.Time
	if idx.config.ReloadInterval > 0 {
		ticker := time.NewTicker(idx.config.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case reason := <-idx.triggerCh:
			idx.spawn(reason)
		case <-tick:
			logging.Debug("Periodic reload triggered")
			idx.spawn(TriggerPeriodic)
		case <-idx.stopChan:
			return
		}
	}
}

// spawn runs a cycle in the background so a newer trigger can supersede it.
func (idx *Indexer) spawn(reason string) {
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		if _, err := idx.load(idx.baseCtx, reason); err != nil && !errors.Is(err, ErrSuperseded) {
			logging.Debug("Background load (%s) ended with error: %v", reason, err)
		}
	}()
}

// IsLoading reports whether any cycle is in progress.
func (idx *Indexer) IsLoading() bool {
	return idx.running.Load() > 0
}

// IsReady reports whether a snapshot has been published.
func (idx *Indexer) IsReady() bool {
	return idx.snapshot.Load() != nil
}

// LastLoadTime returns when the last snapshot was published.
func (idx *Indexer) LastLoadTime() time.Time {
	idx.stateMu.RLock()
	defer idx.stateMu.RUnlock()
	return idx.lastLoad
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	snap := idx.Snapshot()

	idx.stateMu.RLock()
	lastErr := idx.lastErr
	lastLoad := idx.lastLoad
	idx.stateMu.RUnlock()

	status := HealthStatus{
		Ready:      idx.IsReady(),
		Loading:    idx.IsLoading(),
		StartTime:  idx.startTime,
		Uptime:     time.Since(idx.startTime).String(),
		LastLoaded: lastLoad,
		CycleID:    snap.CycleID,
		Sequence:   snap.Sequence,
		Photos:     len(snap.Records),
	}

	switch {
	case lastErr != nil:
		status.Status = "degraded"
		status.LastError = lastErr.Error()
	case !status.Ready:
		status.Status = "starting"
	default:
		status.Status = "ok"
	}

	return status
}
