package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ecinar/unified-inbox/internal/domain"
	"github.com/ecinar/unified-inbox/internal/service"
	"github.com/ecinar/unified-inbox/pkg/logger"
)

// dueProcessor is a minimal internal interface for the dispatcher loop.
// It matches ProcessDue of DispatchService and lets us unit test the
// loop with a small fake implementation.
type dueProcessor interface {
	ProcessDue(ctx context.Context) ([]domain.DispatchResult, error)
}

// Dispatcher runs the scheduled-send batch job on a ticker. The same
// processing is also reachable through the cron-triggered endpoint;
// overlapping runs are safe because the store's conditional transition
// is the concurrency control, not this loop.
type Dispatcher struct {
	dispatchService dueProcessor
	interval        time.Duration
	alertWebhook    string
	alertThreshold  int // consecutive all-fail runs before alert
	lastAlertSentAt time.Time

	// Internal state
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
	mu       sync.RWMutex

	// Statistics
	lastRunAt      time.Time
	jobsDispatched int64
	runsCount      int64

	consecutiveAllFailCount int
}

func NewDispatcher(dispatchService *service.DispatchService, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		dispatchService: dispatchService,
		interval:        interval,
		running:         false,
	}
}

func (d *Dispatcher) SetAlerting(webhookURL string, threshold int) {
	d.mu.Lock()
	d.alertWebhook = webhookURL
	d.alertThreshold = threshold
	d.mu.Unlock()
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()

	if d.running {
		d.mu.Unlock()
		logger.Warnf("Dispatcher is already running")
		return nil
	}

	d.running = true
	d.stopChan = make(chan struct{})
	d.doneChan = make(chan struct{})
	d.mu.Unlock()

	logger.Infof("Starting dispatcher with interval: %v", d.interval)

	go d.run(ctx)

	return nil
}

func (d *Dispatcher) run(ctx context.Context) {
	defer close(d.doneChan)

	d.RunOnce(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	logger.Infof("Dispatcher running. Next execution in %v", d.interval)

	for {
		select {
		case <-ticker.C:
			d.RunOnce(ctx)
			logger.Debugf("Next execution in %v", d.interval)

		case <-d.stopChan:
			logger.Warnf("Dispatcher received stop signal")
			return

		case <-ctx.Done():
			logger.Warnf("Dispatcher context cancelled")
			return
		}
	}
}

// RunOnce executes one dispatch pass and returns how many jobs were
// claimed. It is called by the ticker loop and by the cron endpoint.
func (d *Dispatcher) RunOnce(ctx context.Context) int {
	d.mu.Lock()
	startedAt := time.Now()
	d.lastRunAt = startedAt
	d.runsCount++
	runNumber := d.runsCount
	alertWebhook := d.alertWebhook
	alertThreshold := d.alertThreshold
	d.mu.Unlock()

	logger.Infof("[Run #%d] Starting dispatch at %s", runNumber, startedAt.Format(time.RFC3339))

	results, err := d.dispatchService.ProcessDue(ctx)
	if err != nil {
		logger.Errorf("[Run #%d] Error dispatching jobs: %v", runNumber, err)
		return 0
	}

	if results == nil {
		logger.Debugf("[Run #%d] No jobs to dispatch", runNumber)
		return 0
	}

	successCount := 0
	attempted := 0
	for _, r := range results {
		if r.Skipped {
			continue
		}
		attempted++
		if r.Success {
			successCount++
		}
	}

	d.mu.Lock()
	d.jobsDispatched += int64(successCount)

	// Track consecutive all-fail runs
	if attempted > 0 && successCount == 0 {
		d.consecutiveAllFailCount++
		logger.Warnf("[Run #%d] All %d jobs failed (consecutive count: %d/%d)",
			runNumber, attempted, d.consecutiveAllFailCount, alertThreshold)

		if d.consecutiveAllFailCount >= alertThreshold && alertThreshold > 0 && alertWebhook != "" {
			go d.sendAlert(alertWebhook, runNumber, d.consecutiveAllFailCount, attempted)
		}
	} else if attempted > 0 {
		if d.consecutiveAllFailCount > 0 {
			logger.Debugf(
				"[Run #%d] Resetting consecutive failure count (was: %d)",
				runNumber,
				d.consecutiveAllFailCount,
			)
		}
		d.consecutiveAllFailCount = 0
	}
	d.mu.Unlock()

	logger.Infof("[Run #%d] Claimed %d jobs, %d sent, %d failed, %d skipped",
		runNumber, len(results), successCount, attempted-successCount, len(results)-attempted)

	return len(results)
}

func (d *Dispatcher) Stop() error {
	d.mu.Lock()

	if !d.running {
		d.mu.Unlock()
		logger.Warnf("Dispatcher is not running")
		return nil
	}

	d.running = false
	stopChan := d.stopChan
	doneChan := d.doneChan
	d.mu.Unlock()

	// Send stop signal
	close(stopChan)

	// Wait for goroutine to finish
	<-doneChan

	logger.Infof("Dispatcher stopped")
	return nil
}

func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

func (d *Dispatcher) GetStatus() Status {
	d.mu.RLock()
	defer d.mu.RUnlock()

	status := Status{
		Running:                 d.running,
		LastRunAt:               d.lastRunAt,
		JobsDispatched:          d.jobsDispatched,
		RunsCount:               d.runsCount,
		Interval:                d.interval,
		ConsecutiveAllFailCount: d.consecutiveAllFailCount,
		LastAlertSentAt:         d.lastAlertSentAt,
	}

	if d.running && !d.lastRunAt.IsZero() {
		status.NextRunAt = d.lastRunAt.Add(d.interval)
	}

	return status
}

func (d *Dispatcher) sendAlert(webhookURL string, runNumber int64, consecutiveFailures int, jobsInBatch int) {
	alertPayload := map[string]any{
		"alert":               "consecutive_all_fail",
		"runNumber":           runNumber,
		"consecutiveFailures": consecutiveFailures,
		"jobsInBatch":         jobsInBatch,
		"timestamp":           time.Now().Format(time.RFC3339),
		"message": fmt.Sprintf(
			"All %d scheduled sends failed for %d consecutive runs",
			jobsInBatch,
			consecutiveFailures,
		),
	}

	jsonData, err := json.Marshal(alertPayload)
	if err != nil {
		logger.Errorf("Failed to marshal alert payload: %v", err)
		return
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		logger.Errorf("Failed to send alert to webhook: %v", err)
		return
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnf("Failed to close alert webhook response body: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		d.mu.Lock()
		d.lastAlertSentAt = time.Now()
		d.mu.Unlock()
		logger.Infof("Alert sent successfully to %s (consecutive failures: %d)", webhookURL, consecutiveFailures)
	} else {
		logger.Warnf("Alert webhook returned status %d", resp.StatusCode)
	}
}

type Status struct {
	Running                 bool          `json:"running"`
	LastRunAt               time.Time     `json:"lastRunAt,omitempty"`
	NextRunAt               time.Time     `json:"nextRunAt,omitempty"`
	JobsDispatched          int64         `json:"jobsDispatched"`
	RunsCount               int64         `json:"runsCount"`
	Interval                time.Duration `json:"interval"`
	ConsecutiveAllFailCount int           `json:"consecutiveAllFailCount"`
	LastAlertSentAt         time.Time     `json:"lastAlertSentAt,omitempty"`
}
