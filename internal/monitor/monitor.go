// Package monitor runs the node's main loop: it samples the sensors, keeps
// the display current and turns trigger signals into published reports.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/river-monitor/internal/domain"
	"github.com/couchcryptid/river-monitor/internal/observability"
	"github.com/couchcryptid/river-monitor/internal/trigger"
	"github.com/jonboulle/clockwork"
)

// Sampler produces calibrated metrics from the sensors.
type Sampler interface {
	Sample() domain.Metrics
}

// Notifier shows a risk label and river level on the local display.
type Notifier interface {
	Render(label string, level float64)
}

// Publisher stores the latest report for concurrent readers.
type Publisher interface {
	Publish(r domain.Report)
}

// Dispatcher forwards published reports to external sinks without blocking.
type Dispatcher interface {
	Dispatch(r domain.Report)
}

// Options tunes the main loop. Zero durations fall back to the defaults.
type Options struct {
	Baseline       float64
	SampleInterval time.Duration
	ReportInterval time.Duration
	Clock          clockwork.Clock
	Button         *trigger.Button // nil disables the button path
	Dispatcher     Dispatcher      // nil disables external sinks
}

type webRequest struct {
	reply chan domain.Report
}

// Monitor owns the report sequence. All display updates and report
// generations triggered by the timer, the button or the web listener run on
// the goroutine executing Run.
type Monitor struct {
	sampler    Sampler
	notifier   Notifier
	publisher  Publisher
	dispatcher Dispatcher
	button     *trigger.Button
	logger     *slog.Logger
	metrics    *observability.Metrics
	clock      clockwork.Clock

	baseline       float64
	sampleInterval time.Duration
	reportInterval time.Duration

	requests chan webRequest
	ready    atomic.Bool

	// Generation state; guarded by mu.
	mu            sync.Mutex
	nextID        uint64
	previousLevel float64

	outOfRange bool // loop goroutine only
}

// New creates a Monitor. Reports are numbered from 1.
func New(s Sampler, n Notifier, p Publisher, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Monitor {
	if opts.Baseline <= 0 {
		opts.Baseline = domain.DefaultBaselineLevel
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = time.Second
	}
	if opts.ReportInterval <= 0 {
		opts.ReportInterval = 10 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Monitor{
		sampler:        s,
		notifier:       n,
		publisher:      p,
		dispatcher:     opts.Dispatcher,
		button:         opts.Button,
		logger:         logger,
		metrics:        metrics,
		clock:          opts.Clock,
		baseline:       opts.Baseline,
		sampleInterval: opts.SampleInterval,
		reportInterval: opts.ReportInterval,
		requests:       make(chan webRequest),
		nextID:         1,
	}
}

// CheckReadiness returns nil once at least one report has been published.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if !m.ready.Load() {
		return errors.New("no report published yet")
	}
	return nil
}

// Run executes the main loop until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"sample_interval", m.sampleInterval,
		"report_interval", m.reportInterval,
		"baseline", m.baseline,
	)
	m.metrics.LoopRunning.Set(1)
	defer m.metrics.LoopRunning.Set(0)

	sampleTicker := m.clock.NewTicker(m.sampleInterval)
	defer sampleTicker.Stop()
	periodic := trigger.NewPeriodic(m.clock, m.reportInterval)
	defer periodic.Stop()

	var buttonRequests <-chan struct{}
	if m.button != nil {
		buttonRequests = m.button.Requests()
	}

	m.refresh()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-sampleTicker.Chan():
			m.refresh()
		case <-periodic.C():
			m.Generate(domain.TriggerPeriodic)
		case <-buttonRequests:
			for n := m.button.Drain(); n > 0; n-- {
				m.Generate(domain.TriggerButton)
			}
		case req := <-m.requests:
			req.reply <- m.Generate(domain.TriggerWeb)
		}
	}
}

// RequestReport asks the main loop for one report and waits for it. It
// fails only when ctx ends first.
func (m *Monitor) RequestReport(ctx context.Context) (domain.Report, error) {
	req := webRequest{reply: make(chan domain.Report, 1)}
	select {
	case m.requests <- req:
	case <-ctx.Done():
		return domain.Report{}, ctx.Err()
	}
	select {
	case r := <-req.reply:
		return r, nil
	case <-ctx.Done():
		return domain.Report{}, ctx.Err()
	}
}

// Generate samples, classifies, updates the display and publishes the next
// report. Concurrent calls are serialized, so ids follow publish order.
func (m *Monitor) Generate(t domain.Trigger) domain.Report {
	m.mu.Lock()
	metrics := m.sampler.Sample()
	report := domain.NewReport(m.nextID, metrics, m.previousLevel, m.baseline, t)
	m.notifier.Render(report.StatusLabel, report.CurrentLevel)
	m.publisher.Publish(report)
	m.nextID++
	m.previousLevel = report.CurrentLevel
	if m.dispatcher != nil {
		m.dispatcher.Dispatch(report)
	}
	// Gauges follow publish order.
	m.observe(metrics, report.Status)
	m.mu.Unlock()

	m.ready.Store(true)
	m.metrics.ReportsGenerated.WithLabelValues(string(t)).Inc()
	m.logReport(report)
	return report
}

// refresh is the display tick: sample, classify and render without
// producing a report.
func (m *Monitor) refresh() {
	metrics := m.sampler.Sample()
	status, label := domain.Classify(metrics.RiverLevel, metrics.RainIntensity, m.baseline)
	m.notifier.Render(label, metrics.RiverLevel)
	m.observe(metrics, status)

	if metrics.OutOfRange != m.outOfRange {
		m.outOfRange = metrics.OutOfRange
		if metrics.OutOfRange {
			m.logger.Warn("river level out of expected range",
				"level", metrics.RiverLevel,
				"min", 0.0,
				"max", 2*m.baseline,
			)
		} else {
			m.logger.Info("river level back in expected range", "level", metrics.RiverLevel)
		}
	}
}

func (m *Monitor) observe(metrics domain.Metrics, status domain.RiskLevel) {
	m.metrics.RiverLevel.Set(metrics.RiverLevel)
	m.metrics.RainIntensity.Set(metrics.RainIntensity)
	m.metrics.RiskLevel.Set(float64(status))
	if metrics.OutOfRange {
		m.metrics.LevelOutOfRange.Set(1)
	} else {
		m.metrics.LevelOutOfRange.Set(0)
	}
}

func (m *Monitor) logReport(r domain.Report) {
	attrs := []any{
		"id", r.ID,
		"trigger", r.Trigger,
		"level", r.CurrentLevel,
		"previous_level", r.PreviousLevel,
		"diff_percent", r.DiffPercent,
		"status", r.StatusLabel,
	}
	if r.RainIntensity > 0 {
		attrs = append(attrs, "rain", r.RainIntensity)
	} else {
		attrs = append(attrs, "rain", "none")
	}
	if r.OutOfRange {
		attrs = append(attrs, "out_of_range", true)
	}
	m.logger.Info("report generated", attrs...)
}
