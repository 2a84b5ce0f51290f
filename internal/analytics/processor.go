package analytics

import (
	"EquiSplit-Backend/internal/metrics"
	"EquiSplit-Backend/internal/service"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotStarted = errors.New("processor not started")
	ErrQueueFull  = errors.New("analytics queue is full")
)

// PageViewTracker persists a single page view.
type PageViewTracker interface {
	TrackPageView(ctx context.Context, in service.PageViewInput) error
}

// ProcessorConfig holds configuration for the analytics processor
type ProcessorConfig struct {
	WorkerCount     int           // Number of worker goroutines
	BufferSize      int           // Size of the job queue buffer
	JobTimeout      time.Duration // Deadline for a single page-view write
	ShutdownTimeout time.Duration // Time to wait for the queue to drain on Stop
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() ProcessorConfig {
	return ProcessorConfig{
		WorkerCount:     3,
		BufferSize:      1000,
		JobTimeout:      10 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Processor moves page-view writes off the request path. Each job is attempted once;
// a failed write is logged and dropped.
type Processor struct {
	config   ProcessorConfig
	tracker  PageViewTracker
	log      *zap.Logger
	metrics  *metrics.Metrics
	jobQueue chan service.PageViewInput
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex

	processed int64
	failed    int64
	statsMu   sync.Mutex
}

// NewProcessor creates a new analytics processor
func NewProcessor(tracker PageViewTracker, log *zap.Logger, m *metrics.Metrics, config ProcessorConfig) *Processor {
	defaults := DefaultConfig()
	if config.WorkerCount <= 0 {
		config.WorkerCount = defaults.WorkerCount
	}
	if config.BufferSize <= 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Processor{
		config:   config,
		tracker:  tracker,
		log:      log,
		metrics:  m,
		jobQueue: make(chan service.PageViewInput, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins processing page views
func (p *Processor) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return fmt.Errorf("processor already started")
	}
	if p.ctx.Err() != nil {
		return fmt.Errorf("processor already stopped")
	}

	p.log.Info("starting analytics processor",
		zap.Int("workers", p.config.WorkerCount),
		zap.Int("buffer_size", p.config.BufferSize),
	)

	// Start worker goroutines
	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	p.started = true
	return nil
}

// Stop refuses new jobs and waits for the queued ones to be written. Jobs still
// in flight when ShutdownTimeout expires are cancelled.
func (p *Processor) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.started = false
	// Submit holds the read lock while sending, so no send can race this close
	close(p.jobQueue)
	p.mu.Unlock()

	p.log.Info("stopping analytics processor", zap.Int("queued", len(p.jobQueue)))

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	defer p.cancel()

	select {
	case <-done:
		p.log.Info("analytics processor stopped gracefully")
		return nil
	case <-time.After(p.config.ShutdownTimeout):
		p.log.Warn("analytics processor shutdown timeout reached", zap.Int("abandoned", len(p.jobQueue)))
		return fmt.Errorf("shutdown timeout reached")
	}
}

// Submit queues a page view without blocking. A full queue drops the page view.
func (p *Processor) Submit(job service.PageViewInput) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.started {
		p.metrics.PageViewDropped()
		return ErrNotStarted
	}

	select {
	case p.jobQueue <- job:
		p.metrics.SetQueueLength(len(p.jobQueue))
		return nil
	default:
		p.log.Warn("analytics queue is full, dropping page view",
			zap.String("visitor_id", job.VisitorID),
			zap.String("page_url", job.PageURL),
			zap.Int("queue_size", len(p.jobQueue)),
		)
		p.metrics.PageViewDropped()
		return ErrQueueFull
	}
}

// TrackPageView queues the page view instead of writing it, so the processor can stand
// in for the synchronous recorder. ctx is not used: the write runs under the job timeout.
func (p *Processor) TrackPageView(_ context.Context, in service.PageViewInput) error {
	return p.Submit(in)
}

func (p *Processor) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.With(zap.Int("worker_id", workerID))
	log.Debug("analytics worker started")

	for job := range p.jobQueue {
		p.metrics.SetQueueLength(len(p.jobQueue))
		p.process(log, job)
	}

	log.Debug("analytics worker stopped")
}

func (p *Processor) process(log *zap.Logger, job service.PageViewInput) {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.JobTimeout)
	defer cancel()

	err := p.tracker.TrackPageView(ctx, job)

	p.statsMu.Lock()
	if err != nil {
		p.failed++
	} else {
		p.processed++
	}
	p.statsMu.Unlock()

	if err != nil {
		log.Warn("page view processing failed",
			zap.String("visitor_id", job.VisitorID),
			zap.String("page_url", job.PageURL),
			zap.Error(err),
		)
		return
	}

	log.Debug("page view recorded",
		zap.String("visitor_id", job.VisitorID),
		zap.String("page_url", job.PageURL),
	)
}

// GetStats returns processor statistics
func (p *Processor) GetStats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	return map[string]interface{}{
		"started":        p.started,
		"queue_length":   len(p.jobQueue),
		"queue_capacity": cap(p.jobQueue),
		"worker_count":   p.config.WorkerCount,
		"processed":      p.processed,
		"failed":         p.failed,
	}
}
