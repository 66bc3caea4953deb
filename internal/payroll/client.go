package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// SyncJob is one unit of work for the payroll provider: either a week of
// approved hours or a newly provisioned employee record.
type SyncJob struct {
	Kind           string
	TenantID       int64
	ContractorID   int64
	ContractorName string
	WeekStart      string
	EntryIDs       []int64
	Email          string
}

const (
	JobKindApprovedWeek = "approved_week"
	JobKindNewEmployee  = "new_employee"
)

type Worker struct {
	ID         int
	WorkerPool chan chan SyncJob
	JobChannel chan SyncJob
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan SyncJob, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan SyncJob),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(SyncJob)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing sync job", "worker_id", w.ID, "kind", job.Kind)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Client pushes payroll sync jobs through a bounded worker pool. Syncing
// is fire-and-forget: a failed push is logged and dropped, it never blocks
// or rolls back the approval that triggered it. Without a provider URL the
// client simulates the provider with random latency and a failure rate.
type Client struct {
	providerURL string
	apiKey      string
	syncTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan SyncJob
	workerPool chan chan SyncJob
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	ProviderURL  string
	APIKey       string
	SyncTimeout  time.Duration
	MaxWorkers   int
	JobQueueSize int
}

func NewClient(config Config, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	syncTimeout := config.SyncTimeout
	if syncTimeout <= 0 {
		syncTimeout = 10 * time.Second
	}

	client := &Client{
		providerURL: config.ProviderURL,
		apiKey:      config.APIKey,
		syncTimeout: syncTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan SyncJob, jobQueueSize),
		workerPool: make(chan chan SyncJob, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	client.startWorkerPool()

	return client
}

func (c *Client) startWorkerPool() {
	c.once.Do(func() {
		for i := 0; i < c.maxWorkers; i++ {
			worker := NewWorker(i, c.workerPool, c.logger)
			worker.Start(c.ctx, &c.wg, c.processSyncJob)
		}

		go c.dispatch()

		c.logger.Info("payroll sync worker pool started",
			"max_workers", c.maxWorkers,
			"queue_size", cap(c.jobQueue))
	})
}

func (c *Client) dispatch() {
	defer c.wg.Done()
	c.wg.Add(1)

	for {
		select {
		case job := <-c.jobQueue:
			select {
			case jobChannel := <-c.workerPool:
				select {
				case jobChannel <- job:
				case <-c.ctx.Done():
					c.logger.Info("dispatcher shutting down")
					return
				}
			case <-c.ctx.Done():
				c.logger.Info("dispatcher shutting down")
				return
			}
		case <-c.ctx.Done():
			c.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (c *Client) Shutdown() {
	c.logger.Info("shutting down payroll sync client")
	c.cancel()
	c.wg.Wait()
	c.logger.Info("payroll sync client shutdown complete")
}

// Enqueue queues a sync job, dropping it with a log line when the queue
// is full. Payroll sync never creates back pressure on the API.
func (c *Client) Enqueue(job SyncJob) {
	select {
	case c.jobQueue <- job:
		c.logger.Info("payroll sync job queued",
			"kind", job.Kind,
			"tenant_id", job.TenantID,
			"queue_length", len(c.jobQueue))
	default:
		c.logger.Warn("payroll sync queue full, dropping job",
			"kind", job.Kind,
			"tenant_id", job.TenantID,
			"queue_capacity", cap(c.jobQueue))
	}
}

func (c *Client) processSyncJob(job SyncJob) {
	var err error
	if c.providerURL != "" {
		err = c.pushToProvider(job)
	} else {
		err = c.simulateProvider(job)
	}

	if err != nil {
		c.logger.Error("payroll sync failed",
			"kind", job.Kind,
			"tenant_id", job.TenantID,
			"contractor_id", job.ContractorID,
			"week_start", job.WeekStart,
			"error", err)
		return
	}

	c.logger.Info("payroll sync complete",
		"kind", job.Kind,
		"tenant_id", job.TenantID,
		"contractor_id", job.ContractorID,
		"week_start", job.WeekStart,
		"entry_count", len(job.EntryIDs))
}

func (c *Client) pushToProvider(job SyncJob) error {
	payload := map[string]interface{}{
		"kind":            job.Kind,
		"tenant_id":       job.TenantID,
		"contractor_id":   job.ContractorID,
		"contractor_name": job.ContractorName,
		"week_start":      job.WeekStart,
		"entry_ids":       job.EntryIDs,
		"email":           job.Email,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(c.ctx, c.syncTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.providerURL+"/sync", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	client := &http.Client{Timeout: c.syncTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("payroll provider returned status %d", resp.StatusCode)
	}

	return nil
}

// simulateProvider stands in for the real payroll API in development:
// a short random delay and roughly one failure in ten.
func (c *Client) simulateProvider(job SyncJob) error {
	delay := time.Duration(500+rand.Intn(1500)) * time.Millisecond

	select {
	case <-time.After(delay):
	case <-c.ctx.Done():
		return c.ctx.Err()
	}

	if rand.Intn(10) == 0 {
		return fmt.Errorf("simulated provider outage")
	}

	return nil
}
