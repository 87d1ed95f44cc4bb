package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/payroll-management/internal/core/events"
)

type Job struct {
	Notification *Notification
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing notification",
					"worker_id", w.ID,
					"employee_id", job.Notification.EmployeeID)
				processFunc(job)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

// Dispatcher subscribes to payroll events and turns them into persisted
// notifications through a bounded worker pool. A full queue drops the
// notification with a warning; delivery never blocks the publisher.
type Dispatcher struct {
	repo   Repository
	logger *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

type Config struct {
	MaxWorkers   int
	JobQueueSize int
}

func NewDispatcher(config Config, repo Repository, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	d := &Dispatcher{
		repo:   repo,
		logger: logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.startWorkerPool()

	return d
}

func (d *Dispatcher) startWorkerPool() {
	d.once.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			worker := NewWorker(i, d.workerPool, d.logger)
			worker.Start(d.ctx, &d.wg, d.processJob)
		}

		d.wg.Add(1)
		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"max_workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue))
	})
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.jobQueue:
			select {
			case jobChannel := <-d.workerPool:
				select {
				case jobChannel <- job:
				case <-d.ctx.Done():
					d.logger.Info("notification dispatcher shutting down")
					return
				}
			case <-d.ctx.Done():
				d.logger.Info("notification dispatcher shutting down")
				return
			}
		case <-d.ctx.Done():
			d.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

func (d *Dispatcher) Shutdown() {
	d.logger.Info("shutting down notification dispatcher")
	d.cancel()
	d.wg.Wait()
	d.logger.Info("notification dispatcher shutdown complete")
}

func (d *Dispatcher) processJob(job Job) {
	if err := d.repo.Create(job.Notification); err != nil {
		d.logger.Error("failed to persist notification",
			"error", err,
			"employee_id", job.Notification.EmployeeID,
			"type", job.Notification.Type)
		return
	}

	d.logger.Info("notification delivered",
		"employee_id", job.Notification.EmployeeID,
		"type", job.Notification.Type)
}

func (d *Dispatcher) enqueue(n *Notification) error {
	select {
	case d.jobQueue <- Job{Notification: n}:
		return nil
	default:
		d.logger.Warn("notification queue full, dropping notification",
			"employee_id", n.EmployeeID,
			"type", n.Type,
			"queue_capacity", cap(d.jobQueue))
		return fmt.Errorf("notification queue full")
	}
}

// SubscribeTo registers the dispatcher's handlers on the event bus. Only the
// per-employee transition events produce notifications; batch processing has
// no single addressee.
func (d *Dispatcher) SubscribeTo(bus *events.EventBus) {
	bus.Subscribe(events.EventPayrollApproved, d.handleApproved)
	bus.Subscribe(events.EventPayrollRejected, d.handleRejected)
}

func (d *Dispatcher) handleApproved(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for event %s", event.EventID())
	}

	employeeID, ok := asInt64(data["employee_id"])
	if !ok {
		return fmt.Errorf("missing employee_id in event %s", event.EventID())
	}
	payrollID, _ := asInt64(data["payroll_id"])

	return d.enqueue(&Notification{
		EmployeeID: employeeID,
		Type:       TypePayrollApproved,
		Title:      "Payroll approved",
		Message:    asString(data["message"]),
		Link:       fmt.Sprintf("/payroll/%d", payrollID),
		CreatedAt:  time.Now(),
	})
}

func (d *Dispatcher) handleRejected(ctx context.Context, event events.Event) error {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return fmt.Errorf("unexpected payload for event %s", event.EventID())
	}

	employeeID, ok := asInt64(data["employee_id"])
	if !ok {
		return fmt.Errorf("missing employee_id in event %s", event.EventID())
	}
	payrollID, _ := asInt64(data["payroll_id"])

	message := asString(data["message"])
	if reason := asString(data["reason"]); reason != "" {
		message = fmt.Sprintf("%s. Reason: %s", message, reason)
	}

	return d.enqueue(&Notification{
		EmployeeID: employeeID,
		Type:       TypePayrollRejected,
		Title:      "Payroll rejected",
		Message:    message,
		Link:       fmt.Sprintf("/payroll/%d", payrollID),
		CreatedAt:  time.Now(),
	})
}

// Event payloads round-trip through map[string]interface{}, so numbers may
// arrive as int64, int, or float64 depending on the producer.
func asInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func asString(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}
