package bookings

import (
	"context"
	"log"
	"time"

	"github.com/kkkhs/study-room-booking/pkg/logger"
)

// JobProcessor runs the recurring sweeps that apply time-triggered
// transitions: no-show timeouts and end-of-window completions.
type JobProcessor struct {
	service Service
	config  *JobConfig
	logger  *logger.Logger
	done    chan struct{}
}

// JobConfig contains configuration for the sweep jobs
type JobConfig struct {
	SweepInterval time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		SweepInterval: 60 * time.Second,
	}
}

// NewJobProcessor creates a new sweep processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}

	return &JobProcessor{
		service: service,
		config:  config,
		logger:  logger.GetDefault(),
		done:    make(chan struct{}),
	}
}

// Start launches the sweep loop
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("Starting reservation sweep jobs...")
	go jp.runSweepLoop(ctx)
}

// Stop stops the sweep loop
func (jp *JobProcessor) Stop() {
	log.Println("Stopping reservation sweep jobs...")
	close(jp.done)
}

func (jp *JobProcessor) runSweepLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.config.SweepInterval)
	defer ticker.Stop()

	log.Printf("Started reservation sweep with %v interval", jp.config.SweepInterval)

	// Catch up immediately: reservations may have expired while the
	// process was down.
	jp.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			jp.runSweep(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) runSweep(ctx context.Context) {
	start := time.Now()

	timedOut, err := jp.service.SweepTimeouts(ctx)
	if err != nil {
		log.Printf("Error sweeping timed out reservations: %v", err)
	}

	completed, err := jp.service.SweepCompletions(ctx)
	if err != nil {
		log.Printf("Error sweeping completed reservations: %v", err)
	}

	if timedOut > 0 || completed > 0 {
		jp.logger.LogSweepResult(ctx, timedOut, completed, time.Since(start))
	}
}

// GetJobStatus reports the sweep configuration for health endpoints
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	return map[string]interface{}{
		"sweep_interval": jp.config.SweepInterval.String(),
		"status":         "running",
	}
}
