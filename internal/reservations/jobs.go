package reservations

import (
	"context"
	"log"
	"time"
)

// JobProcessor runs the background expiry sweep. The sweep is bookkeeping
// only: occupancy queries already treat lapsed holds as free, the sweep
// just flips their status to EXPIRED so reports do not have to reapply the
// expiry predicate.
type JobProcessor struct {
	service  Service
	interval time.Duration
	done     chan struct{}
}

func NewJobProcessor(service Service, interval time.Duration) *JobProcessor {
	return &JobProcessor{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the expiry sweep loop. A non-positive interval disables it.
func (jp *JobProcessor) Start(ctx context.Context) {
	if jp.interval <= 0 {
		log.Println("Reservation expiry sweep disabled")
		return
	}

	log.Printf("Starting reservation expiry sweep (interval: %v)", jp.interval)
	go jp.expiryLoop(ctx)
}

// Stop gracefully stops the job processor
func (jp *JobProcessor) Stop() {
	log.Println("Stopping reservation expiry sweep...")
	close(jp.done)
}

func (jp *JobProcessor) expiryLoop(ctx context.Context) {
	ticker := time.NewTicker(jp.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			jp.runSweep(ctx)
		case <-jp.done:
			log.Println("Reservation expiry sweep stopped")
			return
		case <-ctx.Done():
			log.Println("Reservation expiry sweep cancelled")
			return
		}
	}
}

func (jp *JobProcessor) runSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	expired, err := jp.service.ExpireStaleReservations(sweepCtx)
	if err != nil {
		log.Printf("Error sweeping expired reservations: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("Marked %d lapsed reservations as expired", expired)
	}
}
