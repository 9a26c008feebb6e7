package jobs

import (
	"context"
	"log"
	"time"

	"chequemate-backend/internal/domain/clearing"

	"github.com/go-co-op/gocron/v2"
)

// StalenessDetector periodically flags clearing records that were forwarded
// to a drawer bank but never responded. It only marks them (data quality
// signal for operators); there is no timeout-and-cancel.
type StalenessDetector struct {
	repo       clearing.Repository
	staleAfter time.Duration
	interval   time.Duration
	sched      gocron.Scheduler
}

func NewStalenessDetector(repo clearing.Repository, staleAfter, interval time.Duration) *StalenessDetector {
	return &StalenessDetector{repo: repo, staleAfter: staleAfter, interval: interval}
}

func (d *StalenessDetector) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	_, err = sched.NewJob(
		gocron.DurationJob(d.interval),
		gocron.NewTask(d.Scan),
	)
	if err != nil {
		return err
	}
	sched.Start()
	d.sched = sched
	return nil
}

func (d *StalenessDetector) Stop() {
	if d.sched != nil {
		_ = d.sched.Shutdown()
	}
}

// Scan is one detector pass, exposed so it can be driven directly in tests.
func (d *StalenessDetector) Scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-d.staleAfter)
	n, err := d.repo.MarkStaleForwardedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("[staleness] scan failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[staleness] flagged %d clearing record(s) forwarded before %s with no response", n, cutoff.Format(time.RFC3339))
	}
}
