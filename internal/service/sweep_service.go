package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// sweepTimeout bounds one pass over all students
const sweepTimeout = 10 * time.Minute

// SweepService runs the debtor sweep on a cron schedule. Payments lapse
// without any write, so the sweep is what moves students from Haqdor to Qarzdor.
type SweepService struct {
	reconciler *Reconciler
	schedule   string
	onStart    bool
	cron       *cron.Cron
	cancel     context.CancelFunc
}

func NewSweepService(reconciler *Reconciler, schedule string, onStart bool, loc *time.Location) *SweepService {
	if loc == nil {
		loc = time.UTC
	}
	return &SweepService{
		reconciler: reconciler,
		schedule:   schedule,
		onStart:    onStart,
		cron:       cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Start registers the sweep and starts the scheduler. The parent context
// cancels a sweep in progress.
func (s *SweepService) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	if _, err := s.cron.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		s.cancel()
		return fmt.Errorf("invalid debt sweep schedule %q: %w", s.schedule, err)
	}

	log.Printf("[DEBT-SWEEP] started schedule=%q onStart=%v", s.schedule, s.onStart)
	s.cron.Start()

	if s.onStart {
		go s.RunOnce(ctx)
	}
	return nil
}

// RunOnce performs a single sweep and logs its outcome
func (s *SweepService) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	started := time.Now()
	checked, changed, err := s.reconciler.SweepStudentStatuses(ctx)
	if err != nil {
		log.Printf("[DEBT-SWEEP] failed after %d students: %v", checked, err)
		return
	}
	log.Printf("[DEBT-SWEEP] checked=%d changed=%d took=%s", checked, changed, time.Since(started).Round(time.Millisecond))
}

// Stop halts the scheduler and waits for a running sweep to return
func (s *SweepService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	log.Println("[DEBT-SWEEP] stopped")
}
