package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/biovote/internal/booth/domain"
	"github.com/aussiebroadwan/biovote/internal/booth/store"
)

// IntegrityReport compares settled voters against recorded ballots. The two
// must always match.
type IntegrityReport struct {
	Eligible int
	Voted    int
	Ballots  int
}

func (r IntegrityReport) Consistent() bool { return r.Voted == r.Ballots }

// IntegrityService periodically audits the store and logs any mismatch
// between voted voters and ballots.
type IntegrityService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	mu   sync.Mutex
	last IntegrityReport

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewIntegrityService defaults interval to 5 minutes when not positive.
func NewIntegrityService(st store.Store, logger *slog.Logger, interval time.Duration) *IntegrityService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &IntegrityService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the worker. Call Stop to shut it down.
func (s *IntegrityService) Start() {
	go s.run()
	s.Logger.Info("integrity audit started", "interval", s.Interval)
}

// Stop blocks until an in-progress audit has finished.
func (s *IntegrityService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("integrity audit stopped")
}

func (s *IntegrityService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.audit()

	for {
		select {
		case <-ticker.C:
			s.audit()
		case <-s.stopCh:
			return
		}
	}
}

func (s *IntegrityService) audit() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	report, err := s.Check(ctx)
	if err != nil {
		s.Logger.Error("integrity audit failed", "error", err)
		return
	}
	if !report.Consistent() {
		s.Logger.Error("integrity violation: voted voters and ballots differ",
			"voted", report.Voted,
			"ballots", report.Ballots,
		)
		return
	}
	s.Logger.Debug("integrity audit passed",
		"eligible", report.Eligible,
		"voted", report.Voted,
		"ballots", report.Ballots,
	)
}

// Check runs one audit inside a transaction so both counts come from the
// same snapshot, and remembers the result for Last.
func (s *IntegrityService) Check(ctx context.Context) (IntegrityReport, error) {
	var report IntegrityReport
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		counts, err := tx.Voters().CountByStatus(ctx)
		if err != nil {
			return err
		}
		ballots, err := tx.Ballots().Count(ctx)
		if err != nil {
			return err
		}
		report = IntegrityReport{
			Eligible: counts[domain.StatusEligible],
			Voted:    counts[domain.StatusVoted],
			Ballots:  ballots,
		}
		return nil
	})
	if err != nil {
		return IntegrityReport{}, err
	}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()
	return report, nil
}

// Last returns the most recent report.
func (s *IntegrityService) Last() IntegrityReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
