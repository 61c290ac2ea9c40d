package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ReaperConfig struct {
	// TTL <= 0 disables the reaper.
	TTL          time.Duration
	CronSchedule string
	BatchSize    int
	RunTimeout   time.Duration
}

type staleLister interface {
	ListStaleSessions(ctx context.Context, createdBefore time.Time, limit int) ([]uuid.UUID, error)
}

type sessionEnder interface {
	EndSession(ctx context.Context, sessionID uuid.UUID) error
}

// StaleSessionReaper force-finishes sessions left unfinished for longer than TTL.
type StaleSessionReaper struct {
	lister staleLister
	ender  sessionEnder
	cfg    ReaperConfig
	now    func() time.Time
	log    *logrus.Entry
}

func NewStaleSessionReaper(lister staleLister, ender sessionEnder, cfg ReaperConfig, log logrus.FieldLogger) *StaleSessionReaper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "@every 5m"
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 4 * time.Minute
	}
	return &StaleSessionReaper{
		lister: lister,
		ender:  ender,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.WithField("component", "stale_session_reaper"),
	}
}

// RunOnce ends one batch of stale sessions and returns how many it finished.
func (r *StaleSessionReaper) RunOnce(ctx context.Context) (int, error) {
	if r.cfg.TTL <= 0 {
		return 0, nil
	}
	before := r.now().Add(-r.cfg.TTL)
	ids, err := r.lister.ListStaleSessions(ctx, before, r.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, id := range ids {
		err := r.ender.EndSession(ctx, id)
		switch {
		case err == nil:
			ended++
		case errors.Is(err, ErrAlreadyFinished), errors.Is(err, ErrNotFound):
			// submitted or removed since the listing
		default:
			return ended, errors.Wrapf(err, "end stale session %s", id)
		}
	}
	if ended > 0 {
		r.log.WithFields(logrus.Fields{"ended": ended, "before": before.Format(time.RFC3339)}).Info("stale sessions ended")
	}
	return ended, nil
}

// Start schedules RunOnce; the caller stops the returned cron on shutdown.
// Returns nil, nil when the reaper is disabled.
func (r *StaleSessionReaper) Start() (*cron.Cron, error) {
	if r.cfg.TTL <= 0 {
		r.log.Info("SESSION_TTL not set, reaper disabled")
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(r.cfg.CronSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.RunTimeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.log.WithError(err).Error("reaper run failed")
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "add reaper schedule %q", r.cfg.CronSchedule)
	}

	r.log.WithFields(logrus.Fields{
		"schedule": r.cfg.CronSchedule,
		"ttl":      r.cfg.TTL.String(),
		"batch":    r.cfg.BatchSize,
	}).Info("reaper started")
	c.Start()
	return c, nil
}
