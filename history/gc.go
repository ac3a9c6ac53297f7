package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// badgerLogger routes badger's printf-style logging into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) logf(level slog.Level, format string, args []interface{}) {
	l.logger.Log(context.Background(), level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Errorf(f string, a ...interface{})   { l.logf(slog.LevelError, f, a) }
func (l *badgerLogger) Warningf(f string, a ...interface{}) { l.logf(slog.LevelWarn, f, a) }
func (l *badgerLogger) Infof(f string, a ...interface{})    { l.logf(slog.LevelInfo, f, a) }
func (l *badgerLogger) Debugf(f string, a ...interface{})   { l.logf(slog.LevelDebug, f, a) }

// gcRunner triggers value-log GC on a ticker until stopped.
type gcRunner struct {
	db       *badger.DB
	interval time.Duration
	ratio    float64
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newGCRunner(db *badger.DB, interval time.Duration, ratio float64, logger *slog.Logger) (*gcRunner, error) {
	if interval <= 0 {
		return nil, errors.New("gc interval must be positive")
	}
	if ratio <= 0 || ratio >= 1 {
		// badger rejects ratios outside (0, 1)
		ratio = 0.5
	}
	return &gcRunner{
		db:       db,
		interval: interval,
		ratio:    ratio,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

func (r *gcRunner) start() { go r.run() }

func (r *gcRunner) stop() {
	close(r.stopCh)
	<-r.doneCh
}

func (r *gcRunner) run() {
	defer close(r.doneCh)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.collect()
		}
	}
}

func (r *gcRunner) collect() {
	err := r.db.RunValueLogGC(r.ratio)
	switch {
	case err == nil:
		r.logger.Debug("history value log GC completed")
	case !errors.Is(err, badger.ErrNoRewrite):
		r.logger.Warn("history value log GC failed", "error", err)
	}
}
