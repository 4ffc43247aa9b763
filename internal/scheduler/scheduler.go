package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/posts-service/internal/metrics"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// pruneTimeout bounds a single prune run
const pruneTimeout = 30 * time.Second

// TokenPruner deletes expired auth tokens
type TokenPruner interface {
	PruneExpiredTokens(ctx context.Context) (int64, error)
}

// New returns a stopped cron scheduler running the token prune job on
// schedule (standard five-field expression or descriptors such as "@hourly").
func New(pruner TokenPruner, schedule string, log *logrus.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(log)), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, pruneJob(pruner, log)); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_PRUNE_SCHEDULE %q: %w", schedule, err)
	}
	return c, nil
}

func pruneJob(pruner TokenPruner, log *logrus.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
		defer cancel()

		n, err := pruner.PruneExpiredTokens(ctx)
		metrics.RecordTokenPrune(n, err)
		if err != nil {
			log.WithError(err).Error("Failed to prune expired tokens")
			return
		}
		log.WithField("deleted", n).Debug("Token prune finished")
	}
}
