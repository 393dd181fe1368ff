package worker

import (
	"context"
	"errors"
	"fmt"

	"spine/internal/domain/banking"
	"spine/internal/domain/insight"
	"spine/internal/shared/logger"
)

type Syncer interface {
	SyncUser(ctx context.Context, userID string) (*banking.SyncResult, error)
}

type Scorer interface {
	Calculate(ctx context.Context, userID string) (*insight.Insight, error)
}

type SyncJob struct {
	userID string
	syncer Syncer
}

func NewSyncJob(userID string, syncer Syncer) *SyncJob {
	return &SyncJob{userID: userID, syncer: syncer}
}

func (j *SyncJob) Execute(ctx context.Context) error {
	result, err := j.syncer.SyncUser(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if result.LinksAbandoned > 0 {
		return fmt.Errorf("sync abandoned %d of %d links", result.LinksAbandoned, result.LinksAbandoned+result.LinksSynced)
	}
	return nil
}

func (j *SyncJob) UserID() string      { return j.userID }
func (j *SyncJob) Description() string { return "transaction sync" }

type ScoreJob struct {
	userID string
	scorer Scorer
}

func NewScoreJob(userID string, scorer Scorer) *ScoreJob {
	return &ScoreJob{userID: userID, scorer: scorer}
}

func (j *ScoreJob) Execute(ctx context.Context) error {
	saved, err := j.scorer.Calculate(ctx, j.userID)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}
	l := logger.FromContext(ctx)
	l.Debug().Int("risk_score", saved.RiskScore).Msg("scored")
	return nil
}

func (j *ScoreJob) UserID() string      { return j.userID }
func (j *ScoreJob) Description() string { return "risk scoring" }

// RefreshJob syncs and then scores one user. A user without bank links is
// still scored from manual transactions.
type RefreshJob struct {
	sync  *SyncJob
	score *ScoreJob
}

func NewRefreshJob(userID string, syncer Syncer, scorer Scorer) *RefreshJob {
	return &RefreshJob{
		sync:  NewSyncJob(userID, syncer),
		score: NewScoreJob(userID, scorer),
	}
}

func (j *RefreshJob) Execute(ctx context.Context) error {
	if err := j.sync.Execute(ctx); err != nil && !errors.Is(err, banking.ErrNoBanksConnected) {
		return fmt.Errorf("skipping scoring: %w", err)
	}
	return j.score.Execute(ctx)
}

func (j *RefreshJob) UserID() string      { return j.sync.userID }
func (j *RefreshJob) Description() string { return "sync and score" }
