package services

import (
	"context"
	"time"

	"github.com/livepoll-dev/server/pkg/internal/database"
	"github.com/livepoll-dev/server/pkg/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DoAutoDatabaseCleanup hard-deletes soft-deleted rows past their grace
// period and re-appends orphaned poll ids to their session's poll list.
// The orphan pass reconciles the uncompensated gap between creating a poll
// and appending it to its session.
func DoAutoDatabaseCleanup() {
	deadline := time.Now().Add(-30 * 24 * time.Hour)

	log.Debug().Time("deadline", deadline).Msg("Now cleaning up entire database...")

	var count int64
	for _, model := range database.AutoMaintainRange {
		tx := database.C.Unscoped().
			Where("deleted_at IS NOT NULL").
			Where("deleted_at <= ?", deadline).
			Delete(model)
		if tx.Error != nil {
			log.Error().Err(tx.Error).Msg("An error occurred when running auto database cleanup...")
		}
		count += tx.RowsAffected
	}

	if err := reconcileOrphanPolls(context.Background()); err != nil {
		log.Error().Err(err).Msg("An error occurred when reconciling orphan polls...")
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}

func reconcileOrphanPolls(ctx context.Context) error {
	var sessions []models.Session
	if err := database.C.Where("status = ?", models.SessionStatusActive).
		Find(&sessions).Error; err != nil {
		return err
	}

	for _, session := range sessions {
		polls, err := ListPollsForSession(ctx, session)
		if err != nil {
			return err
		}

		missing := lo.Filter(polls, func(item models.Poll, index int) bool {
			return !lo.Contains([]uint(session.PollIDs), item.ID)
		})
		for _, poll := range missing {
			log.Warn().Uint("poll", poll.ID).Str("session", session.Code).
				Msg("Found orphan poll, appending it back to its session...")
			if err := AppendPollToSession(ctx, session, poll.ID); err != nil {
				return err
			}
			session.PollIDs = append(session.PollIDs, poll.ID)
		}
	}

	return nil
}
