package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	localCache "github.com/livepoll-dev/server/pkg/internal/cache"
	"github.com/livepoll-dev/server/pkg/internal/database"
	"github.com/livepoll-dev/server/pkg/internal/models"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type activeSessionState struct {
	ID      uint
	Code    string
	AdminID *string
	PollIDs []uint
}

func activeSessionCacheKey(code string) string {
	return fmt.Sprintf("active-session#%s", code)
}

func NewSession(code string, adminId *string) (models.Session, error) {
	session := models.Session{
		Code:    code,
		AdminID: adminId,
		Status:  models.SessionStatusActive,
		PollIDs: []uint{},
	}

	if err := database.C.Create(&session).Error; err != nil {
		return session, err
	}

	return session, nil
}

// FindActiveSession returns the active session under code, or nil when no
// such session exists. Lookups go through the local cache; the entry is
// dropped when the session ends.
func FindActiveSession(ctx context.Context, code string) (*models.Session, error) {
	if localCache.S != nil {
		marshal := marshaler.New(cache.New[any](localCache.S))
		if val, err := marshal.Get(ctx, activeSessionCacheKey(code), new(activeSessionState)); err == nil {
			state := val.(*activeSessionState)
			return &models.Session{
				BaseModel: models.BaseModel{ID: state.ID},
				Code:      state.Code,
				AdminID:   state.AdminID,
				Status:    models.SessionStatusActive,
				PollIDs:   state.PollIDs,
			}, nil
		}
	}

	var session models.Session
	if err := database.C.Where("code = ? AND status = ?", code, models.SessionStatusActive).
		Order("created_at DESC").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find active session: %w", err)
	}

	cacheActiveSession(ctx, session)

	return &session, nil
}

func FindSessionByID(ctx context.Context, id uint) (*models.Session, error) {
	var session models.Session
	if err := database.C.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find session: %w", err)
	}
	return &session, nil
}

// EndSession marks the active session under code as ended. Returns nil
// without error when there is nothing to end.
func EndSession(ctx context.Context, code string) (*models.Session, error) {
	var session models.Session
	if err := database.C.Where("code = ? AND status = ?", code, models.SessionStatusActive).
		Order("created_at DESC").First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find session: %w", err)
	}

	now := time.Now()
	session.Status = models.SessionStatusEnded
	session.EndedAt = &now

	if err := database.C.Model(&session).Updates(map[string]any{
		"status":   session.Status,
		"ended_at": session.EndedAt,
	}).Error; err != nil {
		return nil, fmt.Errorf("unable to end session: %w", err)
	}

	uncacheActiveSession(ctx, code)

	return &session, nil
}

// AppendPollToSession appends one poll id to the session's durable,
// creation-ordered poll list.
func AppendPollToSession(ctx context.Context, session models.Session, pollId uint) error {
	if lo.Contains([]uint(session.PollIDs), pollId) {
		return nil
	}

	session.PollIDs = append(session.PollIDs, pollId)
	if err := database.C.Model(&models.Session{}).Where("id = ?", session.ID).
		Update("poll_ids", session.PollIDs).Error; err != nil {
		return fmt.Errorf("unable to append poll to session: %w", err)
	}

	uncacheActiveSession(ctx, session.Code)

	return nil
}

func cacheActiveSession(ctx context.Context, session models.Session) {
	if localCache.S == nil {
		return
	}

	marshal := marshaler.New(cache.New[any](localCache.S))
	if err := marshal.Set(ctx, activeSessionCacheKey(session.Code), activeSessionState{
		ID:      session.ID,
		Code:    session.Code,
		AdminID: session.AdminID,
		PollIDs: session.PollIDs,
	}, store.WithExpiration(5*time.Minute)); err != nil {
		log.Debug().Err(err).Str("code", session.Code).Msg("Unable to cache active session...")
	}
}

func uncacheActiveSession(ctx context.Context, code string) {
	if localCache.S == nil {
		return
	}

	cacheManager := cache.New[any](localCache.S)
	if err := cacheManager.Delete(ctx, activeSessionCacheKey(code)); err != nil {
		log.Debug().Err(err).Str("code", code).Msg("Unable to uncache active session...")
	}
}
