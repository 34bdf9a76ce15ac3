package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/livepoll-dev/server/pkg/internal/database"
	"github.com/livepoll-dev/server/pkg/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// NormalizePollOptions trims every option and rejects option sets that are
// too short or contain blank entries. Option identity is positional, so
// duplicate texts are left alone.
func NormalizePollOptions(options []string) ([]string, error) {
	trimmed := lo.Map(options, func(item string, index int) string {
		return strings.TrimSpace(item)
	})

	if len(trimmed) < 2 {
		return nil, ErrInvalidOptions
	}
	if lo.SomeBy(trimmed, func(item string) bool { return len(item) == 0 }) {
		return nil, ErrInvalidOptions
	}

	return trimmed, nil
}

func NewPoll(ctx context.Context, session models.Session, question string, options []string, duration *int) (models.Poll, error) {
	question = strings.TrimSpace(question)
	if len(question) == 0 {
		return models.Poll{}, ErrInvalidQuestion
	}

	options, err := NormalizePollOptions(options)
	if err != nil {
		return models.Poll{}, err
	}

	poll := models.Poll{
		SessionID: session.ID,
		Question:  question,
		Options:   options,
		Duration:  duration,
		IsActive:  true,
	}

	if err := database.C.Create(&poll).Error; err != nil {
		return poll, fmt.Errorf("unable to create poll: %w", err)
	}

	return poll, nil
}

func FindPoll(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	if err := database.C.Where("id = ?", id).First(&poll).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to find poll: %w", err)
	}
	return &poll, nil
}

// SetPollActive flips the poll's accepting state. The transition is one-way
// in practice; callers never reactivate an ended poll.
func SetPollActive(ctx context.Context, id uint, active bool) error {
	if err := database.C.Model(&models.Poll{}).Where("id = ?", id).
		Update("is_active", active).Error; err != nil {
		return fmt.Errorf("unable to update poll state: %w", err)
	}
	return nil
}

func ListPollsForSession(ctx context.Context, session models.Session) ([]models.Poll, error) {
	var polls []models.Poll
	if err := database.C.Where("session_id = ?", session.ID).
		Order("created_at ASC").Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("unable to list session polls: %w", err)
	}
	return polls, nil
}

// ListExpiredPolls returns active polls whose advisory voting window has
// elapsed. Used by the timer collaborator, never by the coordinator's own
// event handling.
func ListExpiredPolls(ctx context.Context) ([]models.Poll, error) {
	var polls []models.Poll
	if err := database.C.
		Where("is_active = ? AND duration IS NOT NULL", true).
		Where("created_at + duration * interval '1 second' <= ?", time.Now()).
		Find(&polls).Error; err != nil {
		return nil, fmt.Errorf("unable to list expired polls: %w", err)
	}
	return polls, nil
}
