package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/livepoll-dev/server/pkg/internal/database"
	"github.com/livepoll-dev/server/pkg/internal/models"

	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// NewResponse records one vote. With realtime.allow_multiple_responses
// enabled every submission appends a new row; otherwise a repeat vote from
// the same user overwrites their previous choice.
func NewResponse(ctx context.Context, poll models.Poll, userId string, selectedOption int) (models.Response, error) {
	response := models.Response{
		PollID:         poll.ID,
		UserID:         userId,
		SelectedOption: selectedOption,
	}

	if !viper.GetBool("realtime.allow_multiple_responses") {
		var current models.Response
		if err := database.C.Model(&models.Response{}).
			Where("poll_id = ? AND user_id = ?", poll.ID, userId).
			First(&current).Error; err == nil {
			if err := database.C.Model(&current).
				Where("id = ?", current.ID).
				Update("selected_option", selectedOption).Error; err != nil {
				return response, fmt.Errorf("unable to update your response: %w", err)
			}
			current.SelectedOption = selectedOption
			return current, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return response, fmt.Errorf("unable to check previous response: %w", err)
		}
	}

	if err := database.C.Create(&response).Error; err != nil {
		return response, fmt.Errorf("unable to create response: %w", err)
	}

	return response, nil
}

func ListResponsesForPoll(ctx context.Context, pollId uint) ([]models.Response, error) {
	var responses []models.Response
	if err := database.C.Where("poll_id = ?", pollId).Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("unable to list poll responses: %w", err)
	}
	return responses, nil
}
