package services

import (
	"github.com/livepoll-dev/server/pkg/internal/models"

	"github.com/samber/lo"
)

// CountResponses aggregates a poll's complete response set into per-option
// vote counts. Every option slot is present in the result, voted or not.
// The function is deterministic and order-independent; indices are assumed
// to have been bounds-checked at submission time.
func CountResponses(options []string, responses []models.Response) models.PollMetric {
	byOption := make(map[int]int64, len(options))
	for idx := range options {
		byOption[idx] = 0
	}

	counts := lo.CountValuesBy(responses, func(item models.Response) int {
		return item.SelectedOption
	})
	for idx, count := range counts {
		byOption[idx] = int64(count)
	}

	return models.PollMetric{
		TotalResponses: int64(len(responses)),
		ByOption:       byOption,
	}
}
