package realtime

import (
	"context"

	"github.com/livepoll-dev/server/pkg/internal/services"

	"github.com/rs/zerolog/log"
)

// SweepExpiredPolls closes active polls whose advisory voting window has
// elapsed. It is the timer collaborator, not part of event handling: polls
// tracked live go through the ordinary end-poll path so rooms get the final
// tally, untracked ones are just deactivated durably.
func (c *Coordinator) SweepExpiredPolls(ctx context.Context) {
	polls, err := services.ListExpiredPolls(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Unable to list expired polls...")
		return
	}

	for _, poll := range polls {
		if code, ok := c.registry.SessionFor(poll.ID); ok {
			c.EndPoll(ctx, nil, EndPollPayload{SessionCode: code, PollID: poll.ID})
			continue
		}

		if err := c.store.SetPollActive(ctx, poll.ID, false); err != nil {
			log.Error().Err(err).Uint("poll", poll.ID).Msg("Unable to expire poll...")
			continue
		}
		log.Info().Uint("poll", poll.ID).Msg("Expired poll deactivated.")
	}
}
