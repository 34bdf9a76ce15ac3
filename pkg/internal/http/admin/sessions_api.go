package admin

import (
	"github.com/livepoll-dev/server/pkg/internal/realtime"
	"github.com/livepoll-dev/server/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Admin endings route through the coordinator so subscribed rooms get the
// closing broadcasts, same as channel-initiated endings.

func adminEndSession(c *fiber.Ctx) error {
	code := c.Params("code")

	session, err := services.FindActiveSession(c.Context(), code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	coordinator.EndSession(c.Context(), nil, realtime.EndSessionPayload{SessionCode: code})

	return c.SendStatus(fiber.StatusNoContent)
}

func adminEndPoll(c *fiber.Ctx) error {
	pollId, _ := c.ParamsInt("pollId")

	poll, err := services.FindPoll(c.Context(), uint(pollId))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if poll == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrPollNotFound.Error())
	}

	session, err := services.FindSessionByID(c.Context(), poll.SessionID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	// Deactivate durably even when no room tracks the poll live; the
	// coordinator broadcast is then a no-op.
	if err := services.SetPollActive(c.Context(), poll.ID, false); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	coordinator.EndPoll(c.Context(), nil, realtime.EndPollPayload{
		SessionCode: session.Code,
		PollID:      poll.ID,
	})

	return c.SendStatus(fiber.StatusNoContent)
}
