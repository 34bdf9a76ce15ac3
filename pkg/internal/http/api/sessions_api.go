package api

import (
	"strings"

	"github.com/livepoll-dev/server/pkg/internal/http/exts"
	"github.com/livepoll-dev/server/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func createSession(c *fiber.Ctx) error {
	var data struct {
		AdminID *string `json:"admin_id"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	// Short external handle, first segment of a v4 UUID.
	code := strings.SplitN(uuid.NewString(), "-", 2)[0]

	session, err := services.NewSession(code, data.AdminID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

func getSession(c *fiber.Ctx) error {
	code := c.Params("code")

	session, err := services.FindActiveSession(c.Context(), code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	return c.JSON(session)
}

func getSessionResults(c *fiber.Ctx) error {
	code := c.Params("code")

	session, err := services.FindActiveSession(c.Context(), code)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	polls, err := services.ListPollsForSession(c.Context(), *session)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	for idx, poll := range polls {
		responses, err := services.ListResponsesForPoll(c.Context(), poll.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		polls[idx].Metric = services.CountResponses(poll.Options, responses)
	}

	return c.JSON(polls)
}
