package api

import (
	"errors"

	"github.com/livepoll-dev/server/pkg/internal/http/exts"
	"github.com/livepoll-dev/server/pkg/internal/services"

	"github.com/gofiber/fiber/v2"
)

func createPoll(c *fiber.Ctx) error {
	var data struct {
		SessionCode string   `json:"session_code" validate:"required"`
		Question    string   `json:"question" validate:"required"`
		Options     []string `json:"options" validate:"required"`
		Duration    *int     `json:"duration"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	session, err := services.FindActiveSession(c.Context(), data.SessionCode)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if session == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrSessionNotFound.Error())
	}

	poll, err := services.NewPoll(c.Context(), *session, data.Question, data.Options, data.Duration)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOptions) || errors.Is(err, services.ErrInvalidQuestion) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := services.AppendPollToSession(c.Context(), *session, poll.ID); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(poll)
}

func getPoll(c *fiber.Ctx) error {
	pollId, _ := c.ParamsInt("pollId")

	poll, err := services.FindPoll(c.Context(), uint(pollId))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if poll == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrPollNotFound.Error())
	}

	responses, err := services.ListResponsesForPoll(c.Context(), poll.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	poll.Metric = services.CountResponses(poll.Options, responses)

	return c.JSON(poll)
}

func respondPoll(c *fiber.Ctx) error {
	pollId, _ := c.ParamsInt("pollId")

	var data struct {
		UserID         string `json:"user_id" validate:"required"`
		SelectedOption *int   `json:"selected_option" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	poll, err := services.FindPoll(c.Context(), uint(pollId))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	if poll == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrPollNotFound.Error())
	}
	if !poll.IsActive {
		return fiber.NewError(fiber.StatusBadRequest, services.ErrPollInactive.Error())
	}
	if *data.SelectedOption < 0 || *data.SelectedOption >= len(poll.Options) {
		return fiber.NewError(fiber.StatusBadRequest, services.ErrInvalidOption.Error())
	}

	response, err := services.NewResponse(c.Context(), *poll, data.UserID, *data.SelectedOption)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(response)
}
