package admin

import (
	"github.com/livepoll-dev/server/pkg/internal/realtime"

	"github.com/gofiber/fiber/v2"
)

var coordinator *realtime.Coordinator

func MapControllers(app *fiber.App, baseURL string, co *realtime.Coordinator) {
	coordinator = co

	admin := app.Group(baseURL)
	{
		admin.Post("/sessions/:code/end", adminEndSession)
		admin.Post("/polls/:pollId/end", adminEndPoll)
	}
}
