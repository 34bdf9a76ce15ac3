package api

import "github.com/gofiber/fiber/v2"

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		sessions := api.Group("/sessions").Name("Sessions API")
		{
			sessions.Post("/", createSession)
			sessions.Get("/:code", getSession)
			sessions.Get("/:code/results", getSessionResults)
		}

		polls := api.Group("/polls").Name("Polls API")
		{
			polls.Post("/", createPoll)
			polls.Get("/:pollId", getPoll)
			polls.Post("/:pollId/respond", respondPoll)
		}
	}
}
