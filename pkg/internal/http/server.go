package http

import (
	"strings"

	pkg "github.com/livepoll-dev/server/pkg/internal"
	"github.com/livepoll-dev/server/pkg/internal/http/admin"
	"github.com/livepoll-dev/server/pkg/internal/http/api"
	"github.com/livepoll-dev/server/pkg/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type App struct {
	app *fiber.App
}

func NewServer(coordinator *realtime.Coordinator, gateway *realtime.Gateway) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		EnableIPValidation:    true,
		ServerHeader:          "LivePoll",
		AppName:               "LivePoll v" + pkg.AppVersion,
		ProxyHeader:           fiber.HeaderXForwardedFor,
		JSONEncoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:           jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
		BodyLimit:             50 * 1024 * 1024,
	})

	if origins := viper.GetString("security.cors_origins"); len(origins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(strings.Split(origins, ","), ", "),
			AllowCredentials: true,
		}))
	}

	app.Use("/ws", gateway.Upgrade)
	app.Get("/ws", gateway.Handler())

	api.MapAPIs(app, "/api")
	admin.MapControllers(app, "/cgi", coordinator)

	return &App{app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting server...")
	}
}
