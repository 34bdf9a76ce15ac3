package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	pkg "github.com/livepoll-dev/server/pkg/internal"
	"github.com/livepoll-dev/server/pkg/internal/cache"
	"github.com/livepoll-dev/server/pkg/internal/database"
	"github.com/livepoll-dev/server/pkg/internal/grpc"
	"github.com/livepoll-dev/server/pkg/internal/http"
	"github.com/livepoll-dev/server/pkg/internal/livestate"
	"github.com/livepoll-dev/server/pkg/internal/realtime"
	"github.com/livepoll-dev/server/pkg/internal/services"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.YellowString(" _     _            ____       _ _\n| |   (_)_   _____ |  _ \\ ___ | | |\n| |   | \\ \\ / / _ \\| |_) / _ \\| | |\n| |___| |\\ V /  __/|  __/ (_) | | |\n|_____|_| \\_/ \\___||_|   \\___/|_|_|"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiYellow).Add(color.Bold).Sprintf("LivePoll"), pkg.AppVersion)
	fmt.Printf("The real-time polling session service\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewGorm(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Set up the local cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when setting up local cache.")
	}

	// Real-time coordination
	registry := livestate.NewRegistry()
	hub := realtime.NewRoomHub()
	coordinator := realtime.NewCoordinator(realtime.NewServiceStore(), registry, hub)
	coordinator.StrictJoin = viper.GetBool("realtime.strict_join")
	gateway := realtime.NewGateway(coordinator)

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.AddFunc("@every 1m", func() {
		coordinator.SweepExpiredPolls(context.Background())
	})
	quartz.Start()

	// Server
	go http.NewServer(coordinator, gateway).Listen()

	go grpc.NewGrpc().Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
}
