package grpc

import (
	"net"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// App exposes the process's operational surface over gRPC. Only the standard
// health service for now; probes and orchestrators consume it.
type App struct {
	srv *grpc.Server
}

func NewGrpc() *App {
	srv := grpc.NewServer()

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	return &App{srv}
}

func (v *App) Listen() {
	listener, err := net.Listen("tcp", viper.GetString("grpc_bind"))
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting grpc listener...")
	}

	if err := v.srv.Serve(listener); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when serving grpc server...")
	}
}
