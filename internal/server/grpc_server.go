package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/photoshare/internal/app"
	"github.com/oggyb/photoshare/internal/logger"
)

// HealthProbeInterval is how often Watch re-runs the dependency probes.
const HealthProbeInterval = 10 * time.Second

// HealthRegistrar exposes grpc.health.v1 backed by the same probes as
// /healthz. Run Watch to keep the published status current.
type HealthRegistrar struct {
	appCtx *app.AppContext
	Server *health.Server
}

// NewHealthRegistrar creates the health service in NOT_SERVING state.
func NewHealthRegistrar(appCtx *app.AppContext) *HealthRegistrar {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &HealthRegistrar{appCtx: appCtx, Server: hs}
}

// Register attaches the health service to the gRPC server
func (h *HealthRegistrar) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.Server)
}

// Refresh runs the dependency probes and publishes the result.
func (h *HealthRegistrar) Refresh(ctx context.Context) error {
	err := Probe(ctx, h.appCtx)
	status := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.Server.SetServingStatus("", status)
	return err
}

// Watch refreshes the status every interval until ctx is cancelled.
// Each probe is bounded by the interval so a hung dependency cannot stall it.
func (h *HealthRegistrar) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last error
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, interval)
			err := h.Refresh(probeCtx)
			cancel()
			if (err == nil) != (last == nil) {
				if err != nil {
					h.appCtx.Logger.Warn("dependencies unhealthy", "err", err)
				} else {
					h.appCtx.Logger.Info("dependencies healthy again")
				}
			}
			last = err
		}
	}
}

// StartGRPCServer boots a gRPC server and registers all provided services.
// It stops gracefully when ctx is cancelled.
func StartGRPCServer(ctx context.Context, addr string, registrars ...Registrar) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	go func() {
		<-ctx.Done()
		logger.Info("stopping gRPC server")
		grpcServer.GracefulStop()
	}()

	return grpcServer.Serve(lis)
}
