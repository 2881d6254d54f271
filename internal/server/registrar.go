package server

import (
	"github.com/gorilla/mux"
	"google.golang.org/grpc"
)

// Registrar is a common interface for all gRPC service registrars
type Registrar interface {
	Register(s *grpc.Server)
}

// RouteRegistrar is implemented by every service package that serves pages.
type RouteRegistrar interface {
	Register(r *mux.Router)
}
