package grpc

import (
	"net"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported for the transaction Store
const ServiceName = "cashil.Transactions"

// Server is the admin gRPC server: standard health service plus reflection
type Server struct {
	addr   string
	lis    net.Listener
	Server *grpc.Server
	Health *health.Server
	log    zerolog.Logger
}

// NewServer creates the admin server
// adminToken guards every method except the health service; empty disables auth.
func NewServer(addr, adminToken string, log zerolog.Logger) *Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(log),
			AuthInterceptor(adminToken, HealthServicePrefix),
		),
		grpc.ChainStreamInterceptor(
			StreamAuthInterceptor(adminToken, HealthServicePrefix),
		),
	)

	hs := health.NewServer()
	// Not serving until the first successful Store check
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s)

	return &Server{
		addr:   addr,
		Server: s,
		Health: hs,
		log:    log,
	}
}

// Start listens on the configured address and serves until Stop
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve serves on an existing listener
func (s *Server) Serve(lis net.Listener) error {
	s.lis = lis
	s.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC admin server listening")
	return s.Server.Serve(lis)
}

// Stop marks every service NOT_SERVING and stops gracefully
func (s *Server) Stop() {
	s.Health.Shutdown()
	s.Server.GracefulStop()
	if s.lis != nil {
		_ = s.lis.Close()
	}
}
