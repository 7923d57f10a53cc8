package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"

	"github.com/Domenick1991/agentair/api"
	toolsapi "github.com/Domenick1991/agentair/internal/api/tools_service_api"
	"github.com/Domenick1991/agentair/internal/logger"
	"github.com/Domenick1991/agentair/internal/session"
)

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	log        logger.Logger
}

// Run starts the gRPC and HTTP servers and blocks until ctx is cancelled
// or a server fails.
func Run(ctx context.Context, sess *session.Session) error {
	s := newServers(sess)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", sess.Config.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", sess.Config.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()
	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("servers started", "http", sess.Config.HTTP.Address, "grpc", sess.Config.GRPC.Address)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		s.log.Info("servers stopped")
		return nil
	}
}

func newServers(sess *session.Session) *Servers {
	log := sess.Log.With("component", "bootstrap")

	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(logUnary(log)))
	toolsapi.RegisterToolsServiceServer(grpcSrv, toolsapi.NewServer(sess.Tools))

	router := api.NewRouter(sess)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "consent": sess.Consent.State()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              sess.Config.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		log: log,
	}
}

func logUnary(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("grpc call failed", "method", info.FullMethod, "error", err, "duration", time.Since(start).String())
		} else {
			log.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start).String())
		}
		return resp, err
	}
}
