package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"

	"github.com/GoSim-25-26J-441/genetic-core/internal/metrics"
	"github.com/GoSim-25-26J-441/genetic-core/internal/simd"
	"github.com/GoSim-25-26J-441/genetic-core/pkg/logger"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation daemon (gRPC and HTTP)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, v.GetString("grpc_addr"), v.GetString("http_addr"))
		},
	}

	cmd.Flags().String("grpc-addr", ":50051", "gRPC listen address")
	cmd.Flags().String("http-addr", ":8080", "HTTP listen address")
	_ = v.BindPFlag("grpc_addr", cmd.Flags().Lookup("grpc-addr"))
	_ = v.BindPFlag("http_addr", cmd.Flags().Lookup("http-addr"))
	return cmd
}

// serve runs both listeners until ctx is done or one of them fails, then
// drains in-flight simulations and callbacks.
func serve(ctx context.Context, grpcAddr, httpAddr string) error {
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	collector := metrics.NewCollector()
	notifier := simd.NewNotifier()
	executor := simd.NewExecutor(simd.NewSimulationStore(), notifier, collector)

	// TODO: Configure gRPC server security (e.g., TLS, authentication, rate limiting)
	// before using this service in a production environment.
	grpcServer := grpc.NewServer()
	simd.RegisterSimulationServiceServer(grpcServer, simd.NewSimulationGRPCServer(executor))

	grpcLis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen for gRPC on %s: %w", grpcAddr, err)
	}
	httpLis, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = grpcLis.Close()
		return fmt.Errorf("listen for HTTP on %s: %w", httpAddr, err)
	}

	httpSrv := &http.Server{
		Handler:           simd.NewHTTPServer(executor, collector).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", grpcLis.Addr().String())
		if err := grpcServer.Serve(grpcLis); err != nil {
			logger.Error("gRPC server error", "error", err)
			errCh <- err
			stop()
		}
	}()

	go func() {
		logger.Info("HTTP server listening", "addr", httpLis.Addr().String())
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			errCh <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcServer.GracefulStop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	executor.Wait()
	notifier.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
