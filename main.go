package main

import (
	"bitwise74/files-api/app"
	"bitwise74/files-api/config"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	if err := app.MakeLogger(viper.GetString("app.log_level")); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		zap.L().Fatal("Exiting", zap.Error(err))
	}
}

func run(ctx context.Context) error {
	d, err := app.NewDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	mode := viper.GetString("app.mode")
	g, ctx := errgroup.WithContext(ctx)

	if mode != "api" {
		app.NewProcessor(d).Register(d.Broker)

		if err := d.Broker.Start(); err != nil {
			return fmt.Errorf("failed to start workers, %w", err)
		}

		zap.L().Info("Workers started", zap.Int("workers", viper.GetInt("queue.workers")))
	}

	if mode != "worker" {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", viper.GetInt("host.port")),
			Handler:           app.NewRouter(d),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g.Go(func() error {
			zap.L().Info("Server starting", zap.String("addr", srv.Addr))

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			zap.L().Info("Server shutting down")
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	return g.Wait()
}
