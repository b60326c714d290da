package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/cli"
	grpc_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/rest"
	file_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/file"
	memory_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/memory"
	redis_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/redis"
	sql_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/sql"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-bank/internal/config"
	grpcpool "github.com/JoeShih716/go-mem-bank/pkg/grpc"
	"github.com/JoeShih716/go-mem-bank/pkg/logger"
	redisclient "github.com/JoeShih716/go-mem-bank/pkg/redis"
	"github.com/JoeShih716/go-mem-bank/pkg/sqldb"
)

func main() {
	// 1. 載入設定
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}

	mode := logger.ModeProduction
	if cfg.App.Env == "development" {
		mode = logger.ModeDevelopment
	}
	log, err := logger.NewLogger(mode, cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.App.Mode {
	case config.ModeServe:
		err = serve(ctx, cfg, log)
	case config.ModeRemote:
		err = remote(ctx, cfg, log)
	default:
		err = local(ctx, cfg, log)
	}
	if err != nil {
		log.Error("bank exited with error", zap.String("mode", cfg.App.Mode), zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}

// openStore 依設定建立儲存策略，回傳的 close 負責釋放連線
func openStore(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (usecase.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case config.StorageMemory:
		return memory_adapter.NewStore(nil), noop, nil
	case config.StorageSQL:
		client, err := sqldb.NewClient(ctx, cfg.SQL, log)
		if err != nil {
			return nil, nil, err
		}
		store, err := sql_adapter.NewStore(ctx, client.DB(), log)
		if err != nil {
			return nil, nil, multierr.Append(err, client.Close())
		}
		log.Info("connected to database", zap.String("driver", string(cfg.SQL.Driver)))
		return store, client.Close, nil
	case config.StorageRedis:
		client, err := redisclient.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
		return redis_adapter.NewStore(client, cfg.Redis.Prefix, log), client.Close, nil
	default:
		return file_adapter.NewStore(cfg.File, log), noop, nil
	}
}

func newBank(ctx context.Context, cfg *config.Config, log *zap.Logger) (*usecase.Bank, func() error, error) {
	store, closeStore, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	bank, err := usecase.NewBank(ctx, store, log)
	if err != nil {
		return nil, nil, multierr.Append(err, closeStore())
	}
	return bank, closeStore, nil
}

// local 本機互動選單
func local(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	bank, closeStore, err := newBank(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	return cli.NewMenu(bank, os.Stdin, os.Stdout).Run(ctx)
}

// remote 互動選單，透過 gRPC 操作遠端帳本
func remote(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	pool := grpcpool.NewPool(grpcpool.WithInterceptor(grpcpool.LoggingInterceptor(log)))
	defer func() { err = multierr.Append(err, pool.Close()) }()

	conn, err := pool.GetConnection(cfg.GRPC.Target)
	if err != nil {
		return err
	}

	// 先確認伺服器可用，避免進入選單後才發現連不上
	checkCtx, cancel := context.WithTimeout(ctx, cfg.GRPC.DialTimeout)
	defer cancel()
	resp, err := healthpb.NewHealthClient(conn).Check(checkCtx, &healthpb.HealthCheckRequest{Service: grpc_adapter.ServiceName})
	if err != nil {
		return fmt.Errorf("health check %s: %w", cfg.GRPC.Target, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("bank service at %s is %s", cfg.GRPC.Target, resp.GetStatus())
	}

	return cli.NewMenu(grpc_adapter.NewClient(conn), os.Stdin, os.Stdout).Run(ctx)
}

// serve 同時啟動 gRPC 與 HTTP，收到訊號後優雅停機
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	bank, closeStore, err := newBank(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeStore()) }()

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	grpcServer, health := grpc_adapter.NewServer(bank, log)
	httpServer := rest.NewServer(log, cfg.HTTP.Addr, cfg.HTTP.GinMode, rest.NewBankHandler(bank))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("gRPC server started", zap.String("addr", cfg.GRPC.Addr))
		return grpcServer.Serve(lis)
	})
	g.Go(httpServer.Run)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		health.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("Server exited")
	return nil
}
