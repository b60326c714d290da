// bench_client 對 bank serve 發送大量並發轉帳，結束後檢查總額守恆。
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	grpc_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/grpc"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
	grpcpool "github.com/JoeShih716/go-mem-bank/pkg/grpc"
	"github.com/JoeShih716/go-mem-bank/pkg/logger"
)

func main() {
	target := pflag.String("target", "localhost:50051", "bank gRPC 位址")
	accountCount := pflag.Int("accounts", 20, "建立的帳戶數")
	totalCount := pflag.Int("transfers", 10000, "轉帳次數")
	concurrency := pflag.Int("concurrency", 100, "同時進行的請求數")
	timeout := pflag.Duration("timeout", 120*time.Second, "整體逾時")
	pflag.Parse()

	log, err := logger.NewLogger(logger.ModeDevelopment, "info")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pool := grpcpool.NewPool()
	defer pool.Close()
	conn, err := pool.GetConnection(*target)
	if err != nil {
		log.Fatal("did not connect", zap.Error(err))
	}
	client := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	numbers, err := setup(ctx, client, *accountCount)
	if err != nil {
		log.Fatal("setup failed", zap.Error(err))
	}
	before, err := total(ctx, client, numbers)
	if err != nil {
		log.Fatal("read balances failed", zap.Error(err))
	}

	var succeeded, rejected atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*concurrency)

	startTime := time.Now()
	for i := 0; i < *totalCount; i++ {
		g.Go(func() error {
			from := numbers[rand.IntN(len(numbers))]
			to := numbers[rand.IntN(len(numbers))]
			amount := decimal.NewFromInt(int64(rand.IntN(50) + 1))

			err := client.TransferFunds(gctx, from, to, amount)
			switch {
			case err == nil:
				succeeded.Add(1)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				// 餘額不足屬於正常的業務拒絕
				rejected.Add(1)
				if i%1000 == 0 {
					log.Debug("transfer rejected", zap.Int("idx", i), zap.Error(err))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal("benchmark aborted", zap.Error(err))
	}
	elapsed := time.Since(startTime)

	after, err := total(ctx, client, numbers)
	if err != nil {
		log.Fatal("read balances failed", zap.Error(err))
	}

	fmt.Printf("Completed %d requests in %v\n", *totalCount, elapsed)
	fmt.Printf("TPS: %.2f\n", float64(*totalCount)/elapsed.Seconds())
	fmt.Printf("Succeeded: %d, Rejected: %d\n", succeeded.Load(), rejected.Load())
	fmt.Printf("Total balance before: %s, after: %s\n", before.StringFixed(2), after.StringFixed(2))
	if !before.Equal(after) {
		log.Fatal("total balance not conserved", zap.String("before", before.String()), zap.String("after", after.String()))
	}
}

// setup 建立一位客戶與 n 個帳戶 (儲蓄與支票交錯)，回傳帳號
func setup(ctx context.Context, client usecase.Banking, n int) ([]string, error) {
	customerID := "bench-" + uuid.NewString()
	if err := client.AddCustomer(ctx, domain.NewCustomer(customerID, "Bench", "localhost")); err != nil {
		return nil, err
	}
	numbers := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kind := domain.KindSavings
		var opts []usecase.AccountOption
		if i%2 == 1 {
			kind = domain.KindChecking
			opts = append(opts, usecase.WithOverdraftLimit(decimal.NewFromInt(100)))
		}
		acc, err := client.CreateAccount(ctx, customerID, kind, decimal.NewFromInt(1000), opts...)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, acc.AccountNumber())
	}
	return numbers, nil
}

func total(ctx context.Context, client usecase.Banking, numbers []string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, n := range numbers {
		acc, err := client.GetAccount(ctx, n)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(acc.Balance())
	}
	return sum, nil
}
