package grpc

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// GrpcServer 將 BankService 的呼叫轉給 usecase.Banking
type GrpcServer struct {
	bank usecase.Banking
}

func NewGrpcServer(bank usecase.Banking) *GrpcServer {
	return &GrpcServer{
		bank: bank,
	}
}

// NewServer 建立 grpc.Server 並註冊 BankService、health 與 reflection
//
// 參數:
//
//	bank: 帳本
//	logger: 請求 log
//	opts: 額外的 grpc.ServerOption
//
// 回傳值:
//
//	*grpc.Server: 尚未開始 Serve 的伺服器
//	*health.Server: 關機時可切換為 NOT_SERVING
func NewServer(bank usecase.Banking, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(logger))}, opts...)
	s := grpc.NewServer(opts...)
	RegisterBankServiceServer(s, NewGrpcServer(bank))

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	reflection.Register(s) // 方便 grpcurl 等工具列出服務
	return s, hs
}

// LoggingInterceptor 以 zap 記錄每個 unary 呼叫
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("cost", time.Since(start)),
		}
		if err != nil {
			logger.Warn("gRPC request failed", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("gRPC request", fields...)
		}
		return resp, err
	}
}

func (s *GrpcServer) AddCustomer(ctx context.Context, req *AddCustomerRequest) (*Empty, error) {
	if err := s.bank.AddCustomer(ctx, customerFromMessage(req.Customer)); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) RemoveCustomer(ctx context.Context, req *CustomerIDRequest) (*Empty, error) {
	if err := s.bank.RemoveCustomer(ctx, req.CustomerID); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) UpdateCustomerAddress(ctx context.Context, req *UpdateCustomerAddressRequest) (*Empty, error) {
	if err := s.bank.UpdateCustomerAddress(ctx, req.CustomerID, req.Address); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*AccountResponse, error) {
	kind, err := domain.ParseAccountKind(req.Type)
	if err != nil {
		return nil, toStatus(err)
	}
	var opts []usecase.AccountOption
	if req.InterestRate != nil {
		opts = append(opts, usecase.WithInterestRate(*req.InterestRate))
	}
	if req.OverdraftLimit != nil {
		opts = append(opts, usecase.WithOverdraftLimit(*req.OverdraftLimit))
	}
	acc, err := s.bank.CreateAccount(ctx, req.CustomerID, kind, req.InitialBalance, opts...)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AccountResponse{Account: accountToMessage(acc)}, nil
}

func (s *GrpcServer) SetInterestRate(ctx context.Context, req *SetRateRequest) (*Empty, error) {
	if err := s.bank.SetInterestRate(ctx, req.AccountNumber, req.Value); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) SetOverdraftLimit(ctx context.Context, req *SetRateRequest) (*Empty, error) {
	if err := s.bank.SetOverdraftLimit(ctx, req.AccountNumber, req.Value); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) Deposit(ctx context.Context, req *AmountRequest) (*Empty, error) {
	if err := s.bank.Deposit(ctx, req.AccountNumber, req.Amount); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) Withdraw(ctx context.Context, req *AmountRequest) (*Empty, error) {
	if err := s.bank.Withdraw(ctx, req.AccountNumber, req.Amount); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) TransferFunds(ctx context.Context, req *TransferRequest) (*Empty, error) {
	if err := s.bank.TransferFunds(ctx, req.FromAccountNumber, req.ToAccountNumber, req.Amount); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) ApplyAllInterest(ctx context.Context, _ *Empty) (*Empty, error) {
	if err := s.bank.ApplyAllInterest(ctx); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func (s *GrpcServer) GetAccount(ctx context.Context, req *AccountNumberRequest) (*AccountResponse, error) {
	acc, err := s.bank.GetAccount(ctx, req.AccountNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AccountResponse{Account: accountToMessage(acc)}, nil
}

func (s *GrpcServer) GetCustomerAccounts(ctx context.Context, req *CustomerIDRequest) (*AccountsResponse, error) {
	accounts, err := s.bank.GetCustomerAccounts(ctx, req.CustomerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AccountsResponse{Accounts: accountsToMessages(accounts)}, nil
}

func (s *GrpcServer) ListCustomers(ctx context.Context, _ *Empty) (*CustomersResponse, error) {
	customers, err := s.bank.Customers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerToMessage(c))
	}
	return &CustomersResponse{Customers: out}, nil
}

func (s *GrpcServer) ListAccounts(ctx context.Context, _ *Empty) (*AccountsResponse, error) {
	accounts, err := s.bank.Accounts(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &AccountsResponse{Accounts: accountsToMessages(accounts)}, nil
}

var _ BankServiceServer = (*GrpcServer)(nil)
