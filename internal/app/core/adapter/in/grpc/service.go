package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName 完整的 gRPC 服務名稱
const ServiceName = "bank.v1.BankService"

// 方法名稱
const (
	methodAddCustomer           = "AddCustomer"
	methodRemoveCustomer        = "RemoveCustomer"
	methodUpdateCustomerAddress = "UpdateCustomerAddress"
	methodCreateAccount         = "CreateAccount"
	methodSetInterestRate       = "SetInterestRate"
	methodSetOverdraftLimit     = "SetOverdraftLimit"
	methodDeposit               = "Deposit"
	methodWithdraw              = "Withdraw"
	methodTransferFunds         = "TransferFunds"
	methodApplyAllInterest      = "ApplyAllInterest"
	methodGetAccount            = "GetAccount"
	methodGetCustomerAccounts   = "GetCustomerAccounts"
	methodListCustomers         = "ListCustomers"
	methodListAccounts          = "ListAccounts"
)

// BankServiceServer 是 bank.v1.BankService 的伺服端介面
type BankServiceServer interface {
	AddCustomer(context.Context, *AddCustomerRequest) (*Empty, error)
	RemoveCustomer(context.Context, *CustomerIDRequest) (*Empty, error)
	UpdateCustomerAddress(context.Context, *UpdateCustomerAddressRequest) (*Empty, error)
	CreateAccount(context.Context, *CreateAccountRequest) (*AccountResponse, error)
	SetInterestRate(context.Context, *SetRateRequest) (*Empty, error)
	SetOverdraftLimit(context.Context, *SetRateRequest) (*Empty, error)
	Deposit(context.Context, *AmountRequest) (*Empty, error)
	Withdraw(context.Context, *AmountRequest) (*Empty, error)
	TransferFunds(context.Context, *TransferRequest) (*Empty, error)
	ApplyAllInterest(context.Context, *Empty) (*Empty, error)
	GetAccount(context.Context, *AccountNumberRequest) (*AccountResponse, error)
	GetCustomerAccounts(context.Context, *CustomerIDRequest) (*AccountsResponse, error)
	ListCustomers(context.Context, *Empty) (*CustomersResponse, error)
	ListAccounts(context.Context, *Empty) (*AccountsResponse, error)
}

// RegisterBankServiceServer 將 srv 註冊到 s
func RegisterBankServiceServer(s grpc.ServiceRegistrar, srv BankServiceServer) {
	s.RegisterService(&bankServiceDesc, srv)
}

var bankServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod(methodAddCustomer, BankServiceServer.AddCustomer),
		unaryMethod(methodRemoveCustomer, BankServiceServer.RemoveCustomer),
		unaryMethod(methodUpdateCustomerAddress, BankServiceServer.UpdateCustomerAddress),
		unaryMethod(methodCreateAccount, BankServiceServer.CreateAccount),
		unaryMethod(methodSetInterestRate, BankServiceServer.SetInterestRate),
		unaryMethod(methodSetOverdraftLimit, BankServiceServer.SetOverdraftLimit),
		unaryMethod(methodDeposit, BankServiceServer.Deposit),
		unaryMethod(methodWithdraw, BankServiceServer.Withdraw),
		unaryMethod(methodTransferFunds, BankServiceServer.TransferFunds),
		unaryMethod(methodApplyAllInterest, BankServiceServer.ApplyAllInterest),
		unaryMethod(methodGetAccount, BankServiceServer.GetAccount),
		unaryMethod(methodGetCustomerAccounts, BankServiceServer.GetCustomerAccounts),
		unaryMethod(methodListCustomers, BankServiceServer.ListCustomers),
		unaryMethod(methodListAccounts, BankServiceServer.ListAccounts),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bank/v1/bank.proto",
}

// unaryMethod 產生與 protoc-gen-go-grpc 相同形式的 handler
func unaryMethod[Req, Resp any](name string, call func(BankServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BankServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BankServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
