package grpc

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// Client 透過 gRPC 呼叫遠端帳本，實作 usecase.Banking
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient conn 通常來自 pkg/grpc.Pool
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	err := c.conn.Invoke(ctx, fullMethod(method), req, resp, grpc.CallContentSubtype(codecName))
	return fromStatus(err)
}

func (c *Client) AddCustomer(ctx context.Context, customer *domain.Customer) error {
	return c.invoke(ctx, methodAddCustomer, &AddCustomerRequest{Customer: customerToMessage(customer)}, &Empty{})
}

func (c *Client) RemoveCustomer(ctx context.Context, customerID string) error {
	return c.invoke(ctx, methodRemoveCustomer, &CustomerIDRequest{CustomerID: customerID}, &Empty{})
}

func (c *Client) UpdateCustomerAddress(ctx context.Context, customerID, address string) error {
	req := &UpdateCustomerAddressRequest{CustomerID: customerID, Address: address}
	return c.invoke(ctx, methodUpdateCustomerAddress, req, &Empty{})
}

func (c *Client) CreateAccount(ctx context.Context, customerID string, kind domain.AccountKind, initialBalance decimal.Decimal, opts ...usecase.AccountOption) (domain.Account, error) {
	params := usecase.NewAccountParams(opts...)
	req := &CreateAccountRequest{
		CustomerID:     customerID,
		Type:           string(kind),
		InitialBalance: initialBalance,
		InterestRate:   params.InterestRate,
		OverdraftLimit: params.OverdraftLimit,
	}
	var resp AccountResponse
	if err := c.invoke(ctx, methodCreateAccount, req, &resp); err != nil {
		return nil, err
	}
	return accountFromMessage(resp.Account)
}

func (c *Client) SetInterestRate(ctx context.Context, accountNumber string, rate decimal.Decimal) error {
	return c.invoke(ctx, methodSetInterestRate, &SetRateRequest{AccountNumber: accountNumber, Value: rate}, &Empty{})
}

func (c *Client) SetOverdraftLimit(ctx context.Context, accountNumber string, limit decimal.Decimal) error {
	return c.invoke(ctx, methodSetOverdraftLimit, &SetRateRequest{AccountNumber: accountNumber, Value: limit}, &Empty{})
}

func (c *Client) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	return c.invoke(ctx, methodDeposit, &AmountRequest{AccountNumber: accountNumber, Amount: amount}, &Empty{})
}

func (c *Client) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	return c.invoke(ctx, methodWithdraw, &AmountRequest{AccountNumber: accountNumber, Amount: amount}, &Empty{})
}

func (c *Client) TransferFunds(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error {
	req := &TransferRequest{
		FromAccountNumber: fromAccountNumber,
		ToAccountNumber:   toAccountNumber,
		Amount:            amount,
	}
	return c.invoke(ctx, methodTransferFunds, req, &Empty{})
}

func (c *Client) ApplyAllInterest(ctx context.Context) error {
	return c.invoke(ctx, methodApplyAllInterest, &Empty{}, &Empty{})
}

func (c *Client) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	var resp AccountResponse
	if err := c.invoke(ctx, methodGetAccount, &AccountNumberRequest{AccountNumber: accountNumber}, &resp); err != nil {
		return nil, err
	}
	return accountFromMessage(resp.Account)
}

func (c *Client) GetCustomerAccounts(ctx context.Context, customerID string) ([]domain.Account, error) {
	var resp AccountsResponse
	if err := c.invoke(ctx, methodGetCustomerAccounts, &CustomerIDRequest{CustomerID: customerID}, &resp); err != nil {
		return nil, err
	}
	return accountsFromMessages(resp.Accounts)
}

func (c *Client) Customers(ctx context.Context) ([]*domain.Customer, error) {
	var resp CustomersResponse
	if err := c.invoke(ctx, methodListCustomers, &Empty{}, &resp); err != nil {
		return nil, err
	}
	out := make([]*domain.Customer, 0, len(resp.Customers))
	for _, m := range resp.Customers {
		out = append(out, customerFromMessage(m))
	}
	return out, nil
}

func (c *Client) Accounts(ctx context.Context) ([]domain.Account, error) {
	var resp AccountsResponse
	if err := c.invoke(ctx, methodListAccounts, &Empty{}, &resp); err != nil {
		return nil, err
	}
	return accountsFromMessages(resp.Accounts)
}

func (c *Client) DisplayAllCustomers(ctx context.Context, w io.Writer) error {
	customers, err := c.Customers(ctx)
	if err != nil {
		return err
	}
	return usecase.WriteCustomers(w, customers)
}

func (c *Client) DisplayAllAccounts(ctx context.Context, w io.Writer) error {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		return err
	}
	return usecase.WriteAccounts(w, accounts)
}

var _ usecase.Banking = (*Client)(nil)
