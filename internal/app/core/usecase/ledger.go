package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// ErrPersistFailed 寫入儲存層失敗，記憶體中的變更已撤銷
var ErrPersistFailed = errors.New("persist ledger state failed")

// Store 帳本狀態的儲存策略 (檔案 / MySQL / Redis / 記憶體)
//
// 每次 Save 都是完整覆寫，不做增量更新。
type Store interface {
	// Load 讀取完整狀態，儲存不存在時回傳空的 State (不是錯誤)
	Load(ctx context.Context) (*codec.State, error)
	// Save 以 state 完整覆寫儲存內容
	Save(ctx context.Context, state *codec.State) error
}

// Banking 是帳務系統對外的介面
// 本地 (*Bank) 與遠端 (gRPC Client) 都實作此介面，CLI 不需要知道差別。
type Banking interface {
	AddCustomer(ctx context.Context, customer *domain.Customer) error
	RemoveCustomer(ctx context.Context, customerID string) error
	UpdateCustomerAddress(ctx context.Context, customerID, address string) error

	CreateAccount(ctx context.Context, customerID string, kind domain.AccountKind, initialBalance decimal.Decimal, opts ...AccountOption) (domain.Account, error)
	SetInterestRate(ctx context.Context, accountNumber string, rate decimal.Decimal) error
	SetOverdraftLimit(ctx context.Context, accountNumber string, limit decimal.Decimal) error

	Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error
	TransferFunds(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error
	ApplyAllInterest(ctx context.Context) error

	GetAccount(ctx context.Context, accountNumber string) (domain.Account, error)
	GetCustomerAccounts(ctx context.Context, customerID string) ([]domain.Account, error)
	Customers(ctx context.Context) ([]*domain.Customer, error)
	Accounts(ctx context.Context) ([]domain.Account, error)

	DisplayAllCustomers(ctx context.Context, w io.Writer) error
	DisplayAllAccounts(ctx context.Context, w io.Writer) error
}

// AccountParams 建立帳戶時的類型專屬參數，nil 代表使用預設值
type AccountParams struct {
	InterestRate   *decimal.Decimal
	OverdraftLimit *decimal.Decimal
}

// AccountOption 定義了 CreateAccount 的配置選項函數
type AccountOption func(*AccountParams)

// WithInterestRate 設定儲蓄帳戶利率
func WithInterestRate(rate decimal.Decimal) AccountOption {
	return func(p *AccountParams) {
		p.InterestRate = &rate
	}
}

// WithOverdraftLimit 設定支票帳戶透支額度
func WithOverdraftLimit(limit decimal.Decimal) AccountOption {
	return func(p *AccountParams) {
		p.OverdraftLimit = &limit
	}
}

// NewAccountParams 套用所有選項
func NewAccountParams(opts ...AccountOption) AccountParams {
	var p AccountParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WriteCustomers 每位客戶輸出一行 Details
func WriteCustomers(w io.Writer, customers []*domain.Customer) error {
	for _, c := range customers {
		if _, err := io.WriteString(w, c.Details()+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteAccounts 每個帳戶輸出一行 Details
func WriteAccounts(w io.Writer, accounts []domain.Account) error {
	for _, a := range accounts {
		if _, err := io.WriteString(w, a.Details()+"\n"); err != nil {
			return err
		}
	}
	return nil
}
