package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// Bank 是帳本核心：管理客戶與帳戶，並在每次成功變更後寫回儲存層
//
// 結構:
//
//	customers: 客戶 ID -> 客戶
//	accounts: 帳號 -> 帳戶
//	mu: 序列化所有操作 (HTTP / gRPC 會併發呼叫)
//	store: 儲存策略，每次成功變更後完整覆寫
type Bank struct {
	mu        sync.RWMutex
	customers *registry[*domain.Customer]
	accounts  *registry[domain.Account]
	store     Store
	logger    *zap.Logger
}

// NewBank 建立帳本並從 store 載入初始狀態
//
// 參數:
//
//	ctx: 上下文
//	store: 儲存策略
//	logger: nil 時使用 zap.NewNop()
//
// 回傳:
//
//	*Bank: 帳本
//	error: 儲存層讀取錯誤 (儲存不存在不算錯誤)
func NewBank(ctx context.Context, store Store, logger *zap.Logger) (*Bank, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bank{
		customers: newRegistry[*domain.Customer](),
		accounts:  newRegistry[domain.Account](),
		store:     store,
		logger:    logger,
	}
	if err := b.load(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// load 從儲存層還原，只在 NewBank 呼叫，無需 Lock
func (b *Bank) load(ctx context.Context) error {
	state, err := b.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger state: %w", err)
	}
	if state == nil {
		state = &codec.State{}
	}
	for _, rec := range state.Customers {
		b.customers.put(rec.CustomerID, codec.DecodeCustomer(rec))
	}
	for _, rec := range state.Accounts {
		acc, err := codec.DecodeAccount(rec)
		if errors.Is(err, codec.ErrUnknownType) {
			continue
		}
		if err != nil {
			b.logger.Warn("skip invalid account record",
				zap.String("account_number", rec.AccountNumber), zap.Error(err))
			continue
		}
		b.accounts.put(acc.AccountNumber(), acc)
	}
	b.logger.Info("ledger loaded",
		zap.Int("customers", b.customers.size()),
		zap.Int("accounts", b.accounts.size()))
	return nil
}

// snapshot 目前狀態轉為持久化格式，呼叫端需持有鎖
func (b *Bank) snapshot() *codec.State {
	state := &codec.State{
		Customers: make([]codec.CustomerRecord, 0, b.customers.size()),
		Accounts:  make([]codec.AccountRecord, 0, b.accounts.size()),
	}
	for _, c := range b.customers.values() {
		state.Customers = append(state.Customers, codec.EncodeCustomer(c))
	}
	for _, a := range b.accounts.values() {
		state.Accounts = append(state.Accounts, codec.EncodeAccount(a))
	}
	return state
}

// commit 寫回儲存層；失敗時執行 undo 讓記憶體與儲存內容一致
func (b *Bank) commit(ctx context.Context, undo func()) error {
	if err := b.store.Save(ctx, b.snapshot()); err != nil {
		undo()
		b.logger.Error("persist ledger state failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}

// AddCustomer 新增客戶，ID 重複時回傳 ErrCustomerAlreadyExists
func (b *Bank) AddCustomer(ctx context.Context, customer *domain.Customer) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.customers.has(customer.ID()) {
		return domain.ErrCustomerAlreadyExists
	}
	c := customer.Clone()
	b.customers.put(c.ID(), c)
	if err := b.commit(ctx, func() { b.customers.remove(c.ID()) }); err != nil {
		return err
	}
	b.logger.Debug("customer added", zap.String("customer_id", c.ID()))
	return nil
}

// RemoveCustomer 刪除客戶，客戶仍有帳戶時不可刪除
func (b *Bank) RemoveCustomer(ctx context.Context, customerID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.customers.get(customerID)
	if !ok {
		return domain.ErrCustomerNotFound
	}
	if c.HasAccounts() {
		return domain.ErrCustomerHasAccounts
	}
	pos := b.customers.remove(customerID)
	if err := b.commit(ctx, func() { b.customers.insertAt(pos, customerID, c) }); err != nil {
		return err
	}
	b.logger.Debug("customer removed", zap.String("customer_id", customerID))
	return nil
}

// UpdateCustomerAddress 更新客戶地址
func (b *Bank) UpdateCustomerAddress(ctx context.Context, customerID, address string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.customers.get(customerID)
	if !ok {
		return domain.ErrCustomerNotFound
	}
	old := c.Address()
	c.SetAddress(address)
	return b.commit(ctx, func() { c.SetAddress(old) })
}

// CreateAccount 為客戶開立帳戶
//
// 參數:
//
//	customerID: 客戶 ID
//	kind: 帳戶類型
//	initialBalance: 初始餘額
//	opts: WithInterestRate (儲蓄，預設 0.01) / WithOverdraftLimit (支票，預設 0)
//
// 回傳:
//
//	domain.Account: 新帳戶的副本
//	error: ErrCustomerNotFound, ErrUnknownAccountKind, 參數不合法, ErrPersistFailed
func (b *Bank) CreateAccount(ctx context.Context, customerID string, kind domain.AccountKind, initialBalance decimal.Decimal, opts ...AccountOption) (domain.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.customers.get(customerID)
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	params := NewAccountParams(opts...)
	number := uuid.NewString()

	var (
		acc domain.Account
		err error
	)
	switch kind {
	case domain.KindSavings:
		rate := domain.DefaultInterestRate
		if params.InterestRate != nil {
			rate = *params.InterestRate
		}
		acc, err = domain.NewSavingsAccount(number, customerID, initialBalance, rate)
	case domain.KindChecking:
		limit := decimal.Zero
		if params.OverdraftLimit != nil {
			limit = *params.OverdraftLimit
		}
		acc, err = domain.NewCheckingAccount(number, customerID, initialBalance, limit)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAccountKind, kind)
	}
	if err != nil {
		return nil, err
	}

	b.accounts.put(number, acc)
	c.AddAccountNumber(number)
	undo := func() {
		b.accounts.remove(number)
		c.RemoveAccountNumber(number)
	}
	if err := b.commit(ctx, undo); err != nil {
		return nil, err
	}
	b.logger.Debug("account created",
		zap.String("customer_id", customerID),
		zap.String("account_number", number),
		zap.String("type", string(kind)))
	return acc.Clone(), nil
}

// SetInterestRate 設定儲蓄帳戶利率
func (b *Bank) SetInterestRate(ctx context.Context, accountNumber string, rate decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts.get(accountNumber)
	if !ok {
		return domain.ErrAccountNotFound
	}
	savings, ok := acc.(domain.InterestBearer)
	if !ok {
		return domain.ErrVariantMismatch
	}
	restore := domain.Checkpoint(acc)
	if err := savings.SetInterestRate(rate); err != nil {
		return err
	}
	return b.commit(ctx, restore)
}

// SetOverdraftLimit 設定支票帳戶透支額度
func (b *Bank) SetOverdraftLimit(ctx context.Context, accountNumber string, limit decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts.get(accountNumber)
	if !ok {
		return domain.ErrAccountNotFound
	}
	checking, ok := acc.(domain.Overdrafter)
	if !ok {
		return domain.ErrVariantMismatch
	}
	restore := domain.Checkpoint(acc)
	if err := checking.SetOverdraftLimit(limit); err != nil {
		return err
	}
	return b.commit(ctx, restore)
}

// Deposit 存款
func (b *Bank) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts.get(accountNumber)
	if !ok {
		return domain.ErrAccountNotFound
	}
	restore := domain.Checkpoint(acc)
	if err := acc.Deposit(amount); err != nil {
		return err
	}
	return b.commit(ctx, restore)
}

// Withdraw 提款
func (b *Bank) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	acc, ok := b.accounts.get(accountNumber)
	if !ok {
		return domain.ErrAccountNotFound
	}
	restore := domain.Checkpoint(acc)
	if err := acc.Withdraw(amount); err != nil {
		return err
	}
	return b.commit(ctx, restore)
}

// TransferFunds 轉帳，兩個帳戶要嘛都更新，要嘛都不動
//
// 只有提款與存款都成功才會寫回儲存層。
func (b *Bank) TransferFunds(ctx context.Context, fromAccountNumber, toAccountNumber string, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	from, ok := b.accounts.get(fromAccountNumber)
	if !ok {
		return fmt.Errorf("source %w", domain.ErrAccountNotFound)
	}
	to, ok := b.accounts.get(toAccountNumber)
	if !ok {
		return fmt.Errorf("destination %w", domain.ErrAccountNotFound)
	}

	restoreFrom := domain.Checkpoint(from)
	restoreTo := domain.Checkpoint(to)
	if err := domain.Transfer(from, to, amount); err != nil {
		b.logger.Debug("transfer rejected",
			zap.String("from", fromAccountNumber),
			zap.String("to", toAccountNumber),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return err
	}
	return b.commit(ctx, func() {
		restoreTo()
		restoreFrom()
	})
}

// ApplyAllInterest 對所有可計息帳戶計息，整批只寫一次儲存層
func (b *Bank) ApplyAllInterest(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var restores []func()
	for _, acc := range b.accounts.values() {
		if ib, ok := acc.(domain.InterestBearer); ok {
			restores = append(restores, domain.Checkpoint(acc))
			ib.ApplyInterest()
		}
	}
	return b.commit(ctx, func() {
		for _, restore := range restores {
			restore()
		}
	})
}

// GetAccount 取得帳戶副本
func (b *Bank) GetAccount(ctx context.Context, accountNumber string) (domain.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	acc, ok := b.accounts.get(accountNumber)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acc.Clone(), nil
}

// GetCustomerAccounts 回傳客戶仍存在於帳本的帳戶，不存在的帳號直接略過
//
// 客戶不存在時回傳空切片，不回傳錯誤。
func (b *Bank) GetCustomerAccounts(ctx context.Context, customerID string) ([]domain.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []domain.Account{}
	c, ok := b.customers.get(customerID)
	if !ok {
		return out, nil
	}
	for _, n := range c.AccountNumbers() {
		if acc, ok := b.accounts.get(n); ok {
			out = append(out, acc.Clone())
		}
	}
	return out, nil
}

// Customers 所有客戶 (副本，依建立順序)
func (b *Bank) Customers(ctx context.Context) ([]*domain.Customer, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*domain.Customer, 0, b.customers.size())
	for _, c := range b.customers.values() {
		out = append(out, c.Clone())
	}
	return out, nil
}

// Accounts 所有帳戶 (副本，依建立順序)
func (b *Bank) Accounts(ctx context.Context) ([]domain.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]domain.Account, 0, b.accounts.size())
	for _, a := range b.accounts.values() {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (b *Bank) DisplayAllCustomers(ctx context.Context, w io.Writer) error {
	customers, err := b.Customers(ctx)
	if err != nil {
		return err
	}
	return WriteCustomers(w, customers)
}

func (b *Bank) DisplayAllAccounts(ctx context.Context, w io.Writer) error {
	accounts, err := b.Accounts(ctx)
	if err != nil {
		return err
	}
	return WriteAccounts(w, accounts)
}

var _ Banking = (*Bank)(nil)
