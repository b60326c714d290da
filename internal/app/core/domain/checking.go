package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CheckingAccount 支票帳戶：可透支至 -overdraftLimit
type CheckingAccount struct {
	accountBase
	overdraftLimit decimal.Decimal
}

// NewCheckingAccount 建立支票帳戶，limit 不可為負
func NewCheckingAccount(number, holderID string, balance, limit decimal.Decimal) (*CheckingAccount, error) {
	if limit.IsNegative() {
		return nil, ErrNegativeOverdraftLimit
	}
	return &CheckingAccount{
		accountBase:    accountBase{number: number, holder: holderID, balance: balance},
		overdraftLimit: limit,
	}, nil
}

func (c *CheckingAccount) Kind() AccountKind { return KindChecking }

func (c *CheckingAccount) OverdraftLimit() decimal.Decimal { return c.overdraftLimit }

// SetOverdraftLimit 設定透支額度，負數會被拒絕且不改變狀態
func (c *CheckingAccount) SetOverdraftLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return ErrNegativeOverdraftLimit
	}
	c.overdraftLimit = limit
	return nil
}

func (c *CheckingAccount) Deposit(amount decimal.Decimal) error {
	return c.deposit(amount)
}

// Withdraw 只檢查 balance - amount >= -overdraftLimit。
// 注意：這裡刻意不檢查 amount > 0，負數提款會讓餘額增加 (沿用既有行為)。
func (c *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	next := c.balance.Sub(amount)
	if next.LessThan(c.overdraftLimit.Neg()) {
		return ErrOverdraftLimitExceeded
	}
	c.balance = next
	return nil
}

func (c *CheckingAccount) Details() string {
	return fmt.Sprintf("%s, Overdraft Limit: $%s", c.details(), c.overdraftLimit.StringFixed(2))
}

func (c *CheckingAccount) Clone() Account {
	cp := *c
	return &cp
}

func (c *CheckingAccount) restore(from Account) {
	if src, ok := from.(*CheckingAccount); ok {
		*c = *src
	}
}

var _ Overdrafter = (*CheckingAccount)(nil)
