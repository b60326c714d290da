package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultInterestRate 未指定利率時使用 (1%)
var DefaultInterestRate = decimal.RequireFromString("0.01")

// SavingsAccount 儲蓄帳戶：餘額不可為負，可計息
type SavingsAccount struct {
	accountBase
	interestRate decimal.Decimal
}

// NewSavingsAccount 建立儲蓄帳戶
//
// 參數:
//
//	number: 帳號
//	holderID: 持有人客戶 ID
//	balance: 初始餘額
//	rate: 利率 (0.05 代表 5%)，不可為負
//
// 回傳:
//
//	*SavingsAccount: 帳戶
//	error: ErrNegativeInterestRate
func NewSavingsAccount(number, holderID string, balance, rate decimal.Decimal) (*SavingsAccount, error) {
	if rate.IsNegative() {
		return nil, ErrNegativeInterestRate
	}
	return &SavingsAccount{
		accountBase:  accountBase{number: number, holder: holderID, balance: balance},
		interestRate: rate,
	}, nil
}

func (s *SavingsAccount) Kind() AccountKind { return KindSavings }

func (s *SavingsAccount) InterestRate() decimal.Decimal { return s.interestRate }

// SetInterestRate 設定利率，負數會被拒絕且不改變狀態
func (s *SavingsAccount) SetInterestRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrNegativeInterestRate
	}
	s.interestRate = rate
	return nil
}

func (s *SavingsAccount) Deposit(amount decimal.Decimal) error {
	return s.deposit(amount)
}

// Withdraw 僅在 0 < amount <= balance 時成功
func (s *SavingsAccount) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	if amount.GreaterThan(s.balance) {
		return ErrInsufficientBalance
	}
	s.balance = s.balance.Sub(amount)
	return nil
}

// ApplyInterest balance += balance * rate
func (s *SavingsAccount) ApplyInterest() {
	s.balance = s.balance.Add(s.balance.Mul(s.interestRate))
}

func (s *SavingsAccount) Details() string {
	return fmt.Sprintf("%s, Interest Rate: %s%%", s.details(), s.interestRate.Shift(2).StringFixed(2))
}

func (s *SavingsAccount) Clone() Account {
	cp := *s
	return &cp
}

func (s *SavingsAccount) restore(from Account) {
	if src, ok := from.(*SavingsAccount); ok {
		*s = *src
	}
}

var _ InterestBearer = (*SavingsAccount)(nil)
