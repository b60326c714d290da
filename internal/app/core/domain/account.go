package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountKind 帳戶類型，同時作為持久化時的 type 欄位
type AccountKind string

const (
	// 儲蓄帳戶
	KindSavings AccountKind = "savings"
	// 支票帳戶
	KindChecking AccountKind = "checking"
)

// ParseAccountKind 將字串轉為 AccountKind，無法辨識時回傳 ErrUnknownAccountKind
func ParseAccountKind(s string) (AccountKind, error) {
	switch AccountKind(s) {
	case KindSavings, KindChecking:
		return AccountKind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAccountKind, s)
}

// Account 是所有帳戶類型共用的行為
//
// 餘額只能透過 Deposit / Withdraw (以及儲蓄帳戶的 ApplyInterest) 改變。
// 各類型的提款規則不同，由實作自行判斷。
type Account interface {
	AccountNumber() string
	HolderID() string
	Balance() decimal.Decimal
	Kind() AccountKind

	// Deposit 存款，金額必須 > 0
	Deposit(amount decimal.Decimal) error
	// Withdraw 提款，規則依帳戶類型而定
	Withdraw(amount decimal.Decimal) error

	// Details 顯示用字串
	Details() string
	// Clone 深拷貝，避免呼叫端持有帳本內部指標
	Clone() Account

	// restore 以同類型的快照覆蓋自身狀態 (Checkpoint 使用)
	restore(from Account)
}

// InterestBearer 可計息的帳戶 (目前只有儲蓄帳戶)
type InterestBearer interface {
	Account
	InterestRate() decimal.Decimal
	SetInterestRate(rate decimal.Decimal) error
	ApplyInterest()
}

// Overdrafter 可透支的帳戶 (目前只有支票帳戶)
type Overdrafter interface {
	Account
	OverdraftLimit() decimal.Decimal
	SetOverdraftLimit(limit decimal.Decimal) error
}

// accountBase 各類型共用欄位
type accountBase struct {
	number  string
	holder  string
	balance decimal.Decimal
}

func (b *accountBase) AccountNumber() string    { return b.number }
func (b *accountBase) HolderID() string         { return b.holder }
func (b *accountBase) Balance() decimal.Decimal { return b.balance }

func (b *accountBase) deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrAmountMustBePositive
	}
	b.balance = b.balance.Add(amount)
	return nil
}

func (b *accountBase) details() string {
	return fmt.Sprintf("Acc No: %s, Balance: $%s", b.number, b.balance.StringFixed(2))
}
