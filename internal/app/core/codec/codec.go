// Package codec 定義帳本持久化的資料格式 (records)，
// 以及 domain 實體與 records 之間的轉換。
//
// 帳戶以 type 欄位區分類型；載入時缺少的欄位套用預設值，
// 未知的 type 回傳 ErrUnknownType 由呼叫端略過。
package codec

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// ErrUnknownType 無法辨識的帳戶 type
var ErrUnknownType = errors.New("unknown account record type")

// 載入時的欄位預設值
const (
	DefaultBalance        = 0.0
	DefaultInterestRate   = 0.01
	DefaultOverdraftLimit = 0.0
)

// CustomerRecord 客戶的持久化格式
type CustomerRecord struct {
	CustomerID     string   `json:"customerId" yaml:"customerId"`
	Name           string   `json:"name" yaml:"name"`
	Address        string   `json:"address" yaml:"address"`
	AccountNumbers []string `json:"accountNumbers" yaml:"accountNumbers"`
}

// AccountRecord 帳戶的持久化格式
//
// 指標欄位用於區分「缺少」與「零值」，缺少時套用預設值。
type AccountRecord struct {
	Type            string   `json:"type" yaml:"type"`
	AccountNumber   string   `json:"accountNumber" yaml:"accountNumber"`
	AccountHolderID string   `json:"accountHolderId" yaml:"accountHolderId"`
	Balance         *Amount `json:"balance,omitempty" yaml:"balance,omitempty"`
	InterestRate    *Amount `json:"interestRate,omitempty" yaml:"interestRate,omitempty"`
	OverdraftLimit  *Amount `json:"overdraftLimit,omitempty" yaml:"overdraftLimit,omitempty"`
}

// State 帳本完整狀態：兩個集合，各自保持帳本的順序
type State struct {
	Customers []CustomerRecord `json:"customers" yaml:"customers"`
	Accounts  []AccountRecord  `json:"accounts" yaml:"accounts"`
}

// Clone 深拷貝，讓 Store 實作不會與帳本共用切片
func (s *State) Clone() *State {
	if s == nil {
		return &State{}
	}
	out := &State{
		Customers: make([]CustomerRecord, len(s.Customers)),
		Accounts:  make([]AccountRecord, len(s.Accounts)),
	}
	for i, c := range s.Customers {
		c.AccountNumbers = append([]string(nil), c.AccountNumbers...)
		out.Customers[i] = c
	}
	for i, a := range s.Accounts {
		a.Balance = clonePtr(a.Balance)
		a.InterestRate = clonePtr(a.InterestRate)
		a.OverdraftLimit = clonePtr(a.OverdraftLimit)
		out.Accounts[i] = a
	}
	return out
}

func clonePtr(p *Amount) *Amount {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func valueOr(p *Amount, def float64) decimal.Decimal {
	if p == nil {
		return decimal.NewFromFloat(def)
	}
	return p.Decimal
}

// EncodeCustomer domain.Customer -> CustomerRecord
func EncodeCustomer(c *domain.Customer) CustomerRecord {
	nums := c.AccountNumbers()
	if nums == nil {
		nums = []string{}
	}
	return CustomerRecord{
		CustomerID:     c.ID(),
		Name:           c.Name(),
		Address:        c.Address(),
		AccountNumbers: nums,
	}
}

// DecodeCustomer CustomerRecord -> domain.Customer，重複的帳號會被合併
func DecodeCustomer(r CustomerRecord) *domain.Customer {
	c := domain.NewCustomer(r.CustomerID, r.Name, r.Address)
	for _, n := range r.AccountNumbers {
		c.AddAccountNumber(n)
	}
	return c
}

// EncodeAccount 依帳戶類型寫入對應的專屬欄位
func EncodeAccount(a domain.Account) AccountRecord {
	rec := AccountRecord{
		Type:            string(a.Kind()),
		AccountNumber:   a.AccountNumber(),
		AccountHolderID: a.HolderID(),
		Balance:         NewAmount(a.Balance()),
	}
	switch acc := a.(type) {
	case domain.InterestBearer:
		rec.InterestRate = NewAmount(acc.InterestRate())
	case domain.Overdrafter:
		rec.OverdraftLimit = NewAmount(acc.OverdraftLimit())
	}
	return rec
}

// DecodeAccount 依 type 欄位建立對應的帳戶
//
// 回傳:
//
//	domain.Account: 帳戶
//	error: ErrUnknownType，或帳戶參數不合法 (例如負利率)
func DecodeAccount(r AccountRecord) (domain.Account, error) {
	balance := valueOr(r.Balance, DefaultBalance)
	switch domain.AccountKind(r.Type) {
	case domain.KindSavings:
		return domain.NewSavingsAccount(r.AccountNumber, r.AccountHolderID, balance,
			valueOr(r.InterestRate, DefaultInterestRate))
	case domain.KindChecking:
		return domain.NewCheckingAccount(r.AccountNumber, r.AccountHolderID, balance,
			valueOr(r.OverdraftLimit, DefaultOverdraftLimit))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
}
