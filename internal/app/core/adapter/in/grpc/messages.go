package grpc

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// 金額與利率以 decimal 字串傳輸，避免浮點誤差

type Empty struct{}

type Customer struct {
	CustomerID     string   `json:"customerId"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	AccountNumbers []string `json:"accountNumbers"`
}

type Account struct {
	Type            string           `json:"type"`
	AccountNumber   string           `json:"accountNumber"`
	AccountHolderID string           `json:"accountHolderId"`
	Balance         decimal.Decimal  `json:"balance"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	OverdraftLimit  *decimal.Decimal `json:"overdraftLimit,omitempty"`
}

type AddCustomerRequest struct {
	Customer Customer `json:"customer"`
}

type CustomerIDRequest struct {
	CustomerID string `json:"customerId"`
}

type UpdateCustomerAddressRequest struct {
	CustomerID string `json:"customerId"`
	Address    string `json:"address"`
}

type CreateAccountRequest struct {
	CustomerID     string           `json:"customerId"`
	Type           string           `json:"type"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	InterestRate   *decimal.Decimal `json:"interestRate,omitempty"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit,omitempty"`
}

type AccountNumberRequest struct {
	AccountNumber string `json:"accountNumber"`
}

// SetRateRequest 用於 SetInterestRate 與 SetOverdraftLimit
type SetRateRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Value         decimal.Decimal `json:"value"`
}

// AmountRequest 用於 Deposit 與 Withdraw
type AmountRequest struct {
	AccountNumber string          `json:"accountNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccountNumber string          `json:"fromAccountNumber"`
	ToAccountNumber   string          `json:"toAccountNumber"`
	Amount            decimal.Decimal `json:"amount"`
}

type AccountResponse struct {
	Account Account `json:"account"`
}

type AccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

type CustomersResponse struct {
	Customers []Customer `json:"customers"`
}

func customerToMessage(c *domain.Customer) Customer {
	return Customer{
		CustomerID:     c.ID(),
		Name:           c.Name(),
		Address:        c.Address(),
		AccountNumbers: c.AccountNumbers(),
	}
}

func customerFromMessage(m Customer) *domain.Customer {
	c := domain.NewCustomer(m.CustomerID, m.Name, m.Address)
	for _, n := range m.AccountNumbers {
		c.AddAccountNumber(n)
	}
	return c
}

func accountToMessage(a domain.Account) Account {
	m := Account{
		Type:            string(a.Kind()),
		AccountNumber:   a.AccountNumber(),
		AccountHolderID: a.HolderID(),
		Balance:         a.Balance(),
	}
	switch acc := a.(type) {
	case domain.InterestBearer:
		rate := acc.InterestRate()
		m.InterestRate = &rate
	case domain.Overdrafter:
		limit := acc.OverdraftLimit()
		m.OverdraftLimit = &limit
	}
	return m
}

func accountFromMessage(m Account) (domain.Account, error) {
	switch domain.AccountKind(m.Type) {
	case domain.KindSavings:
		rate := domain.DefaultInterestRate
		if m.InterestRate != nil {
			rate = *m.InterestRate
		}
		return domain.NewSavingsAccount(m.AccountNumber, m.AccountHolderID, m.Balance, rate)
	case domain.KindChecking:
		limit := decimal.Zero
		if m.OverdraftLimit != nil {
			limit = *m.OverdraftLimit
		}
		return domain.NewCheckingAccount(m.AccountNumber, m.AccountHolderID, m.Balance, limit)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAccountKind, m.Type)
	}
}

func accountsToMessages(accounts []domain.Account) []Account {
	out := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountToMessage(a))
	}
	return out
}

func accountsFromMessages(msgs []Account) ([]domain.Account, error) {
	out := make([]domain.Account, 0, len(msgs))
	for _, m := range msgs {
		a, err := accountFromMessage(m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
