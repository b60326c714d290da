package rest

import (
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// 金額可傳 JSON 數字或字串，建議傳字串避免浮點誤差

type CreateCustomerReq struct {
	CustomerID string `json:"customerId" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
}

type UpdateCustomerReq struct {
	Address string `json:"address" binding:"required"`
}

type CreateAccountReq struct {
	Type           string           `json:"type" binding:"required"`
	InitialBalance decimal.Decimal  `json:"initialBalance"`
	InterestRate   *decimal.Decimal `json:"interestRate"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit"`
}

// UpdateAccountReq 只更新有帶的欄位
type UpdateAccountReq struct {
	InterestRate   *decimal.Decimal `json:"interestRate"`
	OverdraftLimit *decimal.Decimal `json:"overdraftLimit"`
}

type AmountReq struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferReq struct {
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type CustomerResp struct {
	CustomerID     string   `json:"customerId"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	AccountNumbers []string `json:"accountNumbers"`
}

type AccountResp struct {
	Type            string           `json:"type"`
	AccountNumber   string           `json:"accountNumber"`
	AccountHolderID string           `json:"accountHolderId"`
	Balance         decimal.Decimal  `json:"balance"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	OverdraftLimit  *decimal.Decimal `json:"overdraftLimit,omitempty"`
	Details         string           `json:"details"`
}

type TransferResp struct {
	From AccountResp `json:"from"`
	To   AccountResp `json:"to"`
}

func toCustomerResp(c *domain.Customer) CustomerResp {
	numbers := c.AccountNumbers()
	if numbers == nil {
		numbers = []string{}
	}
	return CustomerResp{
		CustomerID:     c.ID(),
		Name:           c.Name(),
		Address:        c.Address(),
		AccountNumbers: numbers,
	}
}

func toAccountResp(a domain.Account) AccountResp {
	resp := AccountResp{
		Type:            string(a.Kind()),
		AccountNumber:   a.AccountNumber(),
		AccountHolderID: a.HolderID(),
		Balance:         a.Balance(),
		Details:         a.Details(),
	}
	switch acc := a.(type) {
	case domain.InterestBearer:
		rate := acc.InterestRate()
		resp.InterestRate = &rate
	case domain.Overdrafter:
		limit := acc.OverdraftLimit()
		resp.OverdraftLimit = &limit
	}
	return resp
}

func toAccountResps(accounts []domain.Account) []AccountResp {
	out := make([]AccountResp, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResp(a))
	}
	return out
}
