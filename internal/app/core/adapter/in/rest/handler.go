package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

type BankHandler struct {
	bank usecase.Banking
}

func NewBankHandler(bank usecase.Banking) *BankHandler {
	return &BankHandler{bank: bank}
}

// RegisterRoutes 註冊路由
func (h *BankHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.PATCH("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
		customers.GET("/:id/accounts", h.ListCustomerAccounts)
		customers.POST("/:id/accounts", h.CreateAccount)
	}
	accounts := r.Group("/accounts")
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:number", h.GetAccount)
		accounts.PATCH("/:number", h.UpdateAccount)
		accounts.POST("/:number/deposit", h.Deposit)
		accounts.POST("/:number/withdraw", h.Withdraw)
	}
	r.POST("/transfers", h.Transfer)
	r.POST("/interest", h.ApplyInterest)
}

// statusOf 領域錯誤對應的 HTTP 狀態碼
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCustomerAlreadyExists),
		errors.Is(err, domain.ErrCustomerHasAccounts),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrOverdraftLimitExceeded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAmountMustBePositive),
		errors.Is(err, domain.ErrNegativeInterestRate),
		errors.Is(err, domain.ErrNegativeOverdraftLimit),
		errors.Is(err, domain.ErrUnknownAccountKind),
		errors.Is(err, domain.ErrVariantMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusOf(err), gin.H{"error": err.Error()})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

// CreateCustomer POST /api/v1/customers
func (h *BankHandler) CreateCustomer(c *gin.Context) {
	var req CreateCustomerReq
	if !bind(c, &req) {
		return
	}
	customer := domain.NewCustomer(req.CustomerID, req.Name, req.Address)
	if err := h.bank.AddCustomer(c.Request.Context(), customer); err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResp(customer))
}

// ListCustomers GET /api/v1/customers
func (h *BankHandler) ListCustomers(c *gin.Context) {
	customers, err := h.bank.Customers(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	out := make([]CustomerResp, 0, len(customers))
	for _, cu := range customers {
		out = append(out, toCustomerResp(cu))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateCustomer PATCH /api/v1/customers/:id
func (h *BankHandler) UpdateCustomer(c *gin.Context) {
	var req UpdateCustomerReq
	if !bind(c, &req) {
		return
	}
	if err := h.bank.UpdateCustomerAddress(c.Request.Context(), c.Param("id"), req.Address); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteCustomer DELETE /api/v1/customers/:id
func (h *BankHandler) DeleteCustomer(c *gin.Context) {
	if err := h.bank.RemoveCustomer(c.Request.Context(), c.Param("id")); err != nil {
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCustomerAccounts GET /api/v1/customers/:id/accounts
// 客戶不存在時回傳空陣列
func (h *BankHandler) ListCustomerAccounts(c *gin.Context) {
	accounts, err := h.bank.GetCustomerAccounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResps(accounts))
}

// CreateAccount POST /api/v1/customers/:id/accounts
func (h *BankHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountReq
	if !bind(c, &req) {
		return
	}
	kind, err := domain.ParseAccountKind(req.Type)
	if err != nil {
		abort(c, err)
		return
	}
	var opts []usecase.AccountOption
	if req.InterestRate != nil {
		opts = append(opts, usecase.WithInterestRate(*req.InterestRate))
	}
	if req.OverdraftLimit != nil {
		opts = append(opts, usecase.WithOverdraftLimit(*req.OverdraftLimit))
	}
	acc, err := h.bank.CreateAccount(c.Request.Context(), c.Param("id"), kind, req.InitialBalance, opts...)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccountResp(acc))
}

// ListAccounts GET /api/v1/accounts
func (h *BankHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.bank.Accounts(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResps(accounts))
}

// GetAccount GET /api/v1/accounts/:number
func (h *BankHandler) GetAccount(c *gin.Context) {
	h.respondAccount(c, http.StatusOK, c.Param("number"))
}

// UpdateAccount PATCH /api/v1/accounts/:number
func (h *BankHandler) UpdateAccount(c *gin.Context) {
	var req UpdateAccountReq
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	number := c.Param("number")
	if req.InterestRate != nil {
		if err := h.bank.SetInterestRate(ctx, number, *req.InterestRate); err != nil {
			abort(c, err)
			return
		}
	}
	if req.OverdraftLimit != nil {
		if err := h.bank.SetOverdraftLimit(ctx, number, *req.OverdraftLimit); err != nil {
			abort(c, err)
			return
		}
	}
	h.respondAccount(c, http.StatusOK, number)
}

// Deposit POST /api/v1/accounts/:number/deposit
func (h *BankHandler) Deposit(c *gin.Context) {
	var req AmountReq
	if !bind(c, &req) {
		return
	}
	if err := h.bank.Deposit(c.Request.Context(), c.Param("number"), req.Amount); err != nil {
		abort(c, err)
		return
	}
	h.respondAccount(c, http.StatusOK, c.Param("number"))
}

// Withdraw POST /api/v1/accounts/:number/withdraw
func (h *BankHandler) Withdraw(c *gin.Context) {
	var req AmountReq
	if !bind(c, &req) {
		return
	}
	if err := h.bank.Withdraw(c.Request.Context(), c.Param("number"), req.Amount); err != nil {
		abort(c, err)
		return
	}
	h.respondAccount(c, http.StatusOK, c.Param("number"))
}

// Transfer POST /api/v1/transfers
func (h *BankHandler) Transfer(c *gin.Context) {
	var req TransferReq
	if !bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := h.bank.TransferFunds(ctx, req.From, req.To, req.Amount); err != nil {
		abort(c, err)
		return
	}
	from, err := h.bank.GetAccount(ctx, req.From)
	if err != nil {
		abort(c, err)
		return
	}
	to, err := h.bank.GetAccount(ctx, req.To)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, TransferResp{From: toAccountResp(from), To: toAccountResp(to)})
}

// ApplyInterest POST /api/v1/interest
// 回傳計息後的所有帳戶
func (h *BankHandler) ApplyInterest(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.bank.ApplyAllInterest(ctx); err != nil {
		abort(c, err)
		return
	}
	accounts, err := h.bank.Accounts(ctx)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccountResps(accounts))
}

func (h *BankHandler) respondAccount(c *gin.Context, code int, number string) {
	acc, err := h.bank.GetAccount(c.Request.Context(), number)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(code, toAccountResp(acc))
}
