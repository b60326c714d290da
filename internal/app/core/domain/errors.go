package domain

import "errors"

var (
	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInsufficientBalance 餘額不足 (儲蓄帳戶)
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrOverdraftLimitExceeded 超過透支額度 (支票帳戶)
	ErrOverdraftLimitExceeded = errors.New("overdraft limit exceeded")

	// ErrNegativeInterestRate 利率不可為負
	ErrNegativeInterestRate = errors.New("interest rate must not be negative")

	// ErrNegativeOverdraftLimit 透支額度不可為負
	ErrNegativeOverdraftLimit = errors.New("overdraft limit must not be negative")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownAccountKind 不支援的帳戶類型
	ErrUnknownAccountKind = errors.New("unknown account type")

	// ErrVariantMismatch 對錯誤的帳戶類型操作 (例如對支票帳戶設定利率)
	ErrVariantMismatch = errors.New("operation not supported by account type")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerAlreadyExists 客戶已存在
	ErrCustomerAlreadyExists = errors.New("customer already exists")

	// ErrCustomerHasAccounts 客戶仍持有帳戶，不可刪除
	ErrCustomerHasAccounts = errors.New("customer still has accounts")
)
