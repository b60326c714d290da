package sql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// sqlCustomer 對應資料庫的 bank_customers 表
type sqlCustomer struct {
	CustomerID string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"index"` // 註冊順序
	Name       string `gorm:"size:255"`
	Address    string `gorm:"size:512"`
}

func (*sqlCustomer) TableName() string {
	return "bank_customers"
}

// sqlCustomerAccount 客戶持有的帳號，依 Position 排序
type sqlCustomerAccount struct {
	CustomerID    string `gorm:"primaryKey;size:64"`
	AccountNumber string `gorm:"primaryKey;size:64"`
	Position      int
}

func (*sqlCustomerAccount) TableName() string {
	return "bank_customer_accounts"
}

// sqlAccount 對應資料庫的 bank_accounts 表
type sqlAccount struct {
	AccountNumber   string `gorm:"primaryKey;size:64"`
	Position        int    `gorm:"index"`
	Type            string `gorm:"size:16"`
	AccountHolderID string `gorm:"size:64;index"`

	// 以文字保存 decimal，避免資料庫數值型別截斷精度
	Balance        *decimal.Decimal `gorm:"type:text"`
	InterestRate   *decimal.Decimal `gorm:"type:text"`
	OverdraftLimit *decimal.Decimal `gorm:"type:text"`
}

func (*sqlAccount) TableName() string {
	return "bank_accounts"
}

// Store 以關聯式資料庫保存整份帳本
//
// 每次 Save 都在單一交易內清空並重寫三張表。
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore 建立 Store 並自動建立資料表
func NewStore(ctx context.Context, db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.WithContext(ctx).AutoMigrate(&sqlCustomer{}, &sqlCustomerAccount{}, &sqlAccount{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Load implements usecase.Store.
func (s *Store) Load(ctx context.Context) (*codec.State, error) {
	db := s.db.WithContext(ctx)

	var customers []sqlCustomer
	if err := db.Order("position").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("select customers: %w", err)
	}
	var links []sqlCustomerAccount
	if err := db.Order("customer_id").Order("position").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("select customer accounts: %w", err)
	}
	var accounts []sqlAccount
	if err := db.Order("position").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}

	owned := make(map[string][]string, len(customers))
	for _, l := range links {
		owned[l.CustomerID] = append(owned[l.CustomerID], l.AccountNumber)
	}

	state := &codec.State{
		Customers: make([]codec.CustomerRecord, 0, len(customers)),
		Accounts:  make([]codec.AccountRecord, 0, len(accounts)),
	}
	for _, c := range customers {
		numbers := owned[c.CustomerID]
		if numbers == nil {
			numbers = []string{}
		}
		state.Customers = append(state.Customers, codec.CustomerRecord{
			CustomerID:     c.CustomerID,
			Name:           c.Name,
			Address:        c.Address,
			AccountNumbers: numbers,
		})
	}
	for _, a := range accounts {
		state.Accounts = append(state.Accounts, codec.AccountRecord{
			Type:            a.Type,
			AccountNumber:   a.AccountNumber,
			AccountHolderID: a.AccountHolderID,
			Balance:         toAmount(a.Balance),
			InterestRate:    toAmount(a.InterestRate),
			OverdraftLimit:  toAmount(a.OverdraftLimit),
		})
	}
	s.logger.Debug("ledger loaded from database",
		zap.Int("customers", len(state.Customers)),
		zap.Int("accounts", len(state.Accounts)),
	)
	return state, nil
}

// Save implements usecase.Store.
func (s *Store) Save(ctx context.Context, state *codec.State) error {
	customers := make([]sqlCustomer, 0, len(state.Customers))
	var links []sqlCustomerAccount
	for i, c := range state.Customers {
		customers = append(customers, sqlCustomer{
			CustomerID: c.CustomerID,
			Position:   i,
			Name:       c.Name,
			Address:    c.Address,
		})
		for j, n := range c.AccountNumbers {
			links = append(links, sqlCustomerAccount{CustomerID: c.CustomerID, AccountNumber: n, Position: j})
		}
	}
	accounts := make([]sqlAccount, 0, len(state.Accounts))
	for i, a := range state.Accounts {
		accounts = append(accounts, sqlAccount{
			AccountNumber:   a.AccountNumber,
			Position:        i,
			Type:            a.Type,
			AccountHolderID: a.AccountHolderID,
			Balance:         fromAmount(a.Balance),
			InterestRate:    fromAmount(a.InterestRate),
			OverdraftLimit:  fromAmount(a.OverdraftLimit),
		})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 整份覆寫：先清空再寫入
		for _, model := range []any{&sqlCustomerAccount{}, &sqlAccount{}, &sqlCustomer{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}
		if len(customers) > 0 {
			if err := tx.Create(&customers).Error; err != nil {
				return fmt.Errorf("insert customers: %w", err)
			}
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return fmt.Errorf("insert customer accounts: %w", err)
			}
		}
		if len(accounts) > 0 {
			if err := tx.Create(&accounts).Error; err != nil {
				return fmt.Errorf("insert accounts: %w", err)
			}
		}
		return nil
	})
}

func toAmount(d *decimal.Decimal) *codec.Amount {
	if d == nil {
		return nil
	}
	return codec.NewAmount(*d)
}

func fromAmount(a *codec.Amount) *decimal.Decimal {
	if a == nil {
		return nil
	}
	d := a.Decimal
	return &d
}

var _ usecase.Store = (*Store)(nil)
