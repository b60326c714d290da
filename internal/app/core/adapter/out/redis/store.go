package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

const DefaultPrefix = "bank"

// Store 將客戶與帳戶各存成一個 JSON key
//
//	<prefix>:customers
//	<prefix>:accounts
//
// 兩個 key 在同一個 MULTI/EXEC 內寫入。
type Store struct {
	client goredis.UniversalClient
	prefix string
	logger *zap.Logger
}

func NewStore(client goredis.UniversalClient, prefix string, logger *zap.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) customersKey() string { return s.prefix + ":customers" }
func (s *Store) accountsKey() string  { return s.prefix + ":accounts" }

// Load implements usecase.Store.
//
// key 不存在視為空集合；內容無法解析時記錄 warning 並視為空集合。
func (s *Store) Load(ctx context.Context) (*codec.State, error) {
	customers, err := get[codec.CustomerRecord](ctx, s, s.customersKey())
	if err != nil {
		return nil, err
	}
	accounts, err := get[codec.AccountRecord](ctx, s, s.accountsKey())
	if err != nil {
		return nil, err
	}
	return &codec.State{Customers: customers, Accounts: accounts}, nil
}

func get[T any](ctx context.Context, s *Store, key string) ([]T, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		s.logger.Info("ledger key not found, starting empty", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("unreadable ledger key, starting empty", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return records, nil
}

// Save implements usecase.Store.
func (s *Store) Save(ctx context.Context, state *codec.State) error {
	customers := state.Customers
	if customers == nil {
		customers = []codec.CustomerRecord{}
	}
	accounts := state.Accounts
	if accounts == nil {
		accounts = []codec.AccountRecord{}
	}
	customersJSON, err := json.Marshal(customers)
	if err != nil {
		return fmt.Errorf("marshal customers: %w", err)
	}
	accountsJSON, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("marshal accounts: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, s.customersKey(), customersJSON, 0)
		pipe.Set(ctx, s.accountsKey(), accountsJSON, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write ledger keys: %w", err)
	}
	return nil
}

var _ usecase.Store = (*Store)(nil)
