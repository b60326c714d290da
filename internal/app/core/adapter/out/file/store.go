package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/codec"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-bank/pkg/snapshot"
)

// Format 檔案編碼格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Config 檔案儲存設定
type Config struct {
	Format        Format `mapstructure:"format" validate:"omitempty,oneof=json yaml"`
	CustomersPath string `mapstructure:"customers_path" validate:"required"`
	AccountsPath  string `mapstructure:"accounts_path" validate:"required"`
}

// Store 將客戶與帳戶分別寫入兩個檔案
//
// 檔案不存在或無法讀取時，該集合視為空的 (只記錄 warning)。
type Store struct {
	cfg    Config
	logger *zap.Logger
}

func NewStore(cfg Config, logger *zap.Logger) *Store {
	if cfg.Format == "" {
		cfg.Format = FormatJSON
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{cfg: cfg, logger: logger}
}

// Load implements usecase.Store.
func (s *Store) Load(ctx context.Context) (*codec.State, error) {
	return &codec.State{
		Customers: load[codec.CustomerRecord](s, s.cfg.CustomersPath),
		Accounts:  load[codec.AccountRecord](s, s.cfg.AccountsPath),
	}, nil
}

// load 讀取單一檔案；讀取或解析失敗時丟棄部分結果，回傳空集合
func load[T any](s *Store, path string) []T {
	var records []T
	found, err := snapshot.Read(path, s.decode(&records))
	switch {
	case err != nil:
		s.logger.Warn("unreadable ledger file, starting empty", zap.String("path", path), zap.Error(err))
		return nil
	case !found:
		s.logger.Info("ledger file not found, starting empty", zap.String("path", path))
	}
	return records
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
	// 兩個檔案一起取代，任一失敗時磁碟上維持先前的內容
	err := snapshot.WriteAll(
		snapshot.File{Path: s.cfg.CustomersPath, Mode: snapshot.FileModeReadOnly, Encode: s.encode(customers)},
		snapshot.File{Path: s.cfg.AccountsPath, Mode: snapshot.FileModeReadOnly, Encode: s.encode(accounts)},
	)
	if err != nil {
		return fmt.Errorf("write ledger files: %w", err)
	}
	return nil
}

func (s *Store) encode(v any) func(io.Writer) error {
	return func(w io.Writer) error {
		if s.cfg.Format == FormatYAML {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		}
		// 使用縮排格式輸出，方便人工檢視
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

func (s *Store) decode(out any) func(io.Reader) error {
	return func(r io.Reader) error {
		if s.cfg.Format == FormatYAML {
			err := yaml.NewDecoder(r).Decode(out)
			if err == io.EOF {
				return nil
			}
			return err
		}
		return json.NewDecoder(r).Decode(out)
	}
}

var _ usecase.Store = (*Store)(nil)
