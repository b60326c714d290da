// Package config 讀取服務設定。
//
// 優先順序 (高到低)：命令列參數 > BANK_* 環境變數 > 設定檔 > 預設值。
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/file"
	redisclient "github.com/JoeShih716/go-mem-bank/pkg/redis"
	"github.com/JoeShih716/go-mem-bank/pkg/sqldb"
)

const envPrefix = "BANK"

// 執行模式
const (
	ModeCLI    = "cli"    // 本機互動選單
	ModeServe  = "serve"  // 啟動 gRPC + HTTP
	ModeRemote = "remote" // 互動選單連到遠端 gRPC
)

// 儲存方式
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQL    = "sql"
	StorageRedis  = "redis"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Storage StorageConfig `mapstructure:"storage"`
	GRPC    GRPCConfig    `mapstructure:"grpc"`
	HTTP    HTTPConfig    `mapstructure:"http"`
}

type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Env      string `mapstructure:"env" validate:"oneof=development production"`
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Mode     string `mapstructure:"mode" validate:"oneof=cli serve remote"`
}

// StorageConfig 只驗證 Driver 選到的那一組設定
type StorageConfig struct {
	Driver string             `mapstructure:"driver" validate:"oneof=memory file sql redis"`
	File   file.Config        `mapstructure:"file" validate:"-"`
	SQL    sqldb.Config       `mapstructure:"sql" validate:"-"`
	Redis  redisclient.Config `mapstructure:"redis" validate:"-"`
}

type GRPCConfig struct {
	Addr string `mapstructure:"addr" validate:"required"` // 服務監聽位址
	// remote 模式連線目標
	Target      string        `mapstructure:"target" validate:"required"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
	// gin 模式: debug / release / test
	GinMode         string        `mapstructure:"gin_mode" validate:"oneof=debug release test"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-mem-bank")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.mode", ModeCLI)

	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("storage.file.format", string(file.FormatJSON))
	v.SetDefault("storage.file.customers_path", "data/customers.json")
	v.SetDefault("storage.file.accounts_path", "data/accounts.json")

	v.SetDefault("storage.sql.driver", string(sqldb.DriverMySQL))
	v.SetDefault("storage.sql.host", "127.0.0.1")
	v.SetDefault("storage.sql.port", 3306)
	v.SetDefault("storage.sql.user", "root")
	v.SetDefault("storage.sql.password", "")
	v.SetDefault("storage.sql.dbname", "bank")
	v.SetDefault("storage.sql.sslmode", "disable")
	v.SetDefault("storage.sql.max_open_conns", 20)
	v.SetDefault("storage.sql.max_idle_conns", 5)
	v.SetDefault("storage.sql.conn_max_lifetime", time.Hour)
	v.SetDefault("storage.sql.max_retries", 10)
	v.SetDefault("storage.sql.retry_interval", 2*time.Second)
	v.SetDefault("storage.sql.log_level", "error")

	v.SetDefault("storage.redis.addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.pool_size", 10)
	v.SetDefault("storage.redis.prefix", "bank")

	v.SetDefault("grpc.addr", ":50051")
	v.SetDefault("grpc.target", "127.0.0.1:50051")
	v.SetDefault("grpc.dial_timeout", 5*time.Second)

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.gin_mode", "release")
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
}

// Load 解析 args (不含程式名稱) 並讀取設定
//
// 參數:
//
//	args: 命令列參數，通常是 os.Args[1:]
//
// 回傳:
//
//	*Config: 驗證過的設定
//	error: 參數、設定檔格式或驗證錯誤
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("bank", pflag.ContinueOnError)
	configFile := fs.StringP("config", "c", "", "設定檔路徑 (預設搜尋 ./config/config.yaml)")
	fs.StringP("mode", "m", ModeCLI, "執行模式: cli | serve | remote")
	fs.String("storage", StorageFile, "儲存方式: memory | file | sql | redis")
	fs.String("grpc-addr", ":50051", "gRPC 監聽位址")
	fs.String("grpc-target", "127.0.0.1:50051", "remote 模式連線的 gRPC 位址")
	fs.String("http-addr", ":8080", "HTTP 監聽位址")
	fs.String("log-level", "info", "log 等級: debug | info | warn | error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	// 只有明確指定的參數才會覆蓋設定檔
	for key, flag := range map[string]string{
		"app.mode":       "mode",
		"storage.driver": "storage",
		"grpc.addr":      "grpc-addr",
		"grpc.target":    "grpc-target",
		"http.addr":      "http-addr",
		"app.log_level":  "log-level",
	} {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// 沒有設定檔時使用預設值；指定了卻讀不到則回報
		if !errors.As(err, &notFound) || *configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 驗證設定，並依 Storage.Driver 驗證對應的子設定
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	var sub any
	switch c.Storage.Driver {
	case StorageFile:
		sub = c.Storage.File
	case StorageSQL:
		sub = c.Storage.SQL
	case StorageRedis:
		sub = c.Storage.Redis
	default:
		return nil
	}
	if err := validate.Struct(sub); err != nil {
		return fmt.Errorf("invalid %s storage config: %w", c.Storage.Driver, err)
	}
	return nil
}
