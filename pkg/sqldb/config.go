package sqldb

import (
	"fmt"
	"time"
)

// Driver 支援的資料庫種類
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// Config 定義資料庫連線與連線池的配置
type Config struct {
	Driver   Driver `mapstructure:"driver" validate:"required,oneof=mysql postgres"`
	Host     string `mapstructure:"host" validate:"required"`   // 資料庫主機地址
	Port     int    `mapstructure:"port" validate:"gt=0"`       // 資料庫埠號
	User     string `mapstructure:"user" validate:"required"`   // 使用者名稱
	Password string `mapstructure:"password"`                   // 密碼
	DBName   string `mapstructure:"dbname" validate:"required"` // 資料庫名稱
	SSLMode  string `mapstructure:"sslmode"`                    // 只有 postgres 使用

	// 連線池設定 (Connection Pool)
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大開啟連線數
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大閒置連線數
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 連線最大存活時間

	// 連線重試
	MaxRetries    int           `mapstructure:"max_retries"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`

	// GORM 設定
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`
}

// DSN (Data Source Name) 依 Driver 產生連線字串
//
// mysql:    user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// postgres: host=... port=... user=... password=... dbname=... sslmode=...
func (c *Config) DSN() string {
	if c.Driver == DriverPostgres {
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host,
			c.Port,
			c.User,
			c.Password,
			c.DBName,
			sslMode,
		)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
	)
}
