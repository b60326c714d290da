// Package logger 建立專案共用的 zap.Logger。
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// NewLogger 初始化 Zap Logger
//
// 參數:
//
//	mode: development 輸出彩色 console 格式；其他值輸出 JSON
//	level: debug / info / warn / error，空字串使用該模式的預設值
//
// 回傳:
//
//	*zap.Logger: logger
//	error: level 無法解析或建立失敗
func NewLogger(mode, level string) (*zap.Logger, error) {
	var config zap.Config
	if mode == ModeDevelopment {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
