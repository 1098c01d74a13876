package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resumeATS/internal/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// slogWriter 把 GORM 的慢查询与错误日志转到 slog。
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Warn(fmt.Sprintf(format, args...), slog.String("component", "gorm"))
}

// NewGormLogger 返回只记录慢查询与错误的 GORM logger。
// 记录不存在是状态机的正常分支，不记日志。
func NewGormLogger(logger *slog.Logger) gormlogger.Interface {
	if logger == nil {
		logger = slog.Default()
	}
	return gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// InitDatabase 连接 PostgreSQL。worker 与 API 可能先于数据库启动，
// 因此 ping 失败时按固定间隔重试几次。
func InitDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: NewGormLogger(slog.Default()),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = sqlDB.PingContext(ctx)
		cancel()
		if err == nil {
			return db, nil
		}
		if attempt == connectAttempts {
			return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
		}
		slog.Warn("database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
		time.Sleep(connectBackoff)
	}
}

// Migrate 创建或更新处理记录表。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ResumeResult{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
