package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"quiz_session_backend/internals/configs"
)

// DSN builds the connection string; DATABASE_URL wins when set.
func DSN(cfg configs.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	q.Set("application_name", "quiz_session_backend")
	if cfg.StatementTimeout > 0 {
		q.Set("options", fmt.Sprintf("-c statement_timeout=%d", cfg.StatementTimeout))
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// ConnectDB opens the pool; the caller owns the returned handle.
func ConnectDB(cfg configs.DBConfig, log logrus.FieldLogger) (*gorm.DB, error) {
	log.WithField("host", cfg.Host).Info("🔌 connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  DSN(cfg),
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(log, cfg.LogLevel, cfg.SlowThreshold),
	})
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Ping(ctx, db); err != nil {
		return nil, errors.Wrap(err, "ping database")
	}
	log.Info("✅ DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, log logrus.FieldLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Warn("pool tune err")
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
