package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-chain/models"
)

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func baseMySQLConfig() *gomysql.Config {
	mc := gomysql.NewConfig()
	mc.Net = "tcp"
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	mc := baseMySQLConfig()
	mc.User = u.User.Username()
	mc.Passwd, _ = u.User.Password()

	port := u.Port()
	if port == "" {
		port = "3306"
	}
	mc.Addr = u.Hostname() + ":" + port

	mc.DBName = strings.TrimPrefix(u.Path, "/")
	if mc.DBName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}
	for key, values := range u.Query() {
		if len(values) > 0 && key != "parseTime" && key != "loc" {
			mc.Params[key] = values[0]
		}
	}
	return mc.FormatDSN(), nil
}

// resolveMySQLDSN reads MYSQL_URL or DATABASE_URL (mysql:// URL or a raw
// DSN), falling back to DB_USER, DB_PASS, DB_HOST, DB_PORT and DB_NAME.
func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		if _, err := gomysql.ParseDSN(raw); err != nil {
			return "", fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return raw, nil
	}

	mc := baseMySQLConfig()
	mc.User = envOrDefault("DB_USER", "root")
	mc.Passwd = os.Getenv("DB_PASS")
	mc.Addr = envOrDefault("DB_HOST", "127.0.0.1") + ":" + envOrDefault("DB_PORT", "3306")
	mc.DBName = envOrDefault("DB_NAME", "hotel_chain")
	return mc.FormatDSN(), nil
}

// ConnectDatabase opens the journal database and migrates its table.
func ConnectDatabase(cfg DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.LogSQL {
		level = logger.Info
	}
	gormLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.TxRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}
