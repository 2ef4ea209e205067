package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string
	AutoMigrate      bool // 起動時にgormのAutoMigrateを流す（開発用）

	JWTSecret string // 認証基盤と共有する署名シークレット
	JWTIssuer string // 空なら iss を確認しない

	GoEnv       string   // development/production/test
	CORSOrigins []string // フロントURL

	KafkaBrokers    []string // 空ならイベントは送らない
	KafkaOrderTopic string

	RequireRejectionReason bool // rejectで理由を必須にする
	RestockOnReceive       bool // receivedで在庫を増やす
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Loadは .env と環境変数から設定を読む
func Load() (Config, error) {
	//.envは無くてもよい（本番は環境変数のみ）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "buildseason")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("KAFKA_ORDER_TOPIC", "buildseason.orders")
	v.SetDefault("ORDER_REQUIRE_REJECTION_REASON", true)
	v.SetDefault("ORDER_RESTOCK_ON_RECEIVE", false)

	cfg := Config{
		Port: v.GetString("PORT"),

		DatabaseURL:      v.GetString("DATABASE_URL"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),
		AutoMigrate:      v.GetBool("AUTO_MIGRATE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTIssuer: v.GetString("JWT_ISSUER"),

		GoEnv:       v.GetString("GO_ENV"),
		CORSOrigins: splitCSV(v.GetString("CORS_ORIGINS")),

		KafkaBrokers:    splitCSV(v.GetString("KAFKA_BROKERS")),
		KafkaOrderTopic: v.GetString("KAFKA_ORDER_TOPIC"),

		RequireRejectionReason: v.GetBool("ORDER_REQUIRE_REJECTION_REASON"),
		RestockOnReceive:       v.GetBool("ORDER_RESTOCK_ON_RECEIVE"),
	}

	switch cfg.GoEnv {
	case "development", "production", "test":
	default:
		return Config{}, fmt.Errorf("GO_ENV must be development, production or test: %q", cfg.GoEnv)
	}

	//開発時はローカルのフロントを許可
	if len(cfg.CORSOrigins) == 0 && cfg.GoEnv == "development" {
		cfg.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	//必須チェック
	if cfg.IsProduction() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required")
		}
		if cfg.JWTSecret == "" {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev_secret_change_me"
	}
	if cfg.PostgresPort <= 0 {
		return Config{}, fmt.Errorf("POSTGRES_PORT must be number")
	}

	return cfg, nil
}

// DSN は gorm に渡す接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

// MigrateURL は golang-migrate 用の postgres:// 形式
func (c Config) MigrateURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresHost, strconv.Itoa(c.PostgresPort)),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSLMode),
	}
	return u.String()
}

func splitCSV(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
