package config

import (
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

// PostgresCfg carries database connection settings
type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	Database    string `env:"POSTGRES_DB"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"100"`
}

// RedisCfg carries customer cache connection settings
type RedisCfg struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// JwtCfg carries token issuing settings, keys are read from PEM files
type JwtCfg struct {
	Issuer        string        `env:"AUTH_JWT_ISSUER" envDefault:"crm-api"`
	TimeToLive    time.Duration `env:"AUTH_JWT_TIME_TO_LIVE" envDefault:"30m"`
	SigningMethod jwt.SigningMethod
	PrivateKey    crypto.PrivateKey
	PublicKey     crypto.PublicKey
}

// BackupCfg carries snapshot upload settings. Token and Repo are allowed
// to be absent at startup - the backup operation itself fails fast with a
// descriptive error when they are missing.
type BackupCfg struct {
	Token    string `env:"GITHUB_TOKEN" envDefault:""`
	Repo     string `env:"GITHUB_REPO" envDefault:""`
	Username string `env:"GITHUB_USERNAME" envDefault:""`
	Branch   string `env:"GITHUB_BACKUP_BRANCH" envDefault:"main"`
}

// Config is the whole application configuration surface
type Config struct {
	Port        int `env:"PORT" envDefault:"3000"`
	PostgresCfg PostgresCfg
	RedisCfg    RedisCfg
	JwtCfg      JwtCfg
	BackupCfg   BackupCfg
}

// Build assembles config from environment. When SECRETS_FILE points at an
// env-format file its values override the process environment, which lets
// deployments inject runtime secrets without rebuilding.
func Build() (Config, error) {
	var cfg Config

	if secretsFile := os.Getenv("SECRETS_FILE"); secretsFile != "" {
		if err := godotenv.Overload(secretsFile); err != nil {
			return cfg, fmt.Errorf("failed to load secrets file %s - %w", secretsFile, err)
		}
	}

	opts := env.Options{RequiredIfNoDef: true}
	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	cfg.JwtCfg.SigningMethod = jwt.GetSigningMethod(jwtSigningAlgorithmEd25519)

	jwtPrivateKeyBytes, err := os.ReadFile(os.Getenv("AUTH_JWT_PRIVATE_KEY_FILE"))
	if err != nil {
		return cfg, fmt.Errorf("failed to read private key file for jwt - %w", err)
	}

	jwtPrivateKey, err := jwt.ParseEdPrivateKeyFromPEM(jwtPrivateKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse private key for jwt - %w", err)
	}
	cfg.JwtCfg.PrivateKey = jwtPrivateKey

	jwtPublicKeyBytes, err := os.ReadFile(os.Getenv("AUTH_JWT_PUBLIC_KEY_FILE"))
	if err != nil {
		return cfg, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	jwtPublicKey, err := jwt.ParseEdPublicKeyFromPEM(jwtPublicKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	cfg.JwtCfg.PublicKey = jwtPublicKey

	return cfg, nil
}
