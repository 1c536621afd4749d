package config

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server   ServerConfig   `env:",prefix=SERVER_"`
	Postgres PostgresConfig `env:",prefix=POSTGRES_"`
	Redis    RedisConfig    `env:",prefix=REDIS_"`
	JWT      JWTConfig      `env:",prefix=JWT_"`
	Security SecurityConfig `env:",prefix="`
	Mail     MailConfig     `env:",prefix=MAIL_"`
	Google   GoogleConfig   `env:",prefix=GOOGLE_"`
	Reaper   ReaperConfig   `env:",prefix=REAPER_"`
	CORS     CORSConfig     `env:",prefix=CORS_"`
	Env      string         `env:"ENV,default=development"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=5000"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host         string `env:"HOST,default=localhost"`
	Port         string `env:"PORT,default=5432"`
	User         string `env:"USER,default=bilogames"`
	Password     string `env:"PASSWORD,default=bilogames_password"`
	DBName       string `env:"DB,default=bilogames_db"`
	SSLMode      string `env:"SSLMODE,default=disable"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS,default=20"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS,default=5"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE,default=true"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type JWTConfig struct {
	Secret string   `env:"SECRET,required"`
	Expiry Duration `env:"EXPIRY,default=7d"`
}

type SecurityConfig struct {
	BCryptCost int      `env:"BCRYPT_COST,default=12"`
	CodeTTL    Duration `env:"CODE_TTL,default=15m"`
}

// MailConfig holds SMTP settings. An empty Host switches delivery to the log-only sender.
type MailConfig struct {
	Host     string `env:"HOST,default="`
	Port     int    `env:"PORT,default=587"`
	Username string `env:"USERNAME,default="`
	Password string `env:"PASSWORD,default="`
	From     string `env:"FROM,default=BiloGames <no-reply@bilogames.local>"`
}

type GoogleConfig struct {
	ClientID        string   `env:"CLIENT_ID,default="`
	JWKSURL         string   `env:"JWKS_URL,default=https://www.googleapis.com/oauth2/v3/certs"`
	UserInfoURL     string   `env:"USERINFO_URL,default=https://www.googleapis.com/oauth2/v3/userinfo"`
	RegistrationTTL Duration `env:"REGISTRATION_TTL,default=30m"`

	// RequireRegistrationToken makes /auth/google/register refuse requests without the ticket.
	RequireRegistrationToken bool `env:"REQUIRE_REGISTRATION_TOKEN,default=false"`
}

type ReaperConfig struct {
	Interval     Duration `env:"INTERVAL,default=1h"`
	InitialDelay Duration `env:"INITIAL_DELAY,default=10s"`
	Retention    Duration `env:"RETENTION,default=5d"`
	LockTTL      Duration `env:"LOCK_TTL,default=10m"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// URL returns the connection string in URL form, as expected by the migrator.
func (p PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%s", p.Host, p.Port),
		Path:     p.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// SMTPEnabled reports whether outgoing mail goes through an SMTP relay.
func (m MailConfig) SMTPEnabled() bool {
	return m.Host != ""
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if len(config.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if config.Reaper.Interval.Duration <= 0 {
		return nil, fmt.Errorf("REAPER_INTERVAL must be positive")
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
