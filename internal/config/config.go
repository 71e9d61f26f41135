package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"asociacion-app-go/pkg/logger"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	DB          DBConfig
	Auth        AuthConfig
	Backup      BackupConfig
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// BackupConfig selects where the best-effort snapshots go. Transfer is one
// of "local", "ftp", "sftp" or "none".
type BackupConfig struct {
	Transfer string
	Dir      string
	FTP      RemoteConfig
	SFTP     RemoteConfig
}

type RemoteConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Dir      string
}

func Load(log logger.Logger) (Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return Config{}, err
		}
		log.Debug("config: no .env file found, using process environment")
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "asociacion"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("JWT_TOKEN_TTL", 12*time.Hour),
		},
		Backup: BackupConfig{
			Transfer: getEnv("BACKUP_TRANSFER", "local"),
			Dir:      getEnv("BACKUP_DIR", "./backups"),
			FTP: RemoteConfig{
				Host:     getEnv("BACKUP_FTP_HOST", ""),
				Port:     getEnvInt("BACKUP_FTP_PORT", 21),
				User:     getEnv("BACKUP_FTP_USER", ""),
				Password: getEnv("BACKUP_FTP_PASSWORD", ""),
				Dir:      getEnv("BACKUP_FTP_DIR", "/"),
			},
			SFTP: RemoteConfig{
				Host:     getEnv("BACKUP_SFTP_HOST", ""),
				Port:     getEnvInt("BACKUP_SFTP_PORT", 22),
				User:     getEnv("BACKUP_SFTP_USER", ""),
				Password: getEnv("BACKUP_SFTP_PASSWORD", ""),
				Dir:      getEnv("BACKUP_SFTP_DIR", "/"),
			},
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
