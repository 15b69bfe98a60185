package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal      = "local"
	EnvProduction = "production"
)

type Config struct {
	Env          string             `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   HTTPServerConfig   `yaml:"http_server"`
	Auth         AuthConfig         `yaml:"auth"`
	CORS         CORSConfig         `yaml:"cors"`
	MongoDB      MongoDBConfig      `yaml:"mongo"`
	Redis        RedisConfig        `yaml:"redis"`
	NATS         NATSConfig         `yaml:"nats"`
	SMTP         SMTPConfig         `yaml:"smtp"`
	Storage      StorageConfig      `yaml:"storage"`
	Notification NotificationConfig `yaml:"notification"`
	Logger       LoggerConfig       `yaml:"logger"`
	Tracing      TracingConfig      `yaml:"tracing"`
}

// IsProduction switches the session cookie to cross-site attributes.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"PORT" env-default:"5000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"HTTP_MAX_UPLOAD_BYTES" env-default:"5242880"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret" env:"ACCESS_TOKEN_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"ACCESS_TOKEN_TTL" env-default:"8760h"`
	RoleCacheTTL time.Duration `yaml:"role_cache_ttl" env:"ROLE_CACHE_TTL" env-default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173,http://localhost:5174"`
}

type MongoDBConfig struct {
	URI          string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASS"`
	Database     string `yaml:"database" env:"MONGO_DATABASE" env-default:"Plant-Net"`
	MaxPoolSize  uint64 `yaml:"max_pool_size" env:"MONGO_MAX_POOL_SIZE" env-default:"100"`
	Transactions bool   `yaml:"transactions" env:"MONGO_TRANSACTIONS" env-default:"false"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL"`
}

type SMTPConfig struct {
	Host        string `yaml:"host" env:"SMTP_HOST"`
	Port        int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	Username    string `yaml:"username" env:"NODEMAILER_USER"`
	Password    string `yaml:"password" env:"NODEMAILER_PASS"`
	SenderEmail string `yaml:"sender_email" env:"SMTP_SENDER_EMAIL"`
	Encryption  string `yaml:"encryption" env:"SMTP_ENCRYPTION" env-default:"starttls"`
	ServerName  string `yaml:"server_name" env:"SMTP_SERVER_NAME"`
}

// StorageConfig points at an S3 compatible bucket for plant images.
type StorageConfig struct {
	Endpoint  string `yaml:"endpoint" env:"MINIO_ENDPOINT"`
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	Bucket    string `yaml:"bucket" env:"MINIO_BUCKET" env-default:"plant-images"`
	UseSSL    bool   `yaml:"use_ssl" env:"MINIO_USE_SSL" env-default:"false"`
}

type NotificationConfig struct {
	Workers         int           `yaml:"workers" env:"NOTIFY_WORKERS" env-default:"4"`
	QueueSize       int           `yaml:"queue_size" env:"NOTIFY_QUEUE_SIZE" env-default:"256"`
	MaxAttempts     int           `yaml:"max_attempts" env:"NOTIFY_MAX_ATTEMPTS" env-default:"5"`
	InitialInterval time.Duration `yaml:"initial_interval" env:"NOTIFY_INITIAL_INTERVAL" env-default:"500ms"`
	MaxInterval     time.Duration `yaml:"max_interval" env:"NOTIFY_MAX_INTERVAL" env-default:"30s"`
	SendTimeout     time.Duration `yaml:"send_timeout" env:"NOTIFY_SEND_TIMEOUT" env-default:"15s"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME" env-default:"plant-service"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			log.Printf("Warning: config file not found at %s, reading environment only", path)
			cfg = Config{}
			if errEnv := cleanenv.ReadEnv(&cfg); errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH_PLANT_SERVICE")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
