package config

import (
	"context"
	"sync"

	"jengamart/internal/common/enum"
	database "jengamart/internal/pkg/db"
	mpesaPkg "jengamart/internal/pkg/mpesa"
	ordersPkg "jengamart/internal/pkg/orders"
	"jengamart/internal/pkg/rabbitmq"
	"jengamart/internal/pkg/redis"
	s3aws "jengamart/internal/pkg/storage/s3"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv  enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort int          `env:"APP_PORT" envDefault:"8080"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"10"`

	RabbitHost string `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort int    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser string `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass string `env:"RABBIT_PASS" envDefault:"guest"`

	DBDriver  string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost    string `env:"DB_HOST" envDefault:"localhost"`
	DBPort    int    `env:"DB_PORT" envDefault:"5432"`
	DBUser    string `env:"DB_USER" envDefault:"postgres"`
	DBPass    string `env:"DB_PASS" envDefault:""`
	DBName    string `env:"DB_NAME" envDefault:"jengamart"`
	DBSSLMode string `env:"DB_SSLMODE" envDefault:"disable"`

	OrderServiceURL     string `env:"ORDER_SERVICE_URL" envDefault:"http://localhost:8000"`
	OrderServiceTimeout int    `env:"ORDER_SERVICE_TIMEOUT" envDefault:"30"`

	MpesaServiceURL     string `env:"MPESA_SERVICE_URL" envDefault:"http://localhost:8000"`
	MpesaBusinessNumber string `env:"MPESA_BUSINESS_NUMBER" envDefault:"542542"`

	ShippingFee      int    `env:"SHIPPING_FEE" envDefault:"500"`
	PaymentWindowSec int    `env:"PAYMENT_WINDOW_SECONDS" envDefault:"300"`
	PollIntervalSec  int    `env:"PUSH_POLL_INTERVAL_SECONDS" envDefault:"5"`
	EventsQueue      string `env:"CHECKOUT_EVENTS_QUEUE" envDefault:"checkout_events"`

	// S3 receipt archive; disabled when the bucket name is empty.
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" envDefault:""`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Db     *database.Database
	Rds    redis.IRedis
	Rb     *rabbitmq.ConnectionManager
	S3     s3aws.Is3
	Orders ordersPkg.IOrders
	Mpesa  mpesaPkg.IMpesa
}
