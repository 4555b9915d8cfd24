package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// Pool sizing. The order-submit transaction holds row locks on menu
	// items, so the open-connection cap doubles as a concurrency bound.
	DBMaxOpenConns        int `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns        int `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetimeMins int `env:"DB_CONN_MAX_LIFETIME_MINUTES" envDefault:"5"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	FirebaseProjectID string `env:"FIREBASE_PROJECT_ID"`
	StorageBucket     string `env:"STORAGE_BUCKET"`
	CredentialsFile   string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// DeliveryFee is added on top of the line-item subtotal of every order.
	DeliveryFee int64 `env:"DELIVERY_FEE" envDefault:"30"`

	// DraftTTLHours bounds how long an unsent chat draft survives in Redis.
	DraftTTLHours int `env:"DRAFT_TTL_HOURS" envDefault:"168"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
