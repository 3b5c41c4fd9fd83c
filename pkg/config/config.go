package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DB            *Postgres      `yaml:"database"`
	Redis         *Redis         `yaml:"redis"`
	RMQ           *RabbitMQ      `yaml:"rabbitmq"`
	Cart          *Cart          `yaml:"cart"`
	Orders        *Orders        `yaml:"orders"`
	Notifications *Notifications `yaml:"notifications"`
	Bridge        *Bridge        `yaml:"bridge"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
}

type Cart struct {
	// Storage selects the store backend: memory, postgres or redis.
	// Postgres carries orders too; redis pairs with in-memory orders.
	Storage              string `yaml:"storage"`
	TTLMinutes           int    `yaml:"ttl_minutes"`
	SweepIntervalSeconds int    `yaml:"sweep_interval_seconds"`
}

type Orders struct {
	// DiscountPolicy selects the pricing rule: single or tiered.
	DiscountPolicy string `yaml:"discount_policy"`
}

type Notifications struct {
	// Sink selects exactly one delivery path per deployment:
	// queue (in-process dispatcher), bridge (push socket) or amqp.
	Sink                    string `yaml:"sink"`
	DispatchIntervalSeconds int    `yaml:"dispatch_interval_seconds"`
	DispatchBatchSize       int    `yaml:"dispatch_batch_size"`
}

type Bridge struct {
	Endpoint string `yaml:"endpoint"`
}

func (c *Cart) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

func (c *Cart) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

func (n *Notifications) DispatchInterval() time.Duration {
	return time.Duration(n.DispatchIntervalSeconds) * time.Second
}

// Default returns the configuration used when no file overrides it.
// Connection settings fall back to environment variables.
func Default() *Config {
	return &Config{
		DB: &Postgres{
			Host:     getEnv("GOODFOOD_DB_HOST", "localhost"),
			Port:     getEnv("GOODFOOD_DB_PORT", "5432"),
			User:     getEnv("GOODFOOD_DB_USER", "goodfood"),
			Password: getEnv("GOODFOOD_DB_PASSWORD", "goodfood"),
			Database: getEnv("GOODFOOD_DB_NAME", "goodfood"),
		},
		Redis: &Redis{
			Addr: getEnv("GOODFOOD_REDIS_ADDR", "localhost:6379"),
		},
		RMQ: &RabbitMQ{
			User:     getEnv("GOODFOOD_RMQ_USER", "guest"),
			Password: getEnv("GOODFOOD_RMQ_PASSWORD", "guest"),
			Host:     getEnv("GOODFOOD_RMQ_HOST", "localhost"),
			Port:     getEnv("GOODFOOD_RMQ_PORT", "5672"),
		},
		Cart: &Cart{
			Storage:              "memory",
			TTLMinutes:           60,
			SweepIntervalSeconds: 10,
		},
		Orders: &Orders{
			DiscountPolicy: "single",
		},
		Notifications: &Notifications{
			Sink:                    "queue",
			DispatchIntervalSeconds: 3,
			DispatchBatchSize:       10,
		},
		Bridge: &Bridge{
			Endpoint: "tcp://127.0.0.1:5556",
		},
	}
}

// Load reads the config file at path on top of Default. A missing file is
// not an error; the defaults apply unchanged.
func Load(path string) (*Config, error) {
	cnf := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cnf, nil
		}
		return nil, err
	}

	if err := simpleYAMLUnmarshal(data, cnf); err != nil {
		return nil, err
	}
	return cnf, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// simpleYAMLUnmarshal parses a flat two-level YAML structure into the config
// object. Only the sections and keys known to the config are recognized.
func simpleYAMLUnmarshal(data []byte, config *Config) error {
	lines := strings.Split(string(data), "\n")
	currentSection := ""

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		// Section headers are unindented keys with no value.
		if strings.HasSuffix(trimmed, ":") && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			currentSection = strings.TrimSuffix(trimmed, ":")
			continue
		}

		if !strings.Contains(trimmed, ":") {
			continue
		}
		parts := strings.SplitN(trimmed, ":", 2)
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		switch currentSection {
		case "database":
			setPostgresField(config.DB, key, value)
		case "redis":
			setRedisField(config.Redis, key, value)
		case "rabbitmq":
			setRabbitMQField(config.RMQ, key, value)
		case "cart":
			setCartField(config.Cart, key, value)
		case "orders":
			setOrdersField(config.Orders, key, value)
		case "notifications":
			setNotificationsField(config.Notifications, key, value)
		case "bridge":
			setBridgeField(config.Bridge, key, value)
		}
	}

	return nil
}

func setPostgresField(pg *Postgres, key, value string) {
	switch key {
	case "host":
		pg.Host = value
	case "port":
		pg.Port = value
	case "user":
		pg.User = value
	case "password":
		pg.Password = value
	case "database":
		pg.Database = value
	}
}

func setRedisField(r *Redis, key, value string) {
	switch key {
	case "addr":
		r.Addr = value
	case "password":
		r.Password = value
	case "db":
		r.DB = atoiOr(value, r.DB)
	}
}

func setRabbitMQField(rmq *RabbitMQ, key, value string) {
	switch key {
	case "host":
		rmq.Host = value
	case "port":
		rmq.Port = value
	case "user":
		rmq.User = value
	case "password":
		rmq.Password = value
	}
}

func setCartField(c *Cart, key, value string) {
	switch key {
	case "storage":
		c.Storage = value
	case "ttl_minutes":
		c.TTLMinutes = atoiOr(value, c.TTLMinutes)
	case "sweep_interval_seconds":
		c.SweepIntervalSeconds = atoiOr(value, c.SweepIntervalSeconds)
	}
}

func setOrdersField(o *Orders, key, value string) {
	switch key {
	case "discount_policy":
		o.DiscountPolicy = value
	}
}

func setNotificationsField(n *Notifications, key, value string) {
	switch key {
	case "sink":
		n.Sink = value
	case "dispatch_interval_seconds":
		n.DispatchIntervalSeconds = atoiOr(value, n.DispatchIntervalSeconds)
	case "dispatch_batch_size":
		n.DispatchBatchSize = atoiOr(value, n.DispatchBatchSize)
	}
}

func setBridgeField(b *Bridge, key, value string) {
	switch key {
	case "endpoint":
		b.Endpoint = value
	}
}

func atoiOr(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
