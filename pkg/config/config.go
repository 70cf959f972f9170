package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type SecuritySeed struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	Sector     string  `yaml:"sector"`
	Price      float64 `yaml:"price"`
	Volatility float64 `yaml:"volatility"`
	Trend      float64 `yaml:"trend"`
	Stability  float64 `yaml:"stability"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Simulation struct {
		Seed        int64          `yaml:"seed"`
		DayInterval time.Duration  `yaml:"day_interval"`
		NoiseMult   float64        `yaml:"noise_multiplier"`
		Securities  []SecuritySeed `yaml:"securities"`
	} `yaml:"simulation"`
	Archive struct {
		Enabled bool `yaml:"enabled"`
		Kafka   struct {
			Brokers      []string `yaml:"brokers"`
			NewsTopic    string   `yaml:"news_topic"`
			LogsTopic    string   `yaml:"logs_topic"`
			RequiredAcks int      `yaml:"required_acks"`
			Compression  string   `yaml:"compression"`
			Producer     struct {
				MaxAttempts  int           `yaml:"max_attempts"`
				Linger       time.Duration `yaml:"linger"`
				BatchBytes   int           `yaml:"batch_bytes"`
				BatchSize    int           `yaml:"batch_size"`
				WriteTimeout time.Duration `yaml:"write_timeout"`
				ReadTimeout  time.Duration `yaml:"read_timeout"`
				Async        bool          `yaml:"async"`
			} `yaml:"producer"`
			Consumer struct {
				Enabled    bool          `yaml:"enabled"`
				GroupID    string        `yaml:"group_id"`
				Workers    int           `yaml:"workers"`
				BufferSize int           `yaml:"buffer_size"`
				RetryMax   int           `yaml:"retry_max"`
				BackoffMin time.Duration `yaml:"backoff_min"`
				BackoffMax time.Duration `yaml:"backoff_max"`
				DLQTopic   string        `yaml:"dlq_topic"`
				MinBytes   int           `yaml:"min_bytes"`
				MaxBytes   int           `yaml:"max_bytes"`
			} `yaml:"consumer"`
		} `yaml:"kafka"`
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			PriceTable       string        `yaml:"price_table"`
			NewsTable        string        `yaml:"news_table"`
			UseHTTP          bool          `yaml:"use_http"`
			AsyncInsert      bool          `yaml:"async_insert"`
			WaitForAsync     bool          `yaml:"wait_for_async_insert"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			WriteTimeout     time.Duration `yaml:"write_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"archive"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Archive.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("NEWS_TOPIC"); v != "" {
		c.Archive.Kafka.NewsTopic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Simulation.Securities) == 0 {
		return fmt.Errorf("simulation.securities cannot be empty")
	}
	seen := make(map[string]bool, len(c.Simulation.Securities))
	for i, s := range c.Simulation.Securities {
		if s.Symbol == "" {
			return fmt.Errorf("simulation.securities[%d].symbol is required", i)
		}
		if seen[s.Symbol] {
			return fmt.Errorf("duplicate security symbol '%s'", s.Symbol)
		}
		seen[s.Symbol] = true
		if s.Price <= 0 {
			return fmt.Errorf("simulation.securities[%d].price must be positive", i)
		}
	}
	if c.Archive.Enabled {
		if len(c.Archive.Kafka.Brokers) == 0 {
			return fmt.Errorf("archive.kafka.brokers cannot be empty when archive is enabled")
		}
		if c.Archive.Kafka.NewsTopic == "" {
			return fmt.Errorf("archive.kafka.news_topic is required when archive is enabled")
		}
		if c.Archive.ClickHouse.Host == "" {
			return fmt.Errorf("archive.clickhouse.host is required when archive is enabled")
		}
	}
	return nil
}
