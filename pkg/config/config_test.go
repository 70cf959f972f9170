package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
environment: test
server:
  port: 8080
simulation:
  seed: 42
  securities:
    - symbol: APEX
      name: Apex Dynamics
      price: 150
      volatility: 0.02
    - symbol: BLT
      name: Bolt Freight
      price: 62
      volatility: 0.03
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	c, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Environment != "test" {
		t.Fatalf("environment: %q", c.Environment)
	}
	if c.Simulation.Seed != 42 {
		t.Fatalf("seed: %d", c.Simulation.Seed)
	}
	if len(c.Simulation.Securities) != 2 || c.Simulation.Securities[0].Symbol != "APEX" {
		t.Fatalf("securities: %+v", c.Simulation.Securities)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file must error")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: [unterminated")); err == nil {
		t.Fatal("malformed yaml must error")
	}
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			"missing environment",
			"simulation:\n  securities:\n    - symbol: A\n      price: 10\n",
			"environment",
		},
		{
			"no securities",
			"environment: test\n",
			"securities",
		},
		{
			"empty symbol",
			"environment: test\nsimulation:\n  securities:\n    - price: 10\n",
			"symbol",
		},
		{
			"duplicate symbol",
			"environment: test\nsimulation:\n  securities:\n    - symbol: A\n      price: 10\n    - symbol: A\n      price: 20\n",
			"duplicate",
		},
		{
			"nonpositive price",
			"environment: test\nsimulation:\n  securities:\n    - symbol: A\n      price: 0\n",
			"price",
		},
		{
			"archive without brokers",
			validYAML + "archive:\n  enabled: true\n",
			"brokers",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("NEWS_TOPIC", "market.news.v2")
	t.Setenv("REDIS_ADDR", "redis:6379")

	c, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.Archive.Kafka.Brokers) != 2 || c.Archive.Kafka.Brokers[1] != "k2:9092" {
		t.Fatalf("brokers: %+v", c.Archive.Kafka.Brokers)
	}
	if c.Archive.Kafka.NewsTopic != "market.news.v2" {
		t.Fatalf("topic: %q", c.Archive.Kafka.NewsTopic)
	}
	if c.Cache.Redis.Addr != "redis:6379" {
		t.Fatalf("redis addr: %q", c.Cache.Redis.Addr)
	}
}
