package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	StunServer string `mapstructure:"stun_server"`

	ModelPath string `mapstructure:"model_path"`
	ModelType string `mapstructure:"model_type"`
	GPUID     int    `mapstructure:"gpu_id"`

	MaxSessions         int           `mapstructure:"max_sessions"`
	IdleTimeout         time.Duration `mapstructure:"idle_timeout"`
	HealthCheckInterval time.Duration `mapstructure:"health_check_interval"`
	PollInterval        time.Duration `mapstructure:"poll_interval"`

	OrchestratorURL string `mapstructure:"orchestrator_url"`
	NodeID          string `mapstructure:"node_id"`

	// Fallback frame size when the swap stage yields an empty result.
	FallbackWidth  int `mapstructure:"fallback_width"`
	FallbackHeight int `mapstructure:"fallback_height"`

	// Working size for the pipeline; zero processes frames at their
	// native resolution.
	TargetWidth  int `mapstructure:"target_width"`
	TargetHeight int `mapstructure:"target_height"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("stun_server", "stun:stun.l.google.com:19302")
	v.SetDefault("model_path", "/app/models")
	v.SetDefault("model_type", "insightface")
	v.SetDefault("gpu_id", 0)
	v.SetDefault("max_sessions", 1)
	v.SetDefault("idle_timeout", "5m")
	v.SetDefault("health_check_interval", "30s")
	v.SetDefault("poll_interval", "1s")
	v.SetDefault("orchestrator_url", "")
	v.SetDefault("node_id", "")
	v.SetDefault("fallback_width", 640)
	v.SetDefault("fallback_height", 480)
	v.SetDefault("target_width", 0)
	v.SetDefault("target_height", 0)

	// Deploy overrides: MORPH_MAX_SESSIONS, MORPH_ORCHESTRATOR_URL, ...
	v.SetEnvPrefix("morph")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
