// Package config loads clarity settings from defaults, an optional
// clarity.yaml, CLARITY_* environment variables and command-line flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/clarity/internal/llm"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix   = "CLARITY"
	fileName    = "clarity"
	dataDirName = ".clarity"
)

type Config struct {
	DataDir     string
	DBPath      string
	ProgressDir string
	LogLevel    slog.Level
	LogFile     string
	LLM         llm.LLMConfig
	Server      ServerConfig
	// ConfigFile is the file that was read, or "" when none was found.
	ConfigFile string
}

type ServerConfig struct {
	Addr         string
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Options locates the config. Zero values mean the user's home directory
// and the default search path.
type Options struct {
	Home  string
	Flags *pflag.FlagSet
}

// flag name -> config key
var flagKeys = map[string]string{
	"db":     "db.path",
	"addr":   "server.addr",
	"config": "config",
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	home := opts.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		home = h
	}
	dataDir := filepath.Join(home, dataDirName)

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, dataDir)
	if err := v.BindEnv("llm.api_key", envPrefix+"_LLM_API_KEY", "ANTHROPIC_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding api key env: %w", err)
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dataDir)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	level, err := parseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:     dataDir,
		DBPath:      expandHome(v.GetString("db.path"), home),
		ProgressDir: expandHome(v.GetString("progress.dir"), home),
		LogLevel:    level,
		LogFile:     expandHome(v.GetString("log.file"), home),
		LLM:         llmConfig(v),
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			CORSOrigins:  v.GetStringSlice("server.cors_origins"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		ConfigFile: v.ConfigFileUsed(),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("db.path", filepath.Join(dataDir, "clarity.db"))
	v.SetDefault("progress.dir", filepath.Join(dataDir, "progress"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(dataDir, "clarity.log"))

	d := llm.DefaultConfig()
	v.SetDefault("llm.enabled", d.Enabled)
	v.SetDefault("llm.log_calls", d.LogCalls)
	v.SetDefault("llm.provider", d.Provider)
	v.SetDefault("llm.timeout_ms", d.TimeoutMs)
	v.SetDefault("llm.max_retries", d.MaxRetries)

	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 120*time.Second)
}

// llmConfig overlays viper values on llm.DefaultConfig. Endpoint and model
// follow the provider unless set explicitly.
func llmConfig(v *viper.Viper) llm.LLMConfig {
	cfg := llm.DefaultConfig()
	cfg.Enabled = v.GetBool("llm.enabled")
	cfg.LogCalls = v.GetBool("llm.log_calls")
	cfg.Provider = v.GetString("llm.provider")
	cfg.Endpoint = llm.DefaultEndpoint(cfg.Provider)
	cfg.Model = llm.DefaultModel(cfg.Provider)
	if s := v.GetString("llm.endpoint"); s != "" {
		cfg.Endpoint = s
	}
	if s := v.GetString("llm.model"); s != "" {
		cfg.Model = s
	}
	cfg.APIKey = v.GetString("llm.api_key")
	if n := v.GetInt("llm.timeout_ms"); n > 0 {
		cfg.TimeoutMs = n
	}
	if n := v.GetInt("llm.max_retries"); n >= 0 {
		cfg.MaxRetries = n
	}
	if v.IsSet("llm.temperature") {
		cfg.SetTemperature(v.GetFloat64("llm.temperature"))
	}

	taskKeys := map[llm.TaskType]string{
		llm.TaskClusterPreview: "llm.cluster_preview_timeout_ms",
		llm.TaskClusterFinal:   "llm.cluster_final_timeout_ms",
		llm.TaskCareerAnalysis: "llm.career_analysis_timeout_ms",
	}
	for task, key := range taskKeys {
		if n := v.GetInt(key); n > 0 {
			tc := cfg.Tasks[task]
			tc.TimeoutMs = n
			cfg.Tasks[task] = tc
		}
	}
	return cfg
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
