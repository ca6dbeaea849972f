package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Parser struct {
		Kind     string        `yaml:"kind" validate:"oneof=http conllu json"`
		Endpoint string        `yaml:"endpoint" validate:"omitempty,url"`
		Language string        `yaml:"language" validate:"required,alpha,min=2,max=3"`
		Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
		Workers  int           `yaml:"workers" validate:"min=1,max=256"`
	} `yaml:"parser"`
	Storage struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
		DSN    string `yaml:"dsn" validate:"required"`
	} `yaml:"storage"`
	Log struct {
		Level       string `yaml:"level" validate:"oneof=debug info warn error"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Output struct {
		Path string `yaml:"path" validate:"required"`
	} `yaml:"output"`
	Metrics struct {
		// Empty disables the metrics endpoint.
		Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Parser.Kind = "http"
	cfg.Parser.Endpoint = "http://localhost:8080"
	cfg.Parser.Language = "en"
	cfg.Parser.Timeout = 30 * time.Second
	cfg.Parser.Workers = 4
	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "clausetree.db"
	cfg.Log.Level = "info"
	cfg.Output.Path = "output.json"
	return &cfg
}

var validate = validator.New()

// LoadConfig reads path on top of the defaults, then applies environment
// overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := []struct {
		key    string
		target *string
	}{
		{"CLAUSETREE_PARSER_KIND", &cfg.Parser.Kind},
		{"CLAUSETREE_PARSER_ENDPOINT", &cfg.Parser.Endpoint},
		{"CLAUSETREE_LANGUAGE", &cfg.Parser.Language},
		{"CLAUSETREE_STORAGE_DRIVER", &cfg.Storage.Driver},
		{"CLAUSETREE_STORAGE_DSN", &cfg.Storage.DSN},
		{"CLAUSETREE_LOG_LEVEL", &cfg.Log.Level},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.target = v
		}
	}
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Parser.Kind == "http" && c.Parser.Endpoint == "" {
		return errors.New("invalid config: parser.endpoint is required for the http parser")
	}
	return nil
}
