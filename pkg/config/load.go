package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/boxarrow/pkg/errors"
)

// FileName is the base name of the user configuration file.
const FileName = "config.toml"

// DefaultPath returns the user configuration file location,
// $XDG_CONFIG_HOME/boxarrow/config.toml or its platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "boxarrow", FileName), nil
}

// Load returns the defaults overlaid with the file at path and the
// environment, validated. The extension picks the codec: .toml, .yaml or
// .yml. An empty path loads the user configuration file if one exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		err := cfg.mergeFile(path)
		switch {
		case err == nil:
		case os.IsNotExist(err) && !explicit:
		case os.IsNotExist(err):
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		default:
			return nil, err
		}
	}

	cfg.mergeEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "config file %s: unsupported extension %q", path, ext)
	}
	return nil
}

// mergeEnv applies BOXARROW_* overrides. Malformed numbers are ignored.
func (c *Config) mergeEnv(getenv func(string) string) {
	if v := getenv("BOXARROW_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv("BOXARROW_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
	if v := getenv("BOXARROW_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv("BOXARROW_MONGO_URI"); v != "" {
		c.Cache.MongoURI = v
	}
	if v := getenv("BOXARROW_MAX_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Optimizer.MaxRounds = n
		}
	}
	if v := getenv("BOXARROW_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// EncodeTOML writes c as TOML.
func (c *Config) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes c as YAML.
func (c *Config) EncodeYAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
