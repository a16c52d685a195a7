// Package config collects the settings shared by every command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ghosecorp/fdbreader/internal/storage"
	"github.com/ghosecorp/fdbreader/internal/util"
)

const (
	EnvPrefix      = "FDBREADER_"
	DefaultEnvFile = ".env"
)

type Config struct {
	LogLevel  string `validate:"oneof=debug info warn error"`
	LogFormat string `validate:"oneof=console json"`
	Charset   string `validate:"charset"`
	Workers   int    `validate:"min=1,max=256"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: util.LogFormatConsole,
		Charset:   string(storage.CharsetUTF8),
		Workers:   4,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("charset", func(fl validator.FieldLevel) bool {
			_, err := storage.ParseCharset(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Load reads envFile when it exists, then applies FDBREADER_* variables on
// top of the defaults. A missing default .env is not an error; a missing
// explicitly named file is.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) || envFile != DefaultEnvFile {
			return nil, util.NewError(util.ErrIO, fmt.Sprintf("failed to load %s", envFile), err)
		}
	}

	cfg := Default()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		c.LogFormat = v
	}
	if v, ok := lookup(EnvPrefix + "CHARSET"); ok {
		c.Charset = v
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return util.NewError(util.ErrInvalidArgument, fmt.Sprintf("%sWORKERS: %q is not a number", EnvPrefix, v), err)
		}
		c.Workers = n
	}
	return nil
}

// Validate normalizes case and checks every field.
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	c.LogFormat = strings.ToLower(c.LogFormat)
	c.Charset = strings.ToUpper(c.Charset)

	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return util.NewError(util.ErrInvalidArgument, "invalid configuration", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: %q fails %s", fe.Field(), fmt.Sprint(fe.Value()), fe.Tag()))
	}
	return util.NewError(util.ErrInvalidArgument, "invalid configuration: "+strings.Join(msgs, "; "), err)
}

// CharsetValue returns the configured charset; call after Validate.
func (c *Config) CharsetValue() storage.Charset {
	cs, err := storage.ParseCharset(c.Charset)
	if err != nil {
		return storage.CharsetUTF8
	}
	return cs
}
