/*
Config package
*/
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is a viper instance scoped to one consumer.
type Config struct {
	viper *viper.Viper
}

// New - read .env and ENV variables
func New(log Logger, opts ...Option) (*Config, error) {
	options := options{
		name: ".env",
		path: ".",
	}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	v.SetConfigName(options.name)
	v.SetConfigType("dotenv")
	v.AddConfigPath(options.path) // look for config in the working directory
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var typeErr viper.ConfigFileNotFoundError
		if !errors.As(err, &typeErr) {
			return nil, err
		}

		if log != nil {
			log.Warn("The .env file has not been found in the current directory")
		}
	}

	return &Config{viper: v}, nil
}

// Empty returns a Config backed only by defaults and explicit Set calls.
func Empty() *Config {
	return &Config{viper: viper.New()}
}

func (c *Config) Set(key string, value any)        { c.viper.Set(key, value) }
func (c *Config) SetDefault(key string, value any) { c.viper.SetDefault(key, value) }

func (c *Config) GetString(key string) string          { return c.viper.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.viper.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.viper.GetBool(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.viper.GetDuration(key) }
