package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Mongo  MongoConfig  `mapstructure:"mongo"  validate:"required"`
	Redis  RedisConfig  `mapstructure:"redis"  validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"   validate:"required"`
}

// ServerConfig contains the HTTP endpoint and logging settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// MongoConfig contains the durable store connection settings.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"             validate:"required,url"`
	Database       string        `mapstructure:"database"        validate:"required"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"required,gt=0"`
}

// RedisConfig contains the urgency cache connection settings.
type RedisConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig holds password hashing settings for stored users.
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}
