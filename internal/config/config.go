package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort    string      `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort  string      `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis       Redis       `yaml:"redis"`
	Session     Session     `yaml:"session"`
	Minesweeper Minesweeper `yaml:"minesweeper"`
	Tictactoe   Tictactoe   `yaml:"tictactoe"`
}

type Redis struct {
	Host      string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	ResultTTL time.Duration `yaml:"result-ttl" env:"REDIS_RESULT_TTL" env-default:"720h"`
}

// Session controls eviction of idle games. A zero TTL keeps sessions until they finish.
type Session struct {
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

type Minesweeper struct {
	DefaultMines int `yaml:"default-mines" env-default:"5"`
	MinMines     int `yaml:"min-mines" env-default:"1"`
	MaxMines     int `yaml:"max-mines" env-default:"23"`
}

type Tictactoe struct {
	DefaultSize int `yaml:"default-size" env-default:"3"`
	MinSize     int `yaml:"min-size" env-default:"2"`
	MaxSize     int `yaml:"max-size" env-default:"5"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
