package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string     `yaml:"log-level" env-default:"info"`
	BoardSize         int        `yaml:"board-size" env-default:"3"`
	Bot               string     `yaml:"bot" env-default:"minimax"`
	Redis             Redis      `yaml:"redis"`
	SQLiteStoragePath string     `yaml:"sqlite-storage-path"`
	Training          Training   `yaml:"training"`
	Tournament        Tournament `yaml:"tournament"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type Training struct {
	NumGames   int    `yaml:"num-games" env-default:"1000"`
	OutputFile string `yaml:"output-file" env-default:"training_data.txt"`
}

type Tournament struct {
	GamesPerMatchup int `yaml:"games-per-matchup" env-default:"100"`
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
