package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Data struct {
		CorpusCSV  string `yaml:"corpus_csv"`
		DetailsCSV string `yaml:"details_csv"`
		ModelDir   string `yaml:"model_dir"`
	} `yaml:"data"`
	Training struct {
		LearningRate float64 `yaml:"learning_rate"`
		Epochs       int     `yaml:"epochs"`
		BatchSize    int     `yaml:"batch_size"`
		MaxFeatures  int     `yaml:"max_features"`
		Seed         int64   `yaml:"seed"`
	} `yaml:"training"`
}

// Load reads configuration from the specified YAML file and fills in
// defaults for anything left unset.
func Load(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Data.CorpusCSV == "" {
		c.Data.CorpusCSV = "data/reviews.csv"
	}
	if c.Data.DetailsCSV == "" {
		c.Data.DetailsCSV = "data/restaurants.csv"
	}
	if c.Data.ModelDir == "" {
		c.Data.ModelDir = "data/model"
	}
	if c.Training.LearningRate == 0 {
		c.Training.LearningRate = 0.001
	}
	if c.Training.Epochs == 0 {
		c.Training.Epochs = 5000
	}
	if c.Training.BatchSize == 0 {
		c.Training.BatchSize = 64
	}
	if c.Training.MaxFeatures == 0 {
		c.Training.MaxFeatures = 5000
	}
}
