package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Experiment ExperimentConfig `yaml:"experiment"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Charset  string `yaml:"charset"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	// 请求超时（秒），为0时取默认30
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type ExperimentConfig struct {
	// 正式轮与练习轮的轮数上限，会话开始时固定
	TotalRounds         int `yaml:"total_rounds"`
	TotalPracticeRounds int `yaml:"total_practice_rounds"`
	// 每轮写作与练习间歇的倒计时（秒），为0时不起服务端定时器
	RoundSeconds int `yaml:"round_seconds"`
	PauseSeconds int `yaml:"pause_seconds"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 实验参数缺省值
	if config.Experiment.TotalRounds <= 0 {
		config.Experiment.TotalRounds = 8
	}
	if config.Experiment.TotalPracticeRounds <= 0 {
		config.Experiment.TotalPracticeRounds = 4
	}

	return &config, nil
}
