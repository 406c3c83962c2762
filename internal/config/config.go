package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env-default:""`
		BotName string `yaml:"bot_name" env-default:"TenantPilotBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	OpenAI struct {
		ApiKey string `yaml:"api_key" env-default:""`
		Model  string `yaml:"model" env-default:"gpt-4o-mini"`
	} `yaml:"openai"`
	Platform struct {
		BaseURL         string `yaml:"base_url" env-default:""`
		ChatURL         string `yaml:"chat_url" env-default:""`
		DefaultTenantID string `yaml:"default_tenant_id" env-default:"default"`
		TimeoutSeconds  int    `yaml:"timeout_seconds" env-default:"30"`
	} `yaml:"platform"`
	Auth struct {
		TokenURL     string `yaml:"token_url" env-default:""`
		ClientID     string `yaml:"client_id" env-default:""`
		ClientSecret string `yaml:"client_secret" env-default:""`
		StaticToken  string `yaml:"static_token" env-default:""`
		RetryDelayMS int    `yaml:"retry_delay_ms" env-default:"500"`
	} `yaml:"auth"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9200"`
		ApiKey string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
