package config

import (
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	viper "github.com/spf13/viper"
)

var config_singleton *ConfigSingleTon
var muonce sync.Once

type ConfigSingleTon struct {
	Config *Config
	mu     sync.RWMutex
}

type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	DbName         string `mapstructure:"POSTGRES_DB"`
	DbHost         string `mapstructure:"POSTGRES_HOST"`
	DbPort         string `mapstructure:"POSTGRES_PORT"`
	DbUser         string `mapstructure:"POSTGRES_USER"`
	DbPas          string `mapstructure:"POSTGRES_PASSWORD"`
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	KafkaBrokers   string `mapstructure:"KAFKA_BROKERS"`
	OrderTopic     string `mapstructure:"ORDER_EVENT_TOPIC"`
	GatewayBaseURL string `mapstructure:"PAYMENT_GATEWAY_URL"`
	GatewayAPIKey  string `mapstructure:"PAYMENT_GATEWAY_API_KEY"`
	GatewayTimeout int    `mapstructure:"PAYMENT_GATEWAY_TIMEOUT_SEC"`
	SmtpHost       string `mapstructure:"SMTP_HOST"`
	SmtpPort       string `mapstructure:"SMTP_PORT"`
	SmtpAuthKey    string `mapstructure:"SMTP_AUTH_KEY"`
	EmailAccount   string `mapstructure:"EMAIL_ACCOUNT"`
	PermissionPath string `mapstructure:"PERMISSION_CONFIG_PATH"`
}

func GetConfig() *Config {
	initConfig()
	config_singleton.mu.RLock()
	defer config_singleton.mu.RUnlock()
	return config_singleton.Config
}

func initConfig() {
	if config_singleton == nil {
		muonce.Do(func() {
			config_singleton = &ConfigSingleTon{}
			if cf, err := loadConfig(); err == nil {
				config_singleton.Config = cf
			} else {
				log.Fatal("error read config")
			}
			viper.WatchConfig()
			viper.OnConfigChange(func(e fsnotify.Event) {
				if cf, err := loadConfig(); err == nil {
					config_singleton.mu.Lock()
					config_singleton.Config = cf
					config_singleton.mu.Unlock()
				} else {
					log.Panic("failed to reload config file")
				}
			})
		})
	}
}

/*
單純回傳錯誤  由外部決定要不要Fatal, 畢竟有可能有替代方案
*/
func loadConfig() (cf *Config, err error) {
	cf = &Config{}
	path := os.Getenv("BOOKSTORE_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(cf)
	if err != nil {
		return
	}
	return
}
