package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Payment PaymentConfig
	SMS     SMSConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// PaymentConfig holds the payment provider credentials. Booking payment
// signatures are verified against KeySecret; an empty secret disables
// verification (cash / pay-at-clinic deployments).
type PaymentConfig struct {
	KeyID     string
	KeySecret string
}

// SMSConfig configures the outbound SMS provider. An empty APIURL disables
// booking notifications.
type SMSConfig struct {
	APIURL string
	APIKey string
	Sender string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Payment: PaymentConfig{
			KeyID:     viper.GetString("PAYMENT_KEY_ID"),
			KeySecret: viper.GetString("PAYMENT_KEY_SECRET"),
		},
		SMS: SMSConfig{
			APIURL: viper.GetString("SMS_API_URL"),
			APIKey: viper.GetString("SMS_API_KEY"),
			Sender: viper.GetString("SMS_SENDER"),
		},
	}

	return config, nil
}
