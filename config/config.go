package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug                    bool   `envconfig:"debug"`
	Port                     int    `envconfig:"port"`
	PostgresHost             string `envconfig:"postgres_host"`
	PostgresUser             string `envconfig:"postgres_user"`
	PostgresDB               string `envconfig:"postgres_db"`
	MailgunApiKey            string `envconfig:"mg_api_key"`
	MgEmailFrom              string `envconfig:"email_from"`
	BaseUrl                  string `envconfig:"base_url"`
	Env                      string `envconfig:"env"`
	PostgresPort             int    `envconfig:"postgres_port"`
	PostgresPassword         string `envconfig:"postgres_password"`
	JWTSecret                string `envconfig:"jwt_secret"`
	MgDomain                 string `envconfig:"mg_domain"`
	Host                     string `envconfig:"host"`
	GoogleClientID           string `envconfig:"google_client_id"`
	GoogleClientSecret       string `envconfig:"google_client_secret"`
	GoogleRedirectURL        string `envconfig:"google_redirect_url"`
	AwsRegion                string `envconfig:"aws_region"`
	AwsBucketName            string `envconfig:"aws_bucket_name"`
	PaymentProviderBaseURL   string `envconfig:"payment_provider_base_url"`
	PaymentProviderSecret    string `envconfig:"payment_provider_secret"`
	AiApiBaseURL             string `envconfig:"ai_api_base_url"`
	AiApiKey                 string `envconfig:"ai_api_key"`
	AccessControlAllowOrigin string `envconfig:"access_control_allow_origin"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("mindboost", c)
	if err != nil {
		return nil, err
	}
	return c, nil
}
