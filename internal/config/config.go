package config

import "github.com/caarlos0/env/v11"

type Config struct {
	Port      int    `env:"PORT" envDefault:"5001"`
	DBDSN     string `env:"DB_DSN"`
	JWTSecret string `env:"JWT_SECRET"`

	CloudinaryCloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"CLOUDINARY_API_SECRET"`

	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	WSInsecureSkipVerify bool `env:"WS_INSECURE_SKIP_VERIFY"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
