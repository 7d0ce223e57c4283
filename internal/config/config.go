package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	// Image generation
	ImageProvider string `env:"IMAGE_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	ImageModel    string `env:"IMAGE_MODEL" envDefault:"dall-e-2"`
	ImageSize     string `env:"IMAGE_SIZE" envDefault:"512x512"`
	MinImageDim   int    `env:"MIN_IMAGE_DIM" envDefault:"256"`

	// Producer
	ImagesDir      string        `env:"IMAGES_DIR" envDefault:"web/generated_images"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	RequestDelay   time.Duration `env:"REQUEST_DELAY" envDefault:"2s"`

	// Landing page
	PagePath    string `env:"PAGE_PATH" envDefault:"web/index.html"`
	WebRoot     string `env:"WEB_ROOT" envDefault:"web"`
	PersonaFile string `env:"PERSONA_FILE"`

	// Local server
	ListenAddr       string `env:"LISTEN_ADDR" envDefault:":5000"`
	WaitlistFilePath string `env:"WAITLIST_FILE_PATH" envDefault:"data/waitlist.txt"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
