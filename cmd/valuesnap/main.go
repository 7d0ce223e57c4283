package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"valuesnap/internal/config"
	"valuesnap/internal/persona"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:          "valuesnap",
	Short:        "ValueSnap landing page tooling",
	Long:         "Generates AI persona portraits, splices them into the landing page, and serves the page locally.",
	SilenceUsage: true,
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg = config.New()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadPersonas() ([]persona.Persona, error) {
	if cfg.PersonaFile != "" {
		return persona.Load(cfg.PersonaFile)
	}
	return persona.Defaults(), nil
}
