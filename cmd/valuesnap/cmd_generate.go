package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"valuesnap/internal/imagegen"
	"valuesnap/internal/producer"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one portrait per persona with the configured image provider",
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	personas, err := loadPersonas()
	if err != nil {
		return err
	}

	factory := imagegen.NewFactory(cfg)
	client, err := factory.CreateClient(cfg.ImageProvider, cfg.ImageModel)
	if err != nil {
		return err
	}

	fmt.Printf("Generating images for %d personas...\n", len(personas))
	for _, p := range personas {
		fmt.Printf("  - %s (%s): %s\n", p.Name, p.AgeRange, p.Description)
	}

	prod := producer.New(client, personas, cfg.ImagesDir)
	prod.Size = cfg.ImageSize
	prod.MinDim = cfg.MinImageDim
	prod.Timeout = cfg.RequestTimeout
	prod.Delay = cfg.RequestDelay

	rep, err := prod.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("\nGeneration summary:\n")
	fmt.Printf("  successful: %d\n", rep.Successful)
	fmt.Printf("  failed:     %d\n", rep.Failed)
	fmt.Printf("  report:     %s\n", rep.Path)
	for _, f := range rep.Failures {
		fmt.Printf("  failure %s: %s\n", f.PersonaKey, f.Error)
	}

	if rep.Successful == 0 {
		return fmt.Errorf("no images were generated")
	}
	return nil
}
