package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"valuesnap/internal/page"
	"valuesnap/internal/persona"
	"valuesnap/internal/report"
)

var scanOnly bool

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the page edits an apply would make, without writing",
	RunE:  runPreview,
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Back up the page and splice in the newest persona images",
	RunE:  runApply,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the current persona image integration on the page",
	RunE:  runValidate,
}

var addStyleCmd = &cobra.Command{
	Use:   "add-style",
	Short: "Ensure the .persona-image CSS rule exists on the page",
	RunE:  runAddStyle,
}

func init() {
	for _, c := range []*cobra.Command{previewCmd, applyCmd} {
		c.Flags().BoolVar(&scanOnly, "scan", false, "ignore generation reports and scan the images directory")
	}
	rootCmd.AddCommand(previewCmd, applyCmd, validateCmd, addStyleCmd)
}

func newUpdater() (*page.Updater, []persona.Persona, error) {
	personas, err := loadPersonas()
	if err != nil {
		return nil, nil, err
	}
	return page.New(cfg.PagePath, cfg.WebRoot, personas), personas, nil
}

// latestImages resolves the newest image per persona, preferring the most
// recent generation report and falling back to a directory scan.
func latestImages(personas []persona.Persona) (map[string]report.GeneratedImage, error) {
	if !scanOnly {
		rep, err := report.LoadLatest(cfg.ImagesDir)
		switch {
		case err == nil:
			if m := report.LatestFromReport(rep); len(m) > 0 {
				return m, nil
			}
		case !errors.Is(err, os.ErrNotExist):
			log.Printf("ignoring unreadable generation report: %v", err)
		}
	}
	return report.ScanImages(cfg.ImagesDir, persona.Keys(personas))
}

func runPreview(_ *cobra.Command, _ []string) error {
	u, personas, err := newUpdater()
	if err != nil {
		return err
	}
	images, err := latestImages(personas)
	if err != nil {
		return err
	}
	res, err := u.Preview(images)
	if err != nil {
		return describeNoImages(err)
	}
	for _, e := range res.Edits {
		fmt.Printf("would update %s (%s) with %s\n", e.PersonaKey, e.CardName, e.Filename)
	}
	printSummary(res)
	return nil
}

func runApply(_ *cobra.Command, _ []string) error {
	u, personas, err := newUpdater()
	if err != nil {
		return err
	}
	images, err := latestImages(personas)
	if err != nil {
		return err
	}
	res, err := u.Apply(images)
	if err != nil {
		return describeNoImages(err)
	}
	for _, e := range res.Edits {
		fmt.Printf("updated %s with %s\n", e.PersonaKey, e.Filename)
	}
	if res.BackupPath != "" {
		fmt.Printf("backup: %s\n", res.BackupPath)
	}
	printSummary(res)
	return nil
}

func runValidate(_ *cobra.Command, _ []string) error {
	u, _, err := newUpdater()
	if err != nil {
		return err
	}
	v, err := u.Validate()
	if err != nil {
		return err
	}
	fmt.Printf("persona images found: %d (personas configured: %d)\n", len(v.Found), v.Expected)
	for _, ref := range v.Found {
		fmt.Printf("  %s (alt: %q)\n", ref.Src, ref.Alt)
	}
	if v.Valid {
		fmt.Println("validation passed")
		return nil
	}
	for _, issue := range v.Issues {
		fmt.Printf("  issue: %s\n", issue)
	}
	return fmt.Errorf("validation failed with %d issue(s)", len(v.Issues))
}

func runAddStyle(_ *cobra.Command, _ []string) error {
	u, _, err := newUpdater()
	if err != nil {
		return err
	}
	changed, err := u.EnsureImageStyle(false)
	if err != nil {
		return err
	}
	if changed {
		fmt.Println("added .persona-image style")
	} else {
		fmt.Println(".persona-image style already present")
	}
	return nil
}

func printSummary(res *page.Result) {
	fmt.Printf("summary: %d updated, %d missing images, %d unresolved\n",
		len(res.Edits), len(res.Missing), len(res.Unresolved))
	for _, key := range res.Missing {
		fmt.Printf("  missing image: %s\n", key)
	}
	for _, u := range res.Unresolved {
		fmt.Printf("  unresolved %s: %s\n", u.PersonaKey, u.Reason)
	}
}

func describeNoImages(err error) error {
	if errors.Is(err, page.ErrNoImages) {
		return fmt.Errorf("no generated images available in %s; run 'valuesnap generate' first", cfg.ImagesDir)
	}
	return err
}
