// Package producer runs one image-generation pass over the persona table:
// one request per persona, each verified and written to its own timestamped
// file, with per-persona failures isolated from the rest of the run.
package producer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"valuesnap/internal/imagegen"
	"valuesnap/internal/persona"
	"valuesnap/internal/report"
)

type Producer struct {
	Client   imagegen.Client
	Personas []persona.Persona
	OutDir   string

	Size    string
	MinDim  int
	Timeout time.Duration
	Delay   time.Duration

	now   func() time.Time
	sleep func(time.Duration)
}

func New(client imagegen.Client, personas []persona.Persona, outDir string) *Producer {
	return &Producer{
		Client:   client,
		Personas: personas,
		OutDir:   outDir,
		Size:     "512x512",
		MinDim:   256,
		Timeout:  60 * time.Second,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Run generates one image per persona. A failing persona is recorded in the
// report and does not abort the rest. A report file is always written, even
// when every persona failed.
func (p *Producer) Run(ctx context.Context) (*report.Report, error) {
	if err := os.MkdirAll(p.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}

	rep := &report.Report{
		GenerationTimestamp: p.now().Format(time.RFC3339),
		TotalPersonas:       len(p.Personas),
	}

	for i, ps := range p.Personas {
		img, err := p.generateOne(ctx, ps)
		if err != nil {
			log.Printf("failed to generate %s: %v", ps.Key, err)
			rep.Failures = append(rep.Failures, report.Failure{
				PersonaKey: ps.Key,
				Error:      err.Error(),
				Timestamp:  p.now().Format(report.TimestampLayout),
			})
		} else {
			log.Printf("generated %s: %s (%dx%d %s)", ps.Key, img.Filename, img.Width, img.Height, img.Format)
			rep.Results = append(rep.Results, *img)
		}
		if p.Delay > 0 && i < len(p.Personas)-1 {
			p.sleep(p.Delay)
		}
	}

	rep.Successful = len(rep.Results)
	rep.Failed = len(rep.Failures)

	if _, err := report.Save(p.OutDir, rep, p.now()); err != nil {
		return rep, fmt.Errorf("save generation report: %w", err)
	}
	return rep, nil
}

func (p *Producer) generateOne(ctx context.Context, ps persona.Persona) (*report.GeneratedImage, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	raw, err := p.Client.Generate(ctx, ps.Prompt, imagegen.Options{Size: p.Size, Format: "png"})
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid image content: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, fmt.Errorf("unexpected image format %q", format)
	}
	if cfg.Width < p.MinDim || cfg.Height < p.MinDim {
		return nil, fmt.Errorf("image too small: %dx%d (min %d)", cfg.Width, cfg.Height, p.MinDim)
	}

	ext := "png"
	if format == "jpeg" {
		ext = "jpg"
	}
	ts := p.now().Format(report.TimestampLayout)
	filename := fmt.Sprintf("%s_%s.%s", ps.Key, ts, ext)
	path := filepath.Join(p.OutDir, filename)

	// O_EXCL: a new run never overwrites an earlier image.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create image file: %w", err)
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close image file: %w", err)
	}

	return &report.GeneratedImage{
		PersonaKey:  ps.Key,
		PersonaName: ps.Name,
		FilePath:    path,
		Filename:    filename,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      format,
		Timestamp:   ts,
		Prompt:      ps.Prompt,
	}, nil
}
