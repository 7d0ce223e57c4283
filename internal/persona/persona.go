package persona

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Keys end up embedded in image filenames ({key}_{timestamp}.{ext}), so
// they are restricted to the charset the filename scan recognizes.
var keyRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

// Persona is one target-customer archetype used for marketing imagery.
// PageName is the given name appearing in the persona card heading on the
// landing page ("Emeka, 37" contains "Emeka") and is how cards are matched
// back to personas.
type Persona struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	PageName    string `yaml:"page_name"`
	Role        string `yaml:"role"`
	AgeRange    string `yaml:"age_range"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

// AltText is the accessibility text used when the persona's avatar is
// replaced with a generated image.
func (p Persona) AltText() string {
	return p.PageName + " - " + p.Role
}

// Defaults returns the built-in persona table.
func Defaults() []Persona {
	return []Persona{
		{
			Key:         "estate_inheritor",
			Name:        "Estate Inheritor",
			PageName:    "Emeka",
			Role:        "Estate Manager",
			AgeRange:    "35-55",
			Description: "Professional woman who inherited family antiques and collectibles",
			Prompt:      "Professional portrait of a 45-year-old woman in business attire, standing in a home office with vintage furniture and inherited antiques in the background, warm lighting, confident expression, realistic photography style",
		},
		{
			Key:         "reseller_entrepreneur",
			Name:        "Reseller Entrepreneur",
			PageName:    "Jake",
			Role:        "Reseller",
			AgeRange:    "25-40",
			Description: "Young professional who buys and sells items for profit",
			Prompt:      "Portrait of a 32-year-old person in casual business attire, sitting at a desk with multiple items for resale (vintage items, electronics, collectibles) organized around them, modern apartment setting, entrepreneurial vibe, realistic photography style",
		},
		{
			Key:         "antique_collector",
			Name:        "Antique Collector",
			PageName:    "Margaret",
			Role:        "Collector",
			AgeRange:    "50-70",
			Description: "Mature collector evaluating valuable items",
			Prompt:      "Distinguished 60-year-old person examining an antique item with a magnifying glass, surrounded by carefully curated vintage items and books, library or study setting, sophisticated atmosphere, realistic photography style",
		},
		{
			Key:         "small_business_owner",
			Name:        "Small Business Owner",
			PageName:    "Rosa",
			Role:        "Shop Owner",
			AgeRange:    "30-50",
			Description: "Shop owner who needs quick item valuations",
			Prompt:      "Portrait of a 40-year-old small business owner in their vintage/consignment shop, surrounded by diverse items for sale, friendly and approachable expression, natural lighting, realistic photography style",
		},
	}
}

// Load reads a persona table from a YAML file and validates it.
func Load(path string) ([]Persona, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	var ps []Persona
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse persona file: %w", err)
	}
	if err := Validate(ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func Validate(ps []Persona) error {
	if len(ps) == 0 {
		return fmt.Errorf("persona table is empty")
	}
	seen := map[string]bool{}
	for _, p := range ps {
		if p.Key == "" {
			return fmt.Errorf("persona with empty key")
		}
		if !keyRe.MatchString(p.Key) {
			return fmt.Errorf("persona key %q: only lowercase letters, digits, _ and - are allowed", p.Key)
		}
		if seen[p.Key] {
			return fmt.Errorf("duplicate persona key: %s", p.Key)
		}
		seen[p.Key] = true
		if p.PageName == "" {
			return fmt.Errorf("persona %s: empty page_name", p.Key)
		}
		if p.Prompt == "" {
			return fmt.Errorf("persona %s: empty prompt", p.Key)
		}
	}
	return nil
}

// Find returns the persona with the given key.
func Find(ps []Persona, key string) (Persona, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p, true
		}
	}
	return Persona{}, false
}

// Keys returns the persona keys in table order.
func Keys(ps []Persona) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Key)
	}
	return out
}
