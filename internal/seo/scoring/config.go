package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the scoring weights and target windows. The defaults are what
// production runs with; a YAML file can override them per deployment (e.g. a
// different brand token per country site).
type Config struct {
	BrandToken string `yaml:"brand_token"`

	TitleWeight int `yaml:"title_weight"`
	TitleMinLen int `yaml:"title_min_len"`
	TitleMaxLen int `yaml:"title_max_len"`

	DescriptionWeight int `yaml:"description_weight"`
	DescMinLen        int `yaml:"desc_min_len"`
	DescMaxLen        int `yaml:"desc_max_len"`

	KeywordWeight int `yaml:"keyword_weight"`
	KeywordMin    int `yaml:"keyword_min"`
	KeywordMax    int `yaml:"keyword_max"`

	StructuralWeight int `yaml:"structural_weight"`
	MediaWeight      int `yaml:"media_weight"`
}

func DefaultConfig() Config {
	return Config{
		BrandToken: "Listora",

		TitleWeight: 25,
		TitleMinLen: 40,
		TitleMaxLen: 60,

		DescriptionWeight: 25,
		DescMinLen:        150,
		DescMaxLen:        160,

		KeywordWeight: 20,
		KeywordMin:    12,
		KeywordMax:    15,

		StructuralWeight: 15,
		MediaWeight:      15,
	}
}

// LoadConfig reads a YAML override on top of the defaults. Missing keys keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse scoring config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	total := c.TitleWeight + c.DescriptionWeight + c.KeywordWeight + c.StructuralWeight + c.MediaWeight
	if total != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %d", total)
	}
	if c.TitleMinLen <= 0 || c.TitleMaxLen < c.TitleMinLen {
		return fmt.Errorf("invalid title length window [%d,%d]", c.TitleMinLen, c.TitleMaxLen)
	}
	if c.DescMinLen <= 0 || c.DescMaxLen < c.DescMinLen {
		return fmt.Errorf("invalid description length window [%d,%d]", c.DescMinLen, c.DescMaxLen)
	}
	if c.KeywordMin <= 0 || c.KeywordMax < c.KeywordMin {
		return fmt.Errorf("invalid keyword count window [%d,%d]", c.KeywordMin, c.KeywordMax)
	}
	return nil
}
