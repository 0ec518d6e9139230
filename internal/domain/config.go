package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// PageSize is a paper size in points (1" = 72pt).
type PageSize struct {
	Name   string  `yaml:"name"   json:"name"`
	Width  float64 `yaml:"width"  json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

var (
	PageA4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	PageLetter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// ValidPageSizes enumerates the recognized page size names.
var ValidPageSizes = []PageSize{PageA4, PageLetter}

// ValidTemplates enumerates the template preset names.
var ValidTemplates = []string{"invoice", "proposal", "project-proposal"}

// Config holds render settings loaded from .minvoice.yaml.
type Config struct {
	CurrencySymbol  string  `yaml:"currency_symbol"  json:"currency_symbol"`
	PageSize        string  `yaml:"page_size"        json:"page_size"`
	Margin          float64 `yaml:"margin"           json:"margin"`
	DateFormat      string  `yaml:"date_format"      json:"date_format"`
	LogoPath        string  `yaml:"logo_path"        json:"logo_path"`
	Issuer          string  `yaml:"issuer"           json:"issuer"`
	TextColor       string  `yaml:"text_color"       json:"text_color"`
	BackgroundColor string  `yaml:"background_color" json:"background_color"`
	DefaultTemplate string  `yaml:"default_template" json:"default_template"`
}

// DefaultConfig returns the settings of the stock A4 layout.
func DefaultConfig() Config {
	return Config{
		CurrencySymbol:  "£",
		PageSize:        PageA4.Name,
		Margin:          50,
		DateFormat:      "02 January 2006",
		LogoPath:        "orb.jpg",
		TextColor:       "1a1a1a",
		BackgroundColor: "FFFFFF",
		DefaultTemplate: "invoice",
	}
}

// Page returns the page size named by the config.
func (c Config) Page() PageSize {
	for _, ps := range ValidPageSizes {
		if strings.EqualFold(ps.Name, c.PageSize) {
			return ps
		}
	}
	return PageA4
}

// FormatDate formats t using the configured date layout.
func (c Config) FormatDate(t time.Time) string {
	return t.Format(c.DateFormat)
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	// 1. page_size must be known or empty
	if c.PageSize != "" {
		valid := false
		for _, ps := range ValidPageSizes {
			if strings.EqualFold(ps.Name, c.PageSize) {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown page_size %q (valid: A4, Letter)", c.PageSize)
		}
	}

	// 2. margin must leave room for the layout
	if c.Margin < 0 || c.Margin > 120 {
		return fmt.Errorf("margin %.1f out of range (must be between 0 and 120)", c.Margin)
	}

	// 3. colours are six hex digits
	for name, v := range map[string]string{"text_color": c.TextColor, "background_color": c.BackgroundColor} {
		if v != "" && !hexColor.MatchString(v) {
			return fmt.Errorf("%s %q must be six hex digits", name, v)
		}
	}

	// 4. default_template must be a preset
	if c.DefaultTemplate != "" {
		valid := false
		for _, t := range ValidTemplates {
			if c.DefaultTemplate == t {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("unknown default_template %q (valid: invoice, proposal, project-proposal)", c.DefaultTemplate)
		}
	}

	return nil
}
