package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minvoice/minvoice/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project-level settings file.
const FileName = ".minvoice.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .minvoice.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .minvoice.yaml from projectPath.
// Returns DefaultConfig if the file does not exist.
func (l *YAMLLoader) Load(projectPath string) (domain.Config, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}

	// Keys absent from the file keep their defaults; explicit values,
	// including margin: 0 and an empty logo_path, are kept as written.
	cfg := domain.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, fmt.Errorf("invalid %s: %w", FileName, err)
	}

	return fillBlanks(cfg, domain.DefaultConfig()), nil
}

// fillBlanks restores the settings that cannot be blank. LogoPath and Issuer
// may be cleared: no logo is drawn and the issuer comes from the document.
func fillBlanks(cfg, base domain.Config) domain.Config {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&cfg.CurrencySymbol, base.CurrencySymbol)
	fill(&cfg.PageSize, base.PageSize)
	fill(&cfg.DateFormat, base.DateFormat)
	fill(&cfg.TextColor, base.TextColor)
	fill(&cfg.BackgroundColor, base.BackgroundColor)
	fill(&cfg.DefaultTemplate, base.DefaultTemplate)
	return cfg
}

// Write renders cfg as a commented .minvoice.yaml in dir.
func Write(dir string, cfg domain.Config) (string, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", FileName, err)
	}
	content := "# minvoice configuration\n" +
		"# page_size: A4 or Letter; default_template: invoice, proposal or project-proposal\n\n" +
		string(body)

	dest := filepath.Join(dir, FileName)
	if err := os.WriteFile(dest, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return dest, nil
}
