package pages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile читает каталог из YAML. Незаполненные секции берутся из Default().
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("разбор каталога страниц: %w", err)
	}

	def := Default()
	if len(c.Pages) == 0 {
		c.Pages = def.Pages
	}
	if c.Footer.Expression == "" {
		c.Footer = def.Footer
	}
	if c.Consent.Expression == "" {
		c.Consent = def.Consent
	}
	if len(c.Default) == 0 {
		c.Default = def.Default
	}
	if len(c.Special) == 0 {
		c.Special = def.Special
	}
	if c.SpecialURLs == nil {
		c.SpecialURLs = def.SpecialURLs
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
