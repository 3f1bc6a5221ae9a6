package store

import (
	_ "embed"
	"fmt"

	"storefront/services/storefront-api/models"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var DefaultCatalog []byte

type catalogFile struct {
	Categories []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		ImageURL    string `yaml:"image_url"`
	} `yaml:"categories"`
	Products []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Price       string `yaml:"price"`
		ImageURL    string `yaml:"image_url"`
		Category    string `yaml:"category"`
		Featured    bool   `yaml:"featured"`
		Available   *bool  `yaml:"available"`
	} `yaml:"products"`
	Locations []struct {
		Name      string   `yaml:"name"`
		Address   string   `yaml:"address"`
		City      string   `yaml:"city"`
		State     string   `yaml:"state"`
		Zip       string   `yaml:"zip"`
		Phone     string   `yaml:"phone"`
		Latitude  *float64 `yaml:"latitude"`
		Longitude *float64 `yaml:"longitude"`
		Hours     string   `yaml:"hours"`
		ImageURL  string   `yaml:"image_url"`
	} `yaml:"locations"`
}

// Seed loads a YAML catalog into the store. Products reference their
// category by name; available defaults to true.
func (s *Store) Seed(data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog: %w", err)
	}

	// Validate everything before creating anything so a bad file seeds nothing.
	prices := make([]decimal.Decimal, len(file.Products))
	categoryNames := make(map[string]bool, len(file.Categories))
	for _, c := range file.Categories {
		if c.Name == "" {
			return fmt.Errorf("category without a name")
		}
		categoryNames[c.Name] = true
	}
	for i, p := range file.Products {
		if p.Name == "" {
			return fmt.Errorf("product %d has no name", i+1)
		}
		if !categoryNames[p.Category] {
			return fmt.Errorf("product %q references unknown category %q", p.Name, p.Category)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %q has invalid price %q: %w", p.Name, p.Price, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("product %q has negative price %s", p.Name, price)
		}
		prices[i] = price
	}

	categoryIDs := make(map[string]int, len(file.Categories))
	for _, c := range file.Categories {
		created := s.CreateCategory(models.Category{
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		})
		categoryIDs[c.Name] = created.ID
	}

	for i, p := range file.Products {
		available := true
		if p.Available != nil {
			available = *p.Available
		}
		s.CreateProduct(models.Product{
			Name:        p.Name,
			Description: p.Description,
			Price:       prices[i],
			ImageURL:    p.ImageURL,
			CategoryID:  categoryIDs[p.Category],
			Featured:    p.Featured,
			Available:   available,
		})
	}

	for _, l := range file.Locations {
		s.CreateLocation(models.Location{
			Name:      l.Name,
			Address:   l.Address,
			City:      l.City,
			State:     l.State,
			Zip:       l.Zip,
			Phone:     l.Phone,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Hours:     l.Hours,
			ImageURL:  l.ImageURL,
		})
	}

	return nil
}
