package database

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/kikibeach/kiki-pos/internal/config"
	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	"github.com/kikibeach/kiki-pos/internal/domain/enum"
	applog "github.com/kikibeach/kiki-pos/pkg/logger"
	"github.com/kikibeach/kiki-pos/pkg/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/menu.yaml
var defaultMenu []byte

// MenuSeed is the on-disk shape of the catalog seed
type MenuSeed struct {
	DefaultStock int            `yaml:"default_stock"`
	Categories   []CategorySeed `yaml:"categories"`
}

type CategorySeed struct {
	Name  string     `yaml:"name"`
	Slug  string     `yaml:"slug"`
	Group string     `yaml:"group"`
	Items []ItemSeed `yaml:"items"`
}

type ItemSeed struct {
	Name        string `yaml:"name"`
	Price       int64  `yaml:"price"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
	Stock       *int   `yaml:"stock"`
}

// ParseMenuSeed decodes and validates a catalog seed
func ParseMenuSeed(data []byte) (*MenuSeed, error) {
	var seed MenuSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode menu seed: %w", err)
	}

	slugs := make(map[string]bool, len(seed.Categories))
	for i := range seed.Categories {
		c := &seed.Categories[i]
		if c.Name == "" {
			return nil, fmt.Errorf("category %d: name is required", i)
		}
		if c.Slug == "" {
			c.Slug = utils.Slugify(c.Name)
		}
		if slugs[c.Slug] {
			return nil, fmt.Errorf("category %q: duplicate slug", c.Slug)
		}
		slugs[c.Slug] = true
		if _, err := enum.ParseCategoryGroup(c.Group); err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Slug, err)
		}
		for _, it := range c.Items {
			if it.Name == "" || it.Price < 0 {
				return nil, fmt.Errorf("category %q: invalid item %q", c.Slug, it.Name)
			}
		}
	}
	return &seed, nil
}

// Entities converts the seed into entities ready for insert
func (s *MenuSeed) Entities() []entity.Category {
	categories := make([]entity.Category, 0, len(s.Categories))
	for _, c := range s.Categories {
		group, _ := enum.ParseCategoryGroup(c.Group)
		category := entity.Category{Name: c.Name, Slug: c.Slug, Group: group}
		for _, it := range c.Items {
			stock := s.DefaultStock
			if it.Stock != nil {
				stock = *it.Stock
			}
			category.MenuItems = append(category.MenuItems, entity.MenuItem{
				Name:        it.Name,
				Price:       it.Price,
				Image:       optional(it.Image),
				Description: optional(it.Description),
				Stock:       stock,
			})
		}
		categories = append(categories, category)
	}
	return categories
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SeedDefaultData creates the admin account and the default catalog
func SeedDefaultData(db *gorm.DB, cfg *config.SeedConfig, log *applog.Logger) error {
	if err := seedAdmin(db, cfg, log); err != nil {
		return err
	}
	return seedMenu(db, cfg.MenuFile, log)
}

func seedAdmin(db *gorm.DB, cfg *config.SeedConfig, log *applog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if count > 0 {
		log.Debug("seed_admin", "", "admin already exists", slog.String("email", cfg.AdminEmail))
		return nil
	}

	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	name := cfg.AdminName
	if name == "" {
		name = "Admin"
	}
	admin := entity.User{Name: name, Email: cfg.AdminEmail, Password: hashed, Role: enum.RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("seed_admin", "", "admin user created", slog.String("email", cfg.AdminEmail))
	return nil
}

func seedMenu(db *gorm.DB, path string, log *applog.Logger) error {
	var count int64
	if err := db.Model(&entity.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if count > 0 {
		return nil
	}

	data := defaultMenu
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read menu seed: %w", err)
		}
		data = raw
	}

	seed, err := ParseMenuSeed(data)
	if err != nil {
		return err
	}

	categories := seed.Entities()
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			if err := tx.Create(&categories[i]).Error; err != nil {
				return fmt.Errorf("create category %q: %w", categories[i].Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("seed_menu", "", "default menu loaded", slog.Int("categories", len(categories)))
	return nil
}
