package config

import (
	"fmt"
	"os"
	"path/filepath"
	"pricebook/internal/logger"
	"pricebook/internal/pricing"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Files   FilesConfig   `toml:"files"`
	Policy  PolicyConfig  `toml:"policy"`
	Mapping MappingConfig `toml:"mapping"`
	Update  UpdateConfig  `toml:"update"`
}

type FilesConfig struct {
	FactsExport   string `toml:"facts_export"`
	MasterListing string `toml:"master_listing"`
	PriceLibrary  string `toml:"price_library"`
	PublishedBook string `toml:"published_book"`
	UpdatedBook   string `toml:"updated_book"`
	MappingFile   string `toml:"mapping_file"`
}

type PolicyConfig struct {
	RoundTo              int          `toml:"round_to"`
	DefaultIncreasePct   float64      `toml:"default_increase_pct"`
	CompanionDiscountPct float64      `toml:"companion_discount_pct"`
	Tiers                []TierConfig `toml:"tiers"`
}

type TierConfig struct {
	SoldAt float64 `toml:"sold_at"`
	Uplift float64 `toml:"uplift"`
}

type MappingConfig struct {
	SchemaVersion  int               `toml:"schema_version"`
	HeaderScanRows int               `toml:"header_scan_rows"`
	Columns        map[string]string `toml:"columns"`
}

type UpdateConfig struct {
	AvailableStatuses []string `toml:"available_statuses"`
}

// LoadConfig loads configuration from the specified config file path
func LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configDir := filepath.Dir(configPath)
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %v", err)
		}

		defaultConfig := DefaultConfig()
		if err := SaveConfig(configPath, defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}

		logger.Info("Created default config file", "path", configPath)
		return defaultConfig, nil
	}

	// Load existing config
	var config Config
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %v", configPath, err)
	}

	// Set defaults if missing
	def := DefaultConfig()
	if config.Files.FactsExport == "" {
		config.Files.FactsExport = def.Files.FactsExport
	}
	if config.Files.MasterListing == "" {
		config.Files.MasterListing = def.Files.MasterListing
	}
	if config.Files.PriceLibrary == "" {
		config.Files.PriceLibrary = def.Files.PriceLibrary
	}
	if config.Files.PublishedBook == "" {
		config.Files.PublishedBook = def.Files.PublishedBook
	}
	if config.Files.UpdatedBook == "" {
		config.Files.UpdatedBook = def.Files.UpdatedBook
	}
	if config.Files.MappingFile == "" {
		config.Files.MappingFile = def.Files.MappingFile
	}
	if config.Policy.RoundTo == 0 {
		config.Policy.RoundTo = def.Policy.RoundTo
	}
	if config.Policy.DefaultIncreasePct == 0 {
		config.Policy.DefaultIncreasePct = def.Policy.DefaultIncreasePct
	}
	if config.Policy.CompanionDiscountPct == 0 {
		config.Policy.CompanionDiscountPct = def.Policy.CompanionDiscountPct
	}
	if len(config.Policy.Tiers) == 0 {
		config.Policy.Tiers = def.Policy.Tiers
	}
	if config.Mapping.SchemaVersion == 0 {
		config.Mapping.SchemaVersion = def.Mapping.SchemaVersion
	}
	if config.Mapping.HeaderScanRows == 0 {
		config.Mapping.HeaderScanRows = def.Mapping.HeaderScanRows
	}
	if len(config.Update.AvailableStatuses) == 0 {
		config.Update.AvailableStatuses = def.Update.AvailableStatuses
	}

	logger.Info("Loaded configuration", "path", configPath)
	return &config, nil
}

// SaveConfig saves configuration to the specified config file path
func SaveConfig(configPath string, config *Config) error {
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	err = encoder.Encode(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}

	logger.Info("Saved configuration", "path", configPath)
	return nil
}

// DefaultConfig mirrors the fixed file names the old scripts hard-coded,
// so a fresh checkout behaves like the manual workflow until edited.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			FactsExport:   "Property - Property Inventory with Owner Details.xlsm",
			MasterListing: "Harpeth_Hills_Price_Book_REMADE.xlsx",
			PriceLibrary:  "price_library.xlsx",
			PublishedBook: "Harpeth_Hills_Price_Book_PUBLISHED.xlsx",
			UpdatedBook:   "Harpeth_Hills_Price_Book_FINAL.xlsx",
			MappingFile:   "configs/column_mapping.json",
		},
		Policy: PolicyConfig{
			RoundTo:              995,
			DefaultIncreasePct:   0.05,
			CompanionDiscountPct: 0.20,
			Tiers: []TierConfig{
				{SoldAt: 0.97, Uplift: 0.20},
				{SoldAt: 0.90, Uplift: 0.15},
			},
		},
		Mapping: MappingConfig{
			SchemaVersion:  1,
			HeaderScanRows: 20,
			Columns:        map[string]string{},
		},
		Update: UpdateConfig{
			AvailableStatuses: []string{"Available", "Serviceable", "For Sale", "Vacant"},
		},
	}
}

// PricingPolicy converts the TOML policy section into the engine's policy table.
func (c *Config) PricingPolicy() pricing.Policy {
	p := pricing.Policy{
		RoundTo:              c.Policy.RoundTo,
		DefaultIncreasePct:   c.Policy.DefaultIncreasePct,
		CompanionDiscountPct: c.Policy.CompanionDiscountPct,
	}
	for _, t := range c.Policy.Tiers {
		p.Tiers = append(p.Tiers, pricing.Tier{SoldAt: t.SoldAt, Uplift: t.Uplift})
	}
	return p
}
