package main

import (
	"fmt"
	"os"

	"pricebook/internal/book"
	"pricebook/internal/config"
	"pricebook/internal/facts"
	"pricebook/internal/library"
	"pricebook/internal/logger"
	"pricebook/internal/mapping"
	"pricebook/internal/update"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	command := os.Args[1]

	cfg, err := config.LoadConfig("configs/config.toml")
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "bootstrap":
		runBootstrap(cfg)
	case "publish":
		runPublish(cfg)
	case "update":
		runUpdate(cfg)
	case "scan":
		runScan(cfg)
	case "map":
		runMap(cfg)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Pricebook - Cemetery Price Book Pipeline")
	fmt.Println("\nUsage:")
	fmt.Println("  pricebook bootstrap   - Build the price library from the master listing")
	fmt.Println("  pricebook publish     - Generate the published price book from the library and FaCTS export")
	fmt.Println("  pricebook update      - Surgically refresh the master book from the inventory export")
	fmt.Println("  pricebook scan        - Show the detected columns of the FaCTS export")
	fmt.Println("  pricebook map         - Open the interactive column mapping review")
}

func runBootstrap(cfg *config.Config) {
	logger.Info("Starting bootstrap", "master", cfg.Files.MasterListing, "library", cfg.Files.PriceLibrary)
	fmt.Printf("Bootstrapping price library from %s...\n", cfg.Files.MasterListing)

	err := library.Bootstrap(cfg.Files.MasterListing, cfg.Files.PriceLibrary, cfg.PricingPolicy())
	if err != nil {
		logger.Error("Bootstrap failed", "error", err)
		fmt.Printf("Error bootstrapping price library: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Price library ready: %s\n", cfg.Files.PriceLibrary)
}

func runPublish(cfg *config.Config) {
	logger.Info("Starting publish",
		"library", cfg.Files.PriceLibrary,
		"export", cfg.Files.FactsExport,
		"output", cfg.Files.PublishedBook)

	if _, err := os.Stat(cfg.Files.PriceLibrary); os.IsNotExist(err) {
		fmt.Printf("Price library not found: %s\n", cfg.Files.PriceLibrary)
		fmt.Println("Please run 'pricebook bootstrap' first.")
		os.Exit(1)
	}

	records, err := library.Load(cfg.Files.PriceLibrary)
	if err != nil {
		logger.Error("Failed to load price library", "error", err)
		fmt.Printf("Error loading price library: %v\n", err)
		os.Exit(1)
	}

	export, err := facts.Load(cfg.Files.FactsExport, facts.LoadOptions{
		HeaderScanRows: cfg.Mapping.HeaderScanRows,
		Overrides:      loadOverrides(cfg),
	})
	if err != nil {
		logger.Error("Failed to load FaCTS export", "error", err)
		fmt.Printf("Error loading FaCTS export: %v\n", err)
		os.Exit(1)
	}

	buckets := book.ComputeBuckets(export)
	if err := book.Publish(cfg.Files.PublishedBook, records, buckets, cfg.PricingPolicy()); err != nil {
		logger.Error("Publish failed", "error", err)
		fmt.Printf("Error publishing price book: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Published price book: %s\n", cfg.Files.PublishedBook)
}

func runUpdate(cfg *config.Config) {
	logger.Info("Starting surgical update",
		"inventory", cfg.Files.FactsExport,
		"master", cfg.Files.MasterListing,
		"output", cfg.Files.UpdatedBook)
	fmt.Printf("Updating %s from %s...\n", cfg.Files.MasterListing, cfg.Files.FactsExport)

	opts := update.LoadOptions{
		HeaderScanRows:    cfg.Mapping.HeaderScanRows,
		Overrides:         loadOverrides(cfg),
		AvailableStatuses: cfg.Update.AvailableStatuses,
	}
	err := update.Run(cfg.Files.FactsExport, cfg.Files.MasterListing, cfg.Files.UpdatedBook, opts)
	if err != nil {
		logger.Error("Update failed", "error", err)
		fmt.Printf("Error updating price book: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated price book: %s\n", cfg.Files.UpdatedBook)
}

func runScan(cfg *config.Config) {
	logger.Info("Starting scan", "export", cfg.Files.FactsExport)

	headers, headerRow, err := facts.ScanHeaders(cfg.Files.FactsExport, cfg.Mapping.HeaderScanRows)
	if err != nil {
		logger.Error("Scan failed", "error", err)
		fmt.Printf("Error scanning export: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Header row: %d\n", headerRow+1)
	fmt.Printf("Headers (%d):\n", len(headers))
	for _, h := range headers {
		fmt.Printf("  %s\n", h)
	}

	cols := mapping.DetectColumns(headers, loadOverrides(cfg))
	fmt.Println("\nDetected columns:")
	for _, f := range mapping.Fields() {
		if i, ok := cols[f]; ok {
			fmt.Printf("  %-12s -> %s\n", f, headers[i])
		} else {
			fmt.Printf("  %-12s -> (not found)\n", f)
		}
	}

	if err := mapping.RequireFields(cols, facts.RequiredFields...); err != nil {
		fmt.Printf("\nWarning: %v\n", err)
		fmt.Println("Run 'pricebook map' to assign the missing columns.")
	}
}

func runMap(cfg *config.Config) {
	logger.Info("Starting mapping review", "export", cfg.Files.FactsExport, "mapping_file", cfg.Files.MappingFile)

	headers, _, err := facts.ScanHeaders(cfg.Files.FactsExport, cfg.Mapping.HeaderScanRows)
	if err != nil {
		logger.Error("Failed to scan export headers", "error", err)
		fmt.Printf("Error scanning export: %v\n", err)
		os.Exit(1)
	}

	// Seed the review with AI suggestions when an API key is configured,
	// otherwise with plain keyword detection.
	suggestions := detectionSuggestions(headers)
	if apiKey := mapping.GeminiAPIKey(); apiKey != "" {
		suggester, err := mapping.NewSuggester(apiKey)
		if err != nil {
			logger.Error("Failed to initialize suggester", "error", err)
			fmt.Printf("AI suggestions unavailable: %v\n", err)
		} else {
			defer suggester.Close()
			if ai, err := suggester.Suggest(headers); err != nil {
				logger.Error("AI suggestion request failed", "error", err)
				fmt.Printf("AI suggestions unavailable: %v\n", err)
			} else {
				for h, f := range ai {
					suggestions[h] = f
				}
			}
		}
	}

	if err := mapping.RunMappingTUI(headers, suggestions, cfg.Files.MappingFile); err != nil {
		logger.Error("Mapping review failed", "error", err)
		fmt.Printf("Error running mapping tool: %v\n", err)
		os.Exit(1)
	}
}

func detectionSuggestions(headers []string) map[string]mapping.Field {
	cols := mapping.DetectColumns(headers, nil)
	out := make(map[string]mapping.Field)
	for f, i := range cols {
		if i >= 0 && i < len(headers) {
			out[headers[i]] = f
		}
	}
	return out
}

// loadOverrides reads the mapping file if present. A missing file means the
// keyword detector runs unassisted; a present-but-invalid file is an error
// worth stopping for.
func loadOverrides(cfg *config.Config) map[string]mapping.Field {
	if _, err := os.Stat(cfg.Files.MappingFile); os.IsNotExist(err) {
		return nil
	}
	schema, err := mapping.LoadFromFile(cfg.Files.MappingFile)
	if err != nil {
		logger.Error("Failed to load mapping file", "error", err)
		fmt.Printf("Error loading mapping file: %v\n", err)
		os.Exit(1)
	}
	return schema.Overrides()
}
