package main

import (
	"flag"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/chrissnell/polltrend/internal/app"
	"github.com/chrissnell/polltrend/pkg/config"
)

func main() {
	var (
		yamlFile   = flag.String("yaml", "", "Path to YAML configuration file")
		sqliteFile = flag.String("sqlite", "", "Path to SQLite configuration file (optional)")
	)
	flag.Parse()

	if *yamlFile == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -yaml <polltrend.yaml> [-sqlite <polltrend.db>]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	fmt.Println("Configuration Test")
	fmt.Println("==================")

	fmt.Printf("Loading YAML configuration: %s\n", *yamlFile)
	yamlConfig, err := config.NewYAMLProvider(*yamlFile).LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading YAML config: %v\n", err)
		os.Exit(1)
	}

	failed := !validate(yamlConfig)

	if *sqliteFile != "" {
		fmt.Printf("\nLoading SQLite configuration: %s\n", *sqliteFile)
		sqliteProvider, err := config.NewSQLiteProvider(*sqliteFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating SQLite provider: %v\n", err)
			os.Exit(1)
		}
		defer sqliteProvider.Close()

		sqliteConfig, err := sqliteProvider.LoadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading SQLite config: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("\nComparison Results:")
		failed = !compare("Parties", yamlConfig.Parties, sqliteConfig.Parties) || failed
		failed = !compare("Pollsters", yamlConfig.Pollsters, sqliteConfig.Pollsters) || failed
		failed = !compare("Charts", yamlConfig.Charts, sqliteConfig.Charts) || failed
		failed = !compare("Source", yamlConfig.Source, sqliteConfig.Source) || failed
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}

// validate checks that every chart in the catalogue can be turned into
// session options.
func validate(cfg *config.ConfigData) bool {
	ok := true

	if _, err := app.BuildRegistry(cfg); err != nil {
		fmt.Printf("✗ Reference data: %v\n", err)
		ok = false
	} else {
		fmt.Printf("✓ Reference data: %d parties, %d pollsters\n", len(cfg.Parties), len(cfg.Pollsters))
	}

	known := make(map[string]bool, len(cfg.Parties))
	for _, p := range cfg.Parties {
		known[p.ID] = true
	}

	for _, c := range cfg.Charts {
		opts, _, err := app.ChartOptions(c, time.Now())
		if err != nil {
			fmt.Printf("✗ Chart %s: %v\n", c.ID, err)
			ok = false
			continue
		}
		if opts.DateRange.Empty() {
			fmt.Printf("! Chart %s: start date is after end date, the chart will be empty\n", c.ID)
		}
		for _, p := range c.Parties {
			if !known[p] {
				fmt.Printf("! Chart %s: party %s has no display metadata\n", c.ID, p)
			}
		}
		fmt.Printf("✓ Chart %s\n", c.ID)
	}

	if cfg.Source.CSV == nil && cfg.Source.Postgres == nil {
		fmt.Println("✗ No observation source configured")
		ok = false
	}

	return ok
}

func compare(section string, yamlValue, sqliteValue any) bool {
	if reflect.DeepEqual(yamlValue, sqliteValue) {
		fmt.Printf("✓ %s match\n", section)
		return true
	}
	fmt.Printf("✗ %s differ\n", section)
	fmt.Printf("  YAML:   %+v\n", yamlValue)
	fmt.Printf("  SQLite: %+v\n", sqliteValue)
	return false
}
