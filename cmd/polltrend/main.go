package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrissnell/polltrend/internal/app"
	"github.com/chrissnell/polltrend/internal/constants"
	"github.com/chrissnell/polltrend/internal/log"
	"github.com/chrissnell/polltrend/pkg/config"
	"github.com/chrissnell/polltrend/pkg/responseformat"
)

func main() {
	cfgFile := flag.String("config", "polltrend.yaml", "Path to configuration source:\n\t\t\t  YAML: polltrend.yaml\n\t\t\t  SQLite: polltrend.db\n\t\t\t  Use 'config-convert' tool to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	chartID := flag.String("chart", "", "Compute only this chart from the catalogue")
	outDir := flag.String("out", "", "Directory to write one document per chart into (default: stdout)")
	format := flag.String("format", "json", "Output format: 'json' or 'msgpack'")
	indent := flag.Bool("indent", false, "Pretty-print JSON output")
	watchFiles := flag.Bool("watch", false, "Keep running and recompute when CSV poll files change")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("polltrend %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	outFormat, err := responseformat.ParseFormat(*format)
	if err != nil {
		log.Fatalf("%v", err)
	}

	filename, _ := filepath.Abs(*cfgFile)
	log.Infof("polltrend %s starting with %s configuration %s", constants.Version, *cfgBackend, filename)
	provider, err := config.Open(*cfgBackend, filename)
	if err != nil {
		log.Fatalf("Failed to open configuration: %v", err)
	}
	defer provider.Close()

	log.Debugf("run options: chart=%q out=%q format=%s indent=%v watch=%v", *chartID, *outDir, outFormat, *indent, *watchFiles)

	application := app.New(provider, log.Named("app"))
	err = application.Run(context.Background(), app.RunOptions{
		ChartID: *chartID,
		OutDir:  *outDir,
		Format:  outFormat,
		Indent:  *indent,
		Watch:   *watchFiles,
	})
	if err != nil {
		log.Errorf("Application error: %v", err)
		log.Sync()
		os.Exit(1)
	}

	log.Infow("polltrend finished", "chart", *chartID, "out", *outDir, "format", outFormat)
}
