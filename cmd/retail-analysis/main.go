package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/misha-la/online-retail-analysis/internal/config"
	"github.com/misha-la/online-retail-analysis/internal/pipeline"
	"github.com/misha-la/online-retail-analysis/internal/source"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	sourceType := flag.String("source", "", "transaction source (csv, postgres, mysql, or mongo)")
	input := flag.String("input", "", "input path or DSN, overrides the configured source value")
	clusters := flag.Int("clusters", 0, "number of K-means clusters")
	seed := flag.Int64("seed", 0, "random seed for clustering")
	horizon := flag.Int("horizon", 0, "forecast horizon in months")
	outputDir := flag.String("output", "", "directory for generated files")

	flag.Parse()

	// -seed is applied on presence rather than value, so zero is a usable
	// seed from the command line.
	seedSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			seedSet = true
		}
	})

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		exitCode = 1
		return
	}
	applyFlags(cfg, *sourceType, *input, *clusters, *seed, seedSet, *horizon, *outputDir)

	drivers := map[string]source.Driver{
		"csv":      &source.CSVDriver{},
		"postgres": &source.PostgresDriver{},
		"mysql":    &source.MySQLDriver{},
		"mongo":    &source.MongoDriver{},
	}
	driver, ok := drivers[cfg.Source]
	if !ok {
		log.Printf("Unsupported source type: %s", cfg.Source)
		exitCode = 1
		return
	}

	dsn, err := cfg.DSN(cfg.Source)
	if err != nil {
		log.Printf("%v", err)
		exitCode = 1
		return
	}
	if dsn == "" {
		log.Printf("No DSN configured for source %s", cfg.Source)
		exitCode = 1
		return
	}
	if err := driver.Open(dsn); err != nil {
		log.Printf("Failed to open %s source: %v", cfg.Source, err)
		exitCode = 1
		return
	}
	defer driver.Close()

	if err := pipeline.Run(context.Background(), cfg, driver); err != nil {
		log.Printf("Pipeline failed: %v", err)
		exitCode = 1
		return
	}
}

// applyFlags layers set flag values over the file config.
func applyFlags(cfg *config.Config, sourceType, input string, clusters int, seed int64, seedSet bool, horizon int, outputDir string) {
	if sourceType != "" {
		cfg.Source = sourceType
	}
	if input != "" {
		switch cfg.Source {
		case "csv":
			cfg.Sources.CSV = input
		case "postgres":
			cfg.Sources.Postgres = input
		case "mysql":
			cfg.Sources.MySQL = input
		case "mongo":
			cfg.Sources.Mongo = input
		}
	}
	if clusters > 0 {
		cfg.Analysis.ClusterCount = clusters
	}
	if seedSet {
		cfg.Analysis.RandomSeed = seed
	}
	if horizon > 0 {
		cfg.Analysis.ForecastHorizon = horizon
	}
	if outputDir != "" {
		cfg.OutputDir = outputDir
	}
}
