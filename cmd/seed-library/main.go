// Command seed-library loads reference clause entries from a YAML file into
// the library cache. Intended for local development and first-run setup; in
// production the cache refreshes through the import endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/clauseflow/clauseflow/internal/config"
	"github.com/clauseflow/clauseflow/internal/library"
	"github.com/clauseflow/clauseflow/pkg/database"
)

type seedFile struct {
	Entries []library.EntryInput `yaml:"entries"`
}

func main() {
	var (
		file    = flag.String("file", "library.yaml", "Path to the YAML seed file")
		timeout = flag.Duration("timeout", 30*time.Second, "Import timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		log.Fatalf("failed to parse seed file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	conn := db.Connection()
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	sys := library.New(conn, logger, cfg.API.Pagination)

	result, err := sys.Import(ctx, library.ImportCommand{Entries: seed.Entries})
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("imported %d entries (%d created, %d updated)\n",
		result.Total, result.Created, result.Updated)
}
