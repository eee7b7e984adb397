package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/marketgraph/marketgraph-backend/config"
	"github.com/marketgraph/marketgraph-backend/internal/app/repository"
	"github.com/marketgraph/marketgraph-backend/internal/app/service"
	"github.com/marketgraph/marketgraph-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the taxonomy from a master file. Accepts an XLSX workbook with
// name/group/description columns or a JSON array of the same shape. The
// import is idempotent, so re-running against a live database is safe.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <taxonomy_file.xlsx|taxonomy_file.json>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	taxonomyService := service.NewTaxonomyService(repository.NewTaxonomyRepository(db.GetDB()))

	fmt.Printf("Reading taxonomy file: %s\n", filePath)

	var nodes []service.SeedNode
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx":
		nodes, err = readNodesFromXLSX(filePath)
	case ".json":
		nodes, err = readNodesFromJSON(filePath)
	default:
		log.Fatal("Unsupported file type, expected .xlsx or .json")
	}
	if err != nil {
		log.Fatal("Failed to read taxonomy file:", err)
	}

	fmt.Printf("Total nodes to import: %d\n", len(nodes))

	stats, err := taxonomyService.Import(nodes)
	if err != nil {
		log.Fatal("Taxonomy import failed:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Inserted: %d\n", stats.Inserted)
	fmt.Printf("  Updated:  %d\n", stats.Updated)
	fmt.Printf("  Skipped:  %d\n", stats.Skipped)
}

func readNodesFromXLSX(filePath string) ([]service.SeedNode, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var nodes []service.SeedNode
	skipped := 0

	// First row is the header
	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			skipped++
			continue
		}

		node := service.SeedNode{Name: strings.TrimSpace(row[0])}
		if len(row) > 1 {
			node.Group = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			node.Description = strings.TrimSpace(row[2])
		}
		nodes = append(nodes, node)
	}

	fmt.Printf("Parsed %d nodes, skipped %d blank rows\n", len(nodes), skipped)
	return nodes, nil
}

func readNodesFromJSON(filePath string) ([]service.SeedNode, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var nodes []service.SeedNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %w", err)
	}
	return nodes, nil
}
