package collections

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Seed creates a default settings record pointing at ./input and ./output
// next to the data dir, so a fresh install can load and export files without
// any configuration. Existing settings are left alone.
func Seed(app *pocketbase.PocketBase) error {
	records, err := app.FindRecordsByFilter("settings", "id != ''", "", 1, 0)
	if err != nil {
		return fmt.Errorf("check existing settings: %w", err)
	}
	if len(records) > 0 {
		return nil
	}

	inputDir, err := filepath.Abs("input")
	if err != nil {
		return fmt.Errorf("resolve input dir: %w", err)
	}
	outputDir, err := filepath.Abs("output")
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}
	for _, dir := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	col, err := app.FindCollectionByNameOrId("settings")
	if err != nil {
		return fmt.Errorf("settings collection not found: %w", err)
	}

	record := core.NewRecord(col)
	record.Set("input_folder", inputDir)
	record.Set("output_folder", outputDir)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save default settings: %w", err)
	}
	return nil
}
