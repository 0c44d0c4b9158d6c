package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

const settingsCollection = "settings"

// Settings holds the persisted folder references. The output folder seeds
// every new session's export destination.
type Settings struct {
	InputFolder  string `json:"input_folder"`
	OutputFolder string `json:"output_folder"`
}

// LoadSettings returns the stored settings, or zero values when none were
// saved yet.
func LoadSettings(app core.App) (Settings, error) {
	records, err := app.FindRecordsByFilter(settingsCollection, "id != ''", "-created", 1, 0)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if len(records) == 0 {
		return Settings{}, nil
	}
	return Settings{
		InputFolder:  records[0].GetString("input_folder"),
		OutputFolder: records[0].GetString("output_folder"),
	}, nil
}

// SaveSettings upserts the single settings record.
func SaveSettings(app core.App, settings Settings) error {
	records, err := app.FindRecordsByFilter(settingsCollection, "id != ''", "-created", 1, 0)
	if err != nil {
		return fmt.Errorf("find settings: %w", err)
	}

	var record *core.Record
	if len(records) > 0 {
		record = records[0]
	} else {
		col, err := app.FindCollectionByNameOrId(settingsCollection)
		if err != nil {
			return fmt.Errorf("settings collection not found: %w", err)
		}
		record = core.NewRecord(col)
	}

	record.Set("input_folder", settings.InputFolder)
	record.Set("output_folder", settings.OutputFolder)
	if err := app.Save(record); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
