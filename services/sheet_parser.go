package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// headerScanLimit caps how many rows are sniffed for header keywords.
// Supplier sheets put the header anywhere in the first screenful.
const headerScanLimit = 20

// ParsedInput is the structured result of reading a pick-list spreadsheet.
type ParsedInput struct {
	Items        []AssemblyItem
	ShipmentInfo string
}

// ParseSheet reads the first sheet of an xlsx workbook and extracts the item
// list plus any free-text shipment header above it. Malformed content never
// fails the parse: unusable rows are dropped and unreadable cells default to
// empty. An error is returned only when the bytes are not a workbook at all.
func ParseSheet(r io.Reader) (*ParsedInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	headerRow := -1
	articleCol, nameCol, quantityCol := -1, -1, -1
	barcodeCol, locationCol := -1, -1

	// Sniff header keywords cell by cell. Column matches are independent so
	// suppliers can order columns freely; the scan stops at the end of the
	// first row that identified the article or name column.
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}
	for rowIdx := 0; rowIdx < limit; rowIdx++ {
		for colIdx, cell := range rows[rowIdx] {
			value := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case strings.Contains(value, "артикул"):
				articleCol = colIdx
				headerRow = rowIdx
			case strings.Contains(value, "наименование"), strings.Contains(value, "название"):
				nameCol = colIdx
				headerRow = rowIdx
			case strings.Contains(value, "количество"), strings.Contains(value, "кол-во"), strings.Contains(value, "кол."):
				quantityCol = colIdx
			case strings.Contains(value, "штрихкод"), strings.Contains(value, "штрих-код"), strings.Contains(value, "баркод"):
				barcodeCol = colIdx
			case strings.Contains(value, "ячейка"), strings.Contains(value, "место"), strings.Contains(value, "локация"):
				locationCol = colIdx
			}
		}
		if headerRow >= 0 {
			break
		}
	}

	// Rows above the header carry free-text shipment metadata in column 0.
	shipmentInfo := ""
	if headerRow > 0 {
		var lines []string
		for _, row := range rows[:headerRow] {
			if len(row) == 0 {
				continue
			}
			if text := strings.TrimSpace(row[0]); text != "" {
				lines = append(lines, text)
			}
		}
		shipmentInfo = strings.Join(lines, "\n")
	}

	// No recognizable header: assume the classic article/name/quantity layout.
	if headerRow < 0 {
		headerRow = 0
		articleCol, nameCol, quantityCol = 0, 1, 2
	}

	var items []AssemblyItem
	for rowIdx := headerRow + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]

		article := cellAt(row, articleCol)
		name := cellAt(row, nameCol)
		if article == "" && name == "" {
			continue
		}

		quantity := coerceQuantity(cellAt(row, quantityCol))
		if quantity <= 0 {
			continue
		}

		items = append(items, AssemblyItem{
			Article:  article,
			Name:     name,
			Quantity: quantity,
			Barcode:  cellAt(row, barcodeCol),
			Location: cellAt(row, locationCol),
			Status:   StatusPending,
		})
	}

	return &ParsedInput{Items: items, ShipmentInfo: shipmentInfo}, nil
}

// cellAt returns the trimmed cell text, or "" when the column is unmapped or
// the row is too short.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// coerceQuantity turns loose cell text ("5", "5.0", " 12 ") into an integer
// quantity. Anything unparseable counts as zero so the row gets dropped.
func coerceQuantity(s string) int {
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0
	}
	return int(v)
}
