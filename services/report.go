package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

// ReportFileName embeds a timestamp so successive exports never collide.
func ReportFileName(now time.Time) string {
	return "Assembly_" + now.Format("2006-01-02_15-04-05") + ".xlsx"
}

// GenerateReport renders the session state into the final spreadsheet:
// a discrepancy section, the shipment header, then one block per shipping
// box listing what actually went into it. Returns the xlsx bytes.
func GenerateReport(items []AssemblyItem, shipmentInfo string, discrepancies []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Assembly"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Fixed widths; layout is never content-driven.
	columns := []string{"A", "B", "C"}
	widths := []float64{12, 24, 28}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	// Section label style: bold.
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 11,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	// Box header style: bold, white text, charcoal background, centered.
	boxHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: "#FFFFFF",
			Size:  11,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create box header style: %w", err)
	}

	// Column label style: bold with borders.
	columnStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create column style: %w", err)
	}

	// Item row style: normal with borders.
	itemStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size: 10,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	row := 1

	// ── Discrepancies ───────────────────────────────────────────────────

	if len(discrepancies) > 0 {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Discrepancies:")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		row++
		for _, d := range discrepancies {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(d))
			row++
		}
		row++ // spacer
	}

	// ── Shipment info ───────────────────────────────────────────────────

	if shipmentInfo != "" {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Shipment info:")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		row++
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sanitizeExcelCell(shipmentInfo))
		row++
		row++ // spacer
	}

	// ── Box blocks ──────────────────────────────────────────────────────

	for _, box := range boxNumbers(items) {
		boxItems := itemsInBox(items, box)
		if len(boxItems) == 0 {
			continue
		}

		header := fmt.Sprintf("A%d", row)
		if err := f.MergeCell(sheetName, header, fmt.Sprintf("C%d", row)); err != nil {
			return nil, fmt.Errorf("merge box header: %w", err)
		}
		f.SetCellValue(sheetName, header, fmt.Sprintf("Box %d", box))
		f.SetCellStyle(sheetName, header, fmt.Sprintf("C%d", row), boxHeaderStyle)
		row++

		labels := []string{"Quantity", "Article", "Barcode"}
		for i, l := range labels {
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", columns[i], row), l)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), columnStyle)
		row++

		for _, item := range boxItems {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.CollectedQuantity)
			f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), sanitizeExcelCell(item.Article))
			f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), sanitizeExcelCell(item.Barcode))
			f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), itemStyle)
			row++
		}
		row++ // spacer
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	return buf.Bytes(), nil
}

// boxNumbers returns the distinct assigned box numbers in ascending order.
func boxNumbers(items []AssemblyItem) []int {
	seen := make(map[int]bool)
	for _, item := range items {
		if item.Box > 0 {
			seen[item.Box] = true
		}
	}
	boxes := make([]int, 0, len(seen))
	for box := range seen {
		boxes = append(boxes, box)
	}
	sort.Ints(boxes)
	return boxes
}

// itemsInBox filters the items that actually shipped in the given box, in
// pick-list order.
func itemsInBox(items []AssemblyItem, box int) []AssemblyItem {
	var out []AssemblyItem
	for _, item := range items {
		if item.Box != box {
			continue
		}
		if item.Status == StatusCollected || item.Status == StatusQuantityChanged {
			out = append(out, item)
		}
	}
	return out
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
