package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateReportPDF renders the same report sections as GenerateReport as a
// PDF document for sharing without a spreadsheet viewer.
func GenerateReportPDF(items []AssemblyItem, shipmentInfo string, discrepancies []string, now time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addReportTitle(m, now)
	addDiscrepancySection(m, discrepancies)
	addShipmentSection(m, shipmentInfo)

	for _, box := range boxNumbers(items) {
		boxItems := itemsInBox(items, box)
		if len(boxItems) == 0 {
			continue
		}
		addBoxTable(m, box, boxItems)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

// addReportTitle adds the document title and generation date.
func addReportTitle(m core.Maroto, now time.Time) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Assembly Report", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Generated on %s", now.Format("2006-01-02 15:04:05")), props.Text{
					Size:  8,
					Align: align.Center,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

// addDiscrepancySection lists the skip/change lines, one per row.
func addDiscrepancySection(m core.Maroto, discrepancies []string) {
	if len(discrepancies) == 0 {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Discrepancies:", props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)
	for _, d := range discrepancies {
		m.AddRows(
			row.New(6).Add(
				col.New(12).Add(
					text.New(d, props.Text{
						Size:  8,
						Align: align.Left,
					}),
				),
			),
		)
	}
	m.AddRows(row.New(4))
}

// addShipmentSection prints the free-text shipment header from the input sheet.
func addShipmentSection(m core.Maroto, shipmentInfo string) {
	if shipmentInfo == "" {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New("Shipment info:", props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(shipmentInfo, props.Text{
					Size:  8,
					Align: align.Left,
				}),
			),
		),
	)
	m.AddRows(row.New(4))
}

// addBoxTable renders one shipping box as a header plus its item rows.
func addBoxTable(m core.Maroto, box int, items []AssemblyItem) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Box %d", box), headerText),
			).WithStyle(&headerCell),
		),
	)

	labelText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
	}
	m.AddRows(
		row.New(7).Add(
			col.New(2).Add(text.New("Quantity", labelText)),
			col.New(5).Add(text.New("Article", labelText)),
			col.New(5).Add(text.New("Barcode", labelText)),
		),
	)

	rowText := props.Text{
		Size:  8,
		Align: align.Left,
	}
	for _, item := range items {
		m.AddRows(
			row.New(6).Add(
				col.New(2).Add(text.New(fmt.Sprintf("%d", item.CollectedQuantity), rowText)),
				col.New(5).Add(text.New(item.Article, rowText)),
				col.New(5).Add(text.New(item.Barcode, rowText)),
			),
		)
	}
	m.AddRows(row.New(4))
}
