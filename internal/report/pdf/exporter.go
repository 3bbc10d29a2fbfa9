// Package pdf renders a report document into a paginated A4 PDF: a title,
// a summary table, one detail table per day and page-number footers.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report"
)

const (
	fontName = "SimHei"

	leftMargin     = 14.0
	pageBreakY     = 270.0 // start a new page when a day section would begin below this
	footerY        = 290.0
	summaryPadding = 4.0
)

type Exporter struct {
	fonts FontProvider
}

func NewExporter(fonts FontProvider) *Exporter {
	return &Exporter{fonts: fonts}
}

// Render produces the PDF bytes for a document. A font-provider failure
// aborts the whole export; no partial document is produced.
func (e *Exporter) Render(ctx context.Context, doc report.Document) ([]byte, error) {
	fontBytes, err := e.fonts.Font(ctx)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	p := fpdf.New("P", "mm", "A4", "")
	// The same TTF backs every style so bold and italic cells never fall
	// back to a glyphless core font.
	p.AddUTF8FontFromBytes(fontName, "", fontBytes)
	p.AddUTF8FontFromBytes(fontName, "B", fontBytes)
	p.AddUTF8FontFromBytes(fontName, "I", fontBytes)

	p.AliasNbPages("")
	p.SetFooterFunc(func() {
		p.SetY(footerY)
		p.SetFont(fontName, "", 8)
		p.SetTextColor(150, 150, 150)
		p.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", p.PageNo()), "", 0, "C", false, 0, "")
	})
	p.SetAutoPageBreak(true, 297-footerY)
	p.AddPage()

	pageWidth, _ := p.GetPageSize()
	usable := pageWidth - 2*leftMargin

	// Header.
	p.SetY(20)
	p.SetFont(fontName, "", 22)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(0, 10, "Stone Record 液体平衡报告", "", 1, "C", false, 0, "")
	p.SetFont(fontName, "", 10)
	p.SetTextColor(80, 80, 80)
	p.CellFormat(0, 6, fmt.Sprintf("Range / 周期: %s - %s (%s)", doc.StartDate, doc.EndDate, doc.Period), "", 1, "C", false, 0, "")
	p.Ln(4)

	e.renderSummaryTable(p, doc, usable)
	p.Ln(10)

	for _, day := range doc.Days {
		if p.GetY() > pageBreakY {
			p.AddPage()
			p.SetY(20)
		}
		e.renderDaySection(p, day, pageWidth, usable)
	}

	if p.Err() {
		return nil, fmt.Errorf("render pdf: %w", p.Error())
	}
	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) renderSummaryTable(p *fpdf.Fpdf, doc report.Document, usable float64) {
	headers := []string{"Total In (总入)", "Total Out (总出)", "Balance (净平衡)", "Avg (日均)"}
	sign := ""
	if doc.NetBalance > 0 {
		sign = "+"
	}
	values := []string{
		fmt.Sprintf("+%v mL", doc.TotalIn),
		fmt.Sprintf("-%v mL", doc.TotalOut),
		fmt.Sprintf("%s%v mL", sign, doc.NetBalance),
		fmt.Sprintf("%v mL/day", doc.AvgBalance),
	}

	colWidth := usable / float64(len(headers))
	p.SetX(leftMargin)
	p.SetFont(fontName, "B", 11)
	p.SetFillColor(240, 240, 240)
	p.SetTextColor(0, 0, 0)
	p.SetDrawColor(0, 0, 0)
	for _, h := range headers {
		p.CellFormat(colWidth, 8+summaryPadding, h, "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)

	p.SetX(leftMargin)
	p.SetFont(fontName, "", 11)
	p.SetTextColor(20, 20, 20)
	for _, v := range values {
		p.CellFormat(colWidth, 8+summaryPadding, v, "1", 0, "C", false, 0, "")
	}
	p.Ln(-1)
}

func (e *Exporter) renderDaySection(p *fpdf.Fpdf, day report.DaySection, pageWidth, usable float64) {
	// Day header: date on the left, summary right-aligned.
	p.SetX(leftMargin)
	p.SetFont(fontName, "B", 12)
	p.SetTextColor(0, 0, 0)
	p.CellFormat(40, 6, day.Date, "", 0, "L", false, 0, "")
	p.SetFont(fontName, "", 10)
	p.SetTextColor(100, 100, 100)
	p.CellFormat(usable-40, 6, day.Summary, "", 1, "R", false, 0, "")
	p.Ln(1)

	headers := []string{"Time", "Type", "Item (项目)", "Amount (mL)", "Note (备注)"}
	widths := []float64{25, 20, 40, 30, usable - 115}

	p.SetX(leftMargin)
	p.SetFont(fontName, "B", 10)
	p.SetTextColor(0, 0, 0)
	p.SetDrawColor(200, 200, 200)
	for i, h := range headers {
		p.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
	}
	p.Ln(-1)

	for _, row := range day.Rows {
		if p.GetY() > pageBreakY {
			p.AddPage()
			p.SetY(20)
		}
		p.SetX(leftMargin)
		for i := 0; i < len(widths); i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			style, align := "", "L"
			r, g, b := 50, 50, 50
			switch i {
			case 1:
				style = "B"
				// Color-coded flow direction.
				if cell == "IN" || cell == "入量" {
					r, g, b = 0, 150, 0
				} else if cell == "OUT" || cell == "出量" {
					r, g, b = 200, 50, 50
				}
			case 3:
				align = "R"
			case 4:
				style = "I"
				r, g, b = 100, 100, 100
			}
			p.SetFont(fontName, style, 10)
			p.SetTextColor(r, g, b)
			p.CellFormat(widths[i], 6, cell, "B", 0, align, false, 0, "")
		}
		p.Ln(-1)
	}
	p.Ln(8)
}
