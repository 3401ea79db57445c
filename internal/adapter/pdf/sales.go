// Package pdf renders report documents.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"grocery-delivery-service/internal/domain/report"
)

const (
	pageWidth = 180.0 // A4 minus 15mm margins
	rowHeight = 7.0
)

// SalesRenderer lays out a sales report on A4 pages.
type SalesRenderer struct {
	title string
	now   func() time.Time
}

// NewSalesRenderer creates a renderer whose documents carry title.
func NewSalesRenderer(title string) *SalesRenderer {
	return &SalesRenderer{title: title, now: time.Now}
}

// RenderSales writes the report as PDF to w.
func (r *SalesRenderer) RenderSales(w io.Writer, s *report.Sales) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetTitle(r.title, true)
	doc.SetCreationDate(r.now())
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(pageWidth, 10, tr(r.title), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(pageWidth, 6, fmt.Sprintf("%s to %s", s.From.Format("2006-01-02"), s.To.Format("2006-01-02")), "", 1, "L", false, 0, "")
	doc.Ln(4)

	section(doc, "Summary")
	summary := [][2]string{
		{"Orders", fmt.Sprintf("%d", s.TotalOrders)},
		{"Delivered", fmt.Sprintf("%d", s.DeliveredOrders)},
		{"Cancelled", fmt.Sprintf("%d", s.CancelledOrders)},
		{"Revenue", money(s.Revenue)},
		{"Delivery fees", money(s.DeliveryFees)},
		{"Average order value", money(s.AverageOrderValue)},
	}
	for _, row := range summary {
		doc.CellFormat(70, rowHeight, row[0], "1", 0, "L", false, 0, "")
		doc.CellFormat(50, rowHeight, row[1], "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	section(doc, "Daily sales")
	header(doc, []string{"Date", "Orders", "Revenue"}, []float64{60, 40, 50})
	for _, d := range s.Daily {
		doc.CellFormat(60, rowHeight, d.Date, "1", 0, "L", false, 0, "")
		doc.CellFormat(40, rowHeight, fmt.Sprintf("%d", d.Orders), "1", 0, "R", false, 0, "")
		doc.CellFormat(50, rowHeight, money(d.Revenue), "1", 1, "R", false, 0, "")
	}
	doc.Ln(4)

	section(doc, "Top products")
	if len(s.TopProducts) == 0 {
		doc.CellFormat(pageWidth, rowHeight, "No products sold in this period.", "", 1, "L", false, 0, "")
	} else {
		header(doc, []string{"Product", "Quantity", "Revenue"}, []float64{100, 30, 50})
		for _, p := range s.TopProducts {
			doc.CellFormat(100, rowHeight, tr(truncate(p.Name, 55)), "1", 0, "L", false, 0, "")
			doc.CellFormat(30, rowHeight, fmt.Sprintf("%d", p.Quantity), "1", 0, "R", false, 0, "")
			doc.CellFormat(50, rowHeight, money(p.Revenue), "1", 1, "R", false, 0, "")
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func section(doc *fpdf.Fpdf, title string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(pageWidth, 8, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
}

func header(doc *fpdf.Fpdf, cols []string, widths []float64) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		doc.CellFormat(widths[i], rowHeight, c, "1", ln, "C", true, 0, "")
	}
	doc.SetFont("Helvetica", "", 10)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
