package report

import (
	"fmt"
	"strings"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// Line styles.
const (
	StyleTitle   = "title"
	StyleHeading = "heading"
	StyleNormal  = "normal"
	StyleMuted   = "muted"
	StyleRule    = "rule"
)

// Line is one rendered row of the report.
type Line struct {
	Text  string
	Style string
}

// Document is the laid-out estimate report, ready for rasterization.
type Document struct {
	Lines []Line
}

func (d *Document) add(style, format string, args ...interface{}) {
	d.Lines = append(d.Lines, Line{Text: fmt.Sprintf(format, args...), Style: style})
}

func (d *Document) rule() {
	d.Lines = append(d.Lines, Line{Style: StyleRule})
}

func (d *Document) blank() {
	d.Lines = append(d.Lines, Line{Style: StyleNormal})
}

var defaultTerms = []string{
	"1. This estimate is valid for 30 days from the date of issue.",
	"2. Material prices are subject to market fluctuation.",
	"3. Payment schedule as agreed between both parties.",
	"4. Any scope changes will be estimated separately.",
}

// BuildDocument lays out the cost estimate report for an estimate. The grand
// total falls back to the estimate's headline cost when the structured
// breakdown omits it.
func BuildDocument(est models.Estimate) Document {
	var doc Document
	breakdown := est.Breakdown()

	// Header: contractor identity.
	name := est.ContractorName
	if name == "" {
		name = "Contractor"
	}
	doc.add(StyleTitle, "%s Construction", name)
	if est.ContractorEmail != "" {
		doc.add(StyleMuted, "Email: %s", est.ContractorEmail)
	}
	if est.ContractorPhone != "" {
		doc.add(StyleMuted, "Phone: %s", est.ContractorPhone)
	}
	if est.LicenseNumber != "" {
		doc.add(StyleMuted, "License No: %s", est.LicenseNumber)
	}
	doc.rule()

	doc.add(StyleTitle, "Cost Estimate Report")
	doc.blank()

	// Project details grid.
	doc.add(StyleHeading, "Project Details")
	doc.add(StyleNormal, "Estimate ID: #%d", est.ID.Int64())
	if est.ProjectTitle != "" {
		doc.add(StyleNormal, "Project: %s", est.ProjectTitle)
	}
	if est.Location != "" {
		doc.add(StyleNormal, "Location: %s", est.Location)
	}
	if est.Timeline != "" {
		doc.add(StyleNormal, "Timeline: %s", est.Timeline)
	}
	if est.CreatedAt != "" {
		doc.add(StyleNormal, "Date: %s", est.CreatedAt)
	}
	doc.blank()

	section(&doc, "Materials", breakdown.Materials)
	section(&doc, "Labor", breakdown.Labor)
	section(&doc, "Utilities", breakdown.Utilities)
	section(&doc, "Miscellaneous", breakdown.Misc)

	// Totals.
	doc.add(StyleHeading, "Totals")
	totalRow(&doc, "Materials", breakdown.Totals.Materials.Float64())
	totalRow(&doc, "Labor", breakdown.Totals.Labor.Float64())
	totalRow(&doc, "Utilities", breakdown.Totals.Utilities.Float64())
	totalRow(&doc, "Miscellaneous", breakdown.Totals.Misc.Float64())
	totalRow(&doc, "Transport", breakdown.Totals.Transport.Float64())
	totalRow(&doc, "Contingency", breakdown.Totals.Contingency.Float64())
	doc.rule()
	doc.add(StyleHeading, "Grand Total: %s", rupees(GrandTotal(est)))
	doc.blank()

	// Terms and conditions.
	doc.add(StyleHeading, "Terms & Conditions")
	terms := breakdown.Terms
	if len(terms) == 0 {
		terms = defaultTerms
	}
	for _, term := range terms {
		doc.add(StyleMuted, "%s", term)
	}
	doc.blank()
	doc.blank()

	// Signature blocks.
	doc.add(StyleNormal, "_____________________          _____________________")
	doc.add(StyleMuted, "Contractor Signature           Homeowner Signature")
	doc.blank()

	doc.add(StyleMuted, "Generated by BuildHub on behalf of %s Construction", name)

	return doc
}

// GrandTotal resolves the report's bottom line.
func GrandTotal(est models.Estimate) float64 {
	if g := est.Breakdown().Totals.Grand.Float64(); g > 0 {
		return g
	}
	return est.TotalCost.Float64()
}

func section(doc *Document, title string, items []models.LineItem) {
	if len(items) == 0 {
		return
	}
	doc.add(StyleHeading, "%s", title)
	doc.add(StyleMuted, "%-30s %8s %12s %14s", "Item", "Qty", "Rate", "Amount")
	for _, item := range items {
		doc.add(StyleNormal, "%-30s %8.2f %12.2f %14.2f",
			truncate(item.Name, 30), item.Qty.Float64(), item.Rate.Float64(), item.Amount.Float64())
	}
	doc.blank()
}

func totalRow(doc *Document, label string, amount float64) {
	if amount == 0 {
		return
	}
	doc.add(StyleNormal, "%-30s %s", label, rupees(amount))
}

func rupees(amount float64) string {
	return fmt.Sprintf("Rs. %.2f", amount)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "…"
}
