package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

func sampleEstimate() models.Estimate {
	return models.Estimate{
		ID:              42,
		ContractorName:  "Sharma",
		ContractorEmail: "sharma@example.com",
		ContractorPhone: "+91 98765 43210",
		LicenseNumber:   "MH-2024-1187",
		ProjectTitle:    "Two Storey Villa",
		Location:        "Pune",
		Timeline:        "8 months",
		TotalCost:       4500000,
		CreatedAt:       "2026-03-01 10:00:00",
		Structured: `{
			"materials": [{"name": "Cement", "qty": 400, "rate": 380, "amount": 152000}],
			"labor": [{"name": "Masonry", "qty": 90, "rate": 900, "amount": 81000}],
			"totals": {"materials": 152000, "labor": 81000, "transport": 15000, "contingency": 20000, "grand": 4600000}
		}`,
	}
}

func TestOffsetsSinglePage(t *testing.T) {
	offsets := Offsets(200, 295)

	assert.Equal(t, []float64{0}, offsets)
}

func TestOffsetsExactPageBoundary(t *testing.T) {
	offsets := Offsets(295, 295)

	// heightLeft hits exactly zero, producing one extra page.
	require.Len(t, offsets, 2)
	assert.Equal(t, 0.0, offsets[0])
	assert.Equal(t, -295.0, offsets[1])
}

func TestOffsetsMultiPage(t *testing.T) {
	offsets := Offsets(700, 295)

	require.Len(t, offsets, 3)
	assert.Equal(t, 0.0, offsets[0])
	assert.InDelta(t, 405-700, offsets[1], 1e-9)
	assert.InDelta(t, 110-700, offsets[2], 1e-9)
}

func TestGrandTotalPrefersBreakdown(t *testing.T) {
	est := sampleEstimate()

	assert.Equal(t, 4600000.0, GrandTotal(est))
}

func TestGrandTotalFallsBackToHeadlineCost(t *testing.T) {
	est := sampleEstimate()
	est.Structured = ""

	assert.Equal(t, 4500000.0, GrandTotal(est))
}

func TestBuildDocumentContainsCoreSections(t *testing.T) {
	doc := BuildDocument(sampleEstimate())

	var joined string
	for _, l := range doc.Lines {
		joined += l.Text + "\n"
	}

	assert.Contains(t, joined, "Sharma Construction")
	assert.Contains(t, joined, "Cost Estimate Report")
	assert.Contains(t, joined, "License No: MH-2024-1187")
	assert.Contains(t, joined, "Cement")
	assert.Contains(t, joined, "Masonry")
	assert.Contains(t, joined, "Grand Total: Rs. 4600000.00")
	assert.Contains(t, joined, "Terms & Conditions")
	assert.Contains(t, joined, "Contractor Signature")
}

func TestBuildDocumentMalformedBreakdownStillRenders(t *testing.T) {
	est := sampleEstimate()
	est.Structured = "not json"

	doc := BuildDocument(est)

	var joined string
	for _, l := range doc.Lines {
		joined += l.Text + "\n"
	}
	assert.Contains(t, joined, "Grand Total: Rs. 4500000.00")
}

func TestRenderProducesImageSizedToDocument(t *testing.T) {
	r := NewTextRasterizer()
	doc := BuildDocument(sampleEstimate())

	img, err := r.Render(doc)

	require.NoError(t, err)
	assert.Equal(t, r.Width, img.Bounds().Dx())
	assert.Equal(t, r.Margin*2+len(doc.Lines)*r.LineHeight, img.Bounds().Dy())
}

func TestEstimateReportWritesPDF(t *testing.T) {
	gen := NewGenerator(NewTextRasterizer())
	var buf bytes.Buffer

	err := gen.EstimateReport(&buf, sampleEstimate())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a PDF")
}
