package payment

import (
	"strconv"

	"github.com/buildhub/homeowner-gateway/internal/models"
)

// Price fallback for designs without an architect-set view price.
const (
	basePrice    = 8000.0
	pricePerSqft = 10.0
)

// DesignSqft resolves the design's area, trying the direct fields first, then
// the technical details blob, then meta.
func DesignSqft(d models.Design) float64 {
	if v := d.Sqft.Float64(); v > 0 {
		return v
	}
	if v := d.Area.Float64(); v > 0 {
		return v
	}
	if v := mapFloat(d.Technical, "sqft", "area_sqft", "total_sqft", "totalSqft"); v > 0 {
		return v
	}
	if v := mapFloat(d.Meta, "sqft", "area_sqft"); v > 0 {
		return v
	}
	return 0
}

// DesignPrice is the unlock price in rupees: the architect's view price when
// set, otherwise a base fee plus a per-sqft rate. An unresolvable area still
// yields the base fee.
func DesignPrice(d models.Design) float64 {
	if v := d.ViewPrice.Float64(); v > 0 {
		return v
	}
	return basePrice + DesignSqft(d)*pricePerSqft
}

func mapFloat(m map[string]any, keys ...string) float64 {
	if m == nil {
		return 0
	}
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v > 0 {
				return v
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
		}
	}
	return 0
}
