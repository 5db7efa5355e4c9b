package seo

import (
	"encoding/json"

	"github.com/aman-yadav7052/hari-pathology/internal/catalog"
)

// JSON marshals v to a compact JSON string. It returns an empty string on error.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// MedicalLab returns a DiagnosticLab schema for the lab.
func MedicalLab(name, url, phone, address string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "DiagnosticLab",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if phone != "" {
		m["telephone"] = phone
	}
	if address != "" {
		m["address"] = map[string]any{"@type": "PostalAddress", "streetAddress": address}
	}
	return m
}

// TestOffers lists the price list as an OfferCatalog.
func TestOffers(name string, records []catalog.TestRecord) map[string]any {
	items := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		items = append(items, map[string]any{
			"@type":         "Offer",
			"price":         rec.Price,
			"priceCurrency": "INR",
			"category":      rec.Category.String(),
			"itemOffered": map[string]any{
				"@type":       "MedicalTest",
				"name":        rec.Name,
				"description": rec.Description,
			},
		})
	}
	return map[string]any{
		"@context":        "https://schema.org",
		"@type":           "OfferCatalog",
		"name":            name,
		"itemListElement": items,
	}
}
