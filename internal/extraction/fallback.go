package extraction

import (
	"regexp"
	"strings"
)

var (
	vendorPattern     = regexp.MustCompile(`Vendor Name:\s*(.+)`)
	vatPattern        = regexp.MustCompile(`\b[A-Z]{2}\d{9}\b`)
	departmentPattern = regexp.MustCompile(`(?:Offered to|Department):\s*(.+)`)
	totalPattern      = regexp.MustCompile(`Total[^0-9\n]*?[€$£]?\s*([\d,]+(?:\.\d+)?)`)
)

// FallbackOffer pulls labelled fields out of raw offer text. It never
// produces order lines.
func FallbackOffer(text string) OfferFields {
	fields := OfferFields{OrderLines: []OfferLine{}}

	if m := vendorPattern.FindStringSubmatch(text); m != nil {
		fields.VendorName = trimmedOrNil(m[1])
	}
	if m := vatPattern.FindString(text); m != "" {
		fields.VATID = &m
	}
	if m := departmentPattern.FindStringSubmatch(text); m != nil {
		fields.Department = trimmedOrNil(m[1])
	}
	for _, m := range totalPattern.FindAllStringSubmatch(text, -1) {
		if total := parseLooseDecimal(m[1]); total != nil {
			fields.TotalCost = total
			break
		}
	}
	return fields
}

func trimmedOrNil(s string) *string {
	v := strings.TrimSpace(s)
	if v == "" {
		return nil
	}
	return &v
}
