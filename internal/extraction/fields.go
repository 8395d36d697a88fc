package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// OfferFields is the structured guess for a vendor offer. Any field may be nil.
type OfferFields struct {
	VendorName *string
	VATID      *string
	Department *string
	OrderLines []OfferLine
	TotalCost  *decimal.Decimal
}

// OfferLine is one item found in an offer.
type OfferLine struct {
	PositionDescription *string
	UnitPrice           *decimal.Decimal
	Amount              *decimal.Decimal
	Unit                *string
	TotalPrice          *decimal.Decimal
}

// Outcome tags the fields with the strategy that produced them.
type Outcome struct {
	Source enums.OfferSource
	Fields OfferFields
}

type rawOffer struct {
	VendorName *string    `json:"vendor_name"`
	VATID      *string    `json:"vat_id"`
	Department *string    `json:"department"`
	OrderLines []rawLine  `json:"order_lines"`
	TotalCost  flexNumber `json:"total_cost"`
}

type rawLine struct {
	PositionDescription *string    `json:"position_description"`
	UnitPrice           flexNumber `json:"unit_price"`
	Amount              flexNumber `json:"amount"`
	Unit                *string    `json:"unit"`
	TotalPrice          flexNumber `json:"total_price"`
}

// flexNumber accepts a JSON number, a numeric string, or null. Strings that do
// not hold a number decode to nil instead of failing the whole document.
type flexNumber struct {
	value *decimal.Decimal
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		n.value = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.value = parseLooseDecimal(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid number %s: %w", string(data), err)
	}
	n.value = &d
	return nil
}

var currencyStripper = strings.NewReplacer("€", "", "$", "", "£", "", ",", "", " ", "")

func parseLooseDecimal(s string) *decimal.Decimal {
	clean := currencyStripper.Replace(strings.TrimSpace(s))
	if clean == "" {
		return nil
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return nil
	}
	return &d
}

// decodeOffer parses a model reply into offer fields.
func decodeOffer(content string) (OfferFields, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return OfferFields{}, fmt.Errorf("offer reply is not a JSON object")
	}
	var raw rawOffer
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return OfferFields{}, fmt.Errorf("decode offer reply: %w", err)
	}

	fields := OfferFields{
		VendorName: nonEmpty(raw.VendorName),
		VATID:      nonEmpty(raw.VATID),
		Department: nonEmpty(raw.Department),
		TotalCost:  raw.TotalCost.value,
		OrderLines: make([]OfferLine, 0, len(raw.OrderLines)),
	}
	for _, line := range raw.OrderLines {
		fields.OrderLines = append(fields.OrderLines, OfferLine{
			PositionDescription: nonEmpty(line.PositionDescription),
			UnitPrice:           line.UnitPrice.value,
			Amount:              line.Amount.value,
			Unit:                nonEmpty(line.Unit),
			TotalPrice:          line.TotalPrice.value,
		})
	}
	return fields, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
