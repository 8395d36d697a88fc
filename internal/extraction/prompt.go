package extraction

import "strings"

const offerSystemPrompt = "You are a data extraction assistant. Always return valid JSON."

const offerPromptHeader = `
You are an AI assistant helping to extract procurement information from vendor offers.
Extract the following information from the text below and return it as a JSON object:

- vendor_name: Name of the vendor/company
- vat_id: VAT ID (Umsatzsteuer-Identifikationsnummer), usually starts with country code like DE
- department: Department name if mentioned (look for phrases like "Offered to:", "Department:", etc.)
- order_lines: Array of items with:
  - position_description: Product/service name
  - unit_price: Price per unit (as number, without currency symbol)
  - amount: Quantity (as number, can be fractional like 1.5 or 2.75)
  - unit: Unit of measure (e.g., "licenses", "pieces", "units", "kg", "hours")
  - total_price: Total for this line (as number)
- total_cost: Total cost of the entire offer (as number)

If any field is not found, use null for that field.
For prices, extract only the numeric value without currency symbols.

Vendor Offer Text:
`

const offerPromptFooter = `

Return ONLY valid JSON, no additional text.
`

func buildOfferPrompt(text string) string {
	var b strings.Builder
	b.Grow(len(offerPromptHeader) + len(text) + len(offerPromptFooter))
	b.WriteString(offerPromptHeader)
	b.WriteString(text)
	b.WriteString(offerPromptFooter)
	return b.String()
}
