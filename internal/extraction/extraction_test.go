package extraction

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/angelmondragon/procurement-backend/pkg/metrics"
)

type stubCompleter struct {
	reply  string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.reply, s.err
}

const acmeOffer = `ACME Offer 2024-117
Vendor Name: Acme Corp
VAT: DE123456789
Offered to: Marketing
Item   Qty   Price
Widget 3     411.33
Total: €1,234
`

func TestFallbackOfferAcmeSample(t *testing.T) {
	fields := FallbackOffer(acmeOffer)

	require.NotNil(t, fields.VendorName)
	assert.Equal(t, "Acme Corp", *fields.VendorName)
	require.NotNil(t, fields.VATID)
	assert.Equal(t, "DE123456789", *fields.VATID)
	require.NotNil(t, fields.Department)
	assert.Equal(t, "Marketing", *fields.Department)
	require.NotNil(t, fields.TotalCost)
	assert.Equal(t, "1234", fields.TotalCost.String())
	require.NotNil(t, fields.OrderLines)
	assert.Empty(t, fields.OrderLines)
}

func TestFallbackOfferUnmatchedFieldsStayNil(t *testing.T) {
	fields := FallbackOffer("nothing useful here")
	assert.Nil(t, fields.VendorName)
	assert.Nil(t, fields.VATID)
	assert.Nil(t, fields.Department)
	assert.Nil(t, fields.TotalCost)
	assert.NotNil(t, fields.OrderLines)
	assert.Empty(t, fields.OrderLines)
}

func TestFallbackOfferDecimalTotalAndDepartmentLabel(t *testing.T) {
	fields := FallbackOffer("Department: IT Operations\r\nGrand Total $ 12,500.75\n")
	require.NotNil(t, fields.Department)
	assert.Equal(t, "IT Operations", *fields.Department)
	require.NotNil(t, fields.TotalCost)
	assert.Equal(t, "12500.75", fields.TotalCost.String())
}

func TestFallbackOfferNeverProducesLines(t *testing.T) {
	text := "Vendor Name: X\nPos 1 Laptop 2 pieces 999.00 1998.00\nPos 2 Dock 2 pieces 150 300\nTotal: 2298"
	fields := FallbackOffer(text)
	assert.Empty(t, fields.OrderLines)
}

func TestParseOfferWithoutCredentialUsesFallback(t *testing.T) {
	completer := &stubCompleter{reply: `{"vendor_name":"Model Co"}`}
	parser := NewParser(completer, false, nil, nil)

	out := parser.ParseOffer(context.Background(), acmeOffer)
	assert.Equal(t, enums.OfferSourceFallback, out.Source)
	assert.Equal(t, 0, completer.calls)
	require.NotNil(t, out.Fields.VendorName)
	assert.Equal(t, "Acme Corp", *out.Fields.VendorName)
}

func TestParseOfferUsesModelReply(t *testing.T) {
	completer := &stubCompleter{reply: "```json\n" + `{
		"vendor_name": "Global Tech Solutions",
		"vat_id": "DE987654321",
		"department": null,
		"order_lines": [
			{"position_description": "Office 365", "unit_price": 15.99, "amount": "10", "unit": "licenses", "total_price": "€159.90"},
			{"position_description": "Support", "unit_price": null, "amount": 1.5, "unit": "hours", "total_price": 120}
		],
		"total_cost": 279.9
	}` + "\n```"}
	parser := NewParser(completer, true, nil, nil)

	out := parser.ParseOffer(context.Background(), "offer text body")
	require.Equal(t, enums.OfferSourceAI, out.Source)
	assert.Equal(t, 1, completer.calls)
	assert.Equal(t, offerSystemPrompt, completer.system)
	assert.Contains(t, completer.user, "Vendor Offer Text:\noffer text body")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(completer.user), "Return ONLY valid JSON, no additional text."))

	f := out.Fields
	require.NotNil(t, f.VendorName)
	assert.Equal(t, "Global Tech Solutions", *f.VendorName)
	assert.Nil(t, f.Department)
	require.NotNil(t, f.TotalCost)
	assert.Equal(t, "279.9", f.TotalCost.String())
	require.Len(t, f.OrderLines, 2)
	assert.Equal(t, "10", f.OrderLines[0].Amount.String())
	assert.Equal(t, "159.9", f.OrderLines[0].TotalPrice.String())
	assert.Nil(t, f.OrderLines[1].UnitPrice)
	assert.Equal(t, "1.5", f.OrderLines[1].Amount.String())
}

func TestParseOfferMissingFieldsMapToNilAndEmptyLines(t *testing.T) {
	parser := NewParser(&stubCompleter{reply: `{"vendor_name":"Only Name"}`}, true, nil, nil)
	out := parser.ParseOffer(context.Background(), "x")
	require.Equal(t, enums.OfferSourceAI, out.Source)
	assert.Nil(t, out.Fields.TotalCost)
	assert.NotNil(t, out.Fields.OrderLines)
	assert.Empty(t, out.Fields.OrderLines)
}

func TestParseOfferFallsBackOnCallError(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewPipelineMetrics(reg)
	parser := NewParser(&stubCompleter{err: errors.New("boom")}, true, m, nil)

	out := parser.ParseOffer(context.Background(), acmeOffer)
	assert.Equal(t, enums.OfferSourceFallback, out.Source)
	require.NotNil(t, out.Fields.VATID)
	assert.Equal(t, "DE123456789", *out.Fields.VATID)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var fallbackCount float64
	for _, mf := range mfs {
		if mf.GetName() != "offer_parse_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "source" && label.GetValue() == "fallback" {
					fallbackCount = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(1), fallbackCount)
}

func TestParseOfferFallsBackOnNonJSON(t *testing.T) {
	for _, reply := range []string{"Sorry, I cannot help.", "[1,2,3]", "null", `{"total_cost": {"nested": true}}`} {
		parser := NewParser(&stubCompleter{reply: reply}, true, nil, nil)
		out := parser.ParseOffer(context.Background(), acmeOffer)
		assert.Equal(t, enums.OfferSourceFallback, out.Source, "reply %q", reply)
	}
}

func TestNewParserWithoutCompleterDisablesModel(t *testing.T) {
	parser := NewParser(nil, true, nil, nil)
	out := parser.ParseOffer(context.Background(), "Vendor Name: Solo")
	assert.Equal(t, enums.OfferSourceFallback, out.Source)
}

func TestExtractTextRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf at all"), 0o600))

	_, err := ExtractText(context.Background(), path)
	require.Error(t, err)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.Error(t, err)
}

func TestExtractTextFromReaderTruncatedPDF(t *testing.T) {
	data := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")
	_, err := ExtractTextFromReader(context.Background(), bytes.NewReader(data), int64(len(data)))
	require.Error(t, err)
}
