package enums

// OfferSource records which strategy produced a parsed vendor offer.
type OfferSource string

const (
	OfferSourceAI       OfferSource = "ai"
	OfferSourceFallback OfferSource = "fallback"
)

func (s OfferSource) String() string {
	return string(s)
}
