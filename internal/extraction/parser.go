package extraction

import (
	"context"
	"time"

	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/angelmondragon/procurement-backend/pkg/llm"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
	"github.com/angelmondragon/procurement-backend/pkg/metrics"
)

// Parser turns extracted offer text into structured fields, using the
// language model when available and the pattern extractor otherwise.
type Parser struct {
	completer llm.Completer
	aiEnabled bool
	metrics   *metrics.PipelineMetrics
	logg      *logger.Logger
}

// NewParser wires a parser. aiEnabled should be false when no usable
// credential is configured; the completer is then never called.
func NewParser(completer llm.Completer, aiEnabled bool, m *metrics.PipelineMetrics, logg *logger.Logger) *Parser {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Parser{
		completer: completer,
		aiEnabled: aiEnabled && completer != nil,
		metrics:   m,
		logg:      logg,
	}
}

// ParseOffer never fails; a degraded result comes from the fallback extractor.
func (p *Parser) ParseOffer(ctx context.Context, text string) Outcome {
	if p.aiEnabled {
		if fields, ok := p.parseWithModel(ctx, text); ok {
			p.metrics.IncOffer(enums.OfferSourceAI.String())
			return Outcome{Source: enums.OfferSourceAI, Fields: fields}
		}
	}
	p.metrics.IncOffer(enums.OfferSourceFallback.String())
	return Outcome{Source: enums.OfferSourceFallback, Fields: FallbackOffer(text)}
}

func (p *Parser) parseWithModel(ctx context.Context, text string) (OfferFields, bool) {
	ctx = p.logg.WithField(ctx, "text_len", len(text))
	start := time.Now()
	reply, err := p.completer.Complete(ctx, offerSystemPrompt, buildOfferPrompt(text))
	p.metrics.ObserveLLM("extract", err == nil, time.Since(start))
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "offer extraction call failed; using fallback")
		return OfferFields{}, false
	}

	fields, err := decodeOffer(llm.StripCodeFences(reply))
	if err != nil {
		p.logg.Warn(p.logg.WithField(ctx, "error", err.Error()), "offer extraction reply unparseable; using fallback")
		return OfferFields{}, false
	}
	p.logg.Info(ctx, "offer extracted by model")
	return fields, true
}
