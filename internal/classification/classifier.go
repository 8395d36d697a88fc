package classification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/procurement-backend/internal/commodities"
	"github.com/angelmondragon/procurement-backend/pkg/enums"
	"github.com/angelmondragon/procurement-backend/pkg/llm"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
	"github.com/angelmondragon/procurement-backend/pkg/metrics"
)

const systemPrompt = "You are a classification assistant. Always return valid JSON."

// Result is the chosen commodity group. Both pointers are nil when the
// model could not be used.
type Result struct {
	CommodityGroupID *string
	CommodityGroup   *string
	Confidence       enums.Confidence
}

// Degraded is the result returned whenever classification is unavailable.
func Degraded() Result {
	return Result{Confidence: enums.ConfidenceLow}
}

// Classifier picks a commodity group for a request.
type Classifier interface {
	Classify(ctx context.Context, title string, descriptions []string) Result
}

type modelClassifier struct {
	completer llm.Completer
	enabled   bool
	groups    []commodities.CommodityGroup
	metrics   *metrics.PipelineMetrics
	logg      *logger.Logger
}

// New returns a model-backed classifier. When enabled is false every call
// returns the degraded result without contacting the model.
func New(completer llm.Completer, enabled bool, groups []commodities.CommodityGroup, m *metrics.PipelineMetrics, logg *logger.Logger) Classifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &modelClassifier{
		completer: completer,
		enabled:   enabled && completer != nil,
		groups:    groups,
		metrics:   m,
		logg:      logg,
	}
}

func (c *modelClassifier) Classify(ctx context.Context, title string, descriptions []string) Result {
	if !c.enabled {
		c.metrics.IncClassification(metrics.ClassificationDegraded)
		return Degraded()
	}

	start := time.Now()
	reply, err := c.completer.Complete(ctx, systemPrompt, buildPrompt(title, descriptions, c.groups))
	c.metrics.ObserveLLM("classify", err == nil, time.Since(start))
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "classification call failed")
		c.metrics.IncClassification(metrics.ClassificationDegraded)
		return Degraded()
	}

	result, err := decodeResult(llm.StripCodeFences(reply))
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "classification reply unparseable")
		c.metrics.IncClassification(metrics.ClassificationDegraded)
		return Degraded()
	}
	c.metrics.IncClassification(metrics.ClassificationClassified)
	return result
}

type rawResult struct {
	CommodityGroupID *string `json:"commodity_group_id"`
	CommodityGroup   *string `json:"commodity_group"`
	Confidence       *string `json:"confidence"`
}

func decodeResult(content string) (Result, error) {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return Result{}, fmt.Errorf("classification reply is not a JSON object")
	}
	var raw rawResult
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return Result{}, fmt.Errorf("decode classification reply: %w", err)
	}
	out := Result{
		CommodityGroupID: trimmedOrNil(raw.CommodityGroupID),
		CommodityGroup:   trimmedOrNil(raw.CommodityGroup),
		Confidence:       enums.ConfidenceLow,
	}
	if raw.Confidence != nil {
		out.Confidence = enums.NormalizeConfidence(*raw.Confidence)
	}
	return out, nil
}

func buildPrompt(title string, descriptions []string, groups []commodities.CommodityGroup) string {
	items := make([]string, 0, len(descriptions))
	for _, d := range descriptions {
		items = append(items, "- "+d)
	}
	catalog := make([]string, 0, len(groups))
	for _, g := range groups {
		catalog = append(catalog, g.ID+": "+g.Label())
	}

	var b strings.Builder
	b.WriteString("\nYou are a procurement classification assistant. Based on the request title and items, classify it into the most appropriate commodity group.\n\n")
	b.WriteString("Request Title: " + title + "\n\n")
	b.WriteString("Items:\n" + strings.Join(items, "\n") + "\n\n")
	b.WriteString("Available Commodity Groups:\n" + strings.Join(catalog, "\n") + "\n\n")
	b.WriteString("Return ONLY a JSON object with:\n")
	b.WriteString("- commodity_group_id: The ID (e.g., \"031\")\n")
	b.WriteString("- commodity_group: The full name (e.g., \"Software\")\n")
	b.WriteString("- confidence: Your confidence level (high/medium/low)\n\n")
	b.WriteString("Return ONLY valid JSON, no additional text.\n")
	return b.String()
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
