package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/parafile/parafile/internal/model"
)

const classifySystemPrompt = "You are a document classification assistant. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

const extractSystemPrompt = "You are a document data extraction assistant. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// promptTextLimit caps how much document text is sent per request.
// Filing decisions rely on headers and totals, which sit early in the
// text, so the cap rarely costs accuracy.
const promptTextLimit = 6000

// requestBurst allows one document's classification and a handful of
// value extractions to go out back to back before the limiter bites.
const requestBurst = 5

// Gateway answers the two questions the organizing pipeline asks of a
// language model: which category a document belongs to, and what value
// a placeholder takes. Each answer is a single request; retrying is the
// caller's concern.
type Gateway struct {
	client  Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewGateway creates a Gateway for the configured provider.
func NewGateway(cfg Config, logger *slog.Logger) (*Gateway, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return newGatewayWithClient(client, cfg, logger), nil
}

func newGatewayWithClient(client Client, cfg Config, logger *slog.Logger) *Gateway {
	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = 60
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), requestBurst),
		logger:  logger,
	}
}

// Classify asks the model which category the document text belongs to.
// The answer is returned as-is: callers verify the category against
// their catalogue and decide what an unknown name means.
func (g *Gateway) Classify(ctx context.Context, text string, categories []model.Category) (model.ClassificationResult, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return model.ClassificationResult{}, fmt.Errorf("rate limiter: %w", err)
	}

	content, err := g.client.Complete(ctx, classifySystemPrompt, buildClassifyPrompt(text, categories))
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("classification request failed: %w", err)
	}

	result, err := parseClassification(content)
	if err != nil {
		return model.ClassificationResult{}, err
	}

	g.logger.Debug("document classified",
		"category", result.Category,
		"confidence", result.Confidence,
		"reasoning", result.Reasoning)
	return result, nil
}

// ExtractValue asks the model for the value of one naming pattern
// placeholder. The category provides context about why the value is
// needed. An empty or missing value is an error.
func (g *Gateway) ExtractValue(ctx context.Context, text string, variable model.Variable, category model.Category) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	content, err := g.client.Complete(ctx, extractSystemPrompt, buildExtractPrompt(text, variable, category))
	if err != nil {
		return "", fmt.Errorf("value extraction request failed: %w", err)
	}

	value, err := parseValue(content, variable.Name)
	if err != nil {
		return "", err
	}

	g.logger.Debug("placeholder value extracted",
		"variable", variable.Name,
		"value", value)
	return value, nil
}

// buildClassifyPrompt lists the catalogue and the document text.
func buildClassifyPrompt(text string, categories []model.Category) string {
	var b strings.Builder

	b.WriteString("Classify the document below into exactly one of the following categories.\n\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "# Category: %s\n", c.Name)
		if c.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", c.Description)
		}
		if c.NamingPattern != "" {
			fmt.Fprintf(&b, "Files here are named like: %s\n", c.NamingPattern)
		}
		b.WriteString("---\n")
	}

	fmt.Fprintf(&b, "\nIf no category is a good fit, use %q.\n", model.GeneralCategory)
	b.WriteString("\nRespond with JSON in this exact shape:\n")
	b.WriteString(`{"category": "<category name>", "confidence": <number from 0 to 100>, "reasoning": "<one short sentence>"}`)
	b.WriteString("\n\nDocument text:\n")
	b.WriteString(truncateText(text))

	return b.String()
}

// buildExtractPrompt asks for a single placeholder value.
func buildExtractPrompt(text string, variable model.Variable, category model.Category) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Extract the value of %q from the document below.\n\n", variable.Name)
	if variable.Description != "" {
		fmt.Fprintf(&b, "What it means: %s\n", variable.Description)
	}
	if variable.Type != "" {
		fmt.Fprintf(&b, "Expected type: %s\n", variable.Type)
	}

	fmt.Fprintf(&b, "\nThe document was classified as %q.", category.Name)
	if category.Description != "" {
		fmt.Fprintf(&b, " That category means: %s", category.Description)
	}
	b.WriteString("\n")
	if category.NamingPattern != "" {
		fmt.Fprintf(&b, "The value becomes part of a filename built from the pattern %q, so keep it short and filename-safe.\n", category.NamingPattern)
	}

	fmt.Fprintf(&b, "\nRespond with JSON in this exact shape:\n{%q: \"<value>\"}\n", variable.Name)
	b.WriteString("\nDocument text:\n")
	b.WriteString(truncateText(text))

	return b.String()
}

func truncateText(text string) string {
	if len(text) <= promptTextLimit {
		return text
	}
	return text[:promptTextLimit]
}
