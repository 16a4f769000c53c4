package extraction

import (
	"context"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/logger"
)

// DefaultModelName is the Gemini model used when none is configured.
const DefaultModelName = "gemini-2.5-flash"

// Generator is the slice of the Gemini API the extractor needs.
// *genai.Models satisfies it; tests substitute a fake service.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Extractor turns one statement into validated transactions by delegating
// interpretation to the model. It keeps no state between calls and is safe
// for concurrent use.
type Extractor struct {
	gen   Generator
	model string
}

// NewExtractor creates an extractor that calls model through gen.
func NewExtractor(gen Generator, model string) *Extractor {
	if model == "" {
		model = DefaultModelName
	}
	return &Extractor{gen: gen, model: model}
}

// Model returns the model name requests are sent to.
func (e *Extractor) Model() string {
	return e.model
}

// Extract sends the document to the model and returns its transactions in
// the order the model emitted them. Every call re-submits the document and
// may categorize differently from a previous call.
func (e *Extractor) Extract(ctx context.Context, document []byte, mimeType string) ([]domain.Transaction, error) {
	if len(document) == 0 {
		return nil, InvalidInput("document is empty")
	}
	if mimeType == "" {
		return nil, InvalidInput("mime type is required")
	}

	log := logger.FromContext(ctx)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(document, mimeType),
			genai.NewPartFromText(Instruction),
		}, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(),
	}

	log.Debug().
		Str("model", e.model).
		Int("document_bytes", len(document)).
		Str("mime_type", mimeType).
		Msg("Sending statement to model")

	resp, err := e.gen.GenerateContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, transportFailure(err)
	}
	if resp == nil {
		return nil, invalidResponse("", errEmptyResponse)
	}

	logUsage(ctx, resp)

	txs, err := ParseTransactions(resp.Text())
	if err != nil {
		return nil, err
	}

	log.Debug().Int("transactions", len(txs)).Msg("Model response validated")
	return txs, nil
}

func logUsage(ctx context.Context, resp *genai.GenerateContentResponse) {
	log := logger.FromContext(ctx)
	ev := log.Debug()
	if u := resp.UsageMetadata; u != nil {
		ev = ev.
			Int32("tokens_input", u.PromptTokenCount).
			Int32("tokens_output", u.CandidatesTokenCount)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		ev = ev.Str("finish_reason", string(resp.Candidates[0].FinishReason))
	}
	ev.Msg("Model call completed")
}
