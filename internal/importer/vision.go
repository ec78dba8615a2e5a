package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"tiffinbill/internal/core"
)

// DefaultVisionModel is the multimodal model used for ledger photos.
const DefaultVisionModel = "gemini-2.5-flash"

const extractionPrompt = `Analyze the provided image of an invoice or a list. Extract each line item.
For each item, identify the date and the quantity.
- The date can be in various formats (e.g., '11 Oct 2025', '11/10/25'). Standardize it to 'DD Mon YYYY' format if possible.
- The quantity might be a number like '1' or a calculation like '1+1'. If it's a calculation, keep the expression as written.

Return the data as a valid JSON array of objects. Each object must have two keys: "date" (string) and "quantity" (string). Do not include any other text or markdown formatting in your response.`

// Extractor reads dated quantities off a photographed ledger. The
// concrete implementation calls an external service; handlers and tests
// depend on this interface.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]core.ExtractedItem, error)
}

// GeminiExtractor calls the Gemini API with a response schema that
// enforces exactly the {date, quantity} string pair per element; no
// other response shape is accepted.
type GeminiExtractor struct {
	apiKey string
	model  string
}

func NewGeminiExtractor(apiKey, model string) *GeminiExtractor {
	if model == "" {
		model = DefaultVisionModel
	}
	return &GeminiExtractor{apiKey: apiKey, model: model}
}

func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) ([]core.ExtractedItem, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date": {
					Type:        genai.TypeString,
					Description: "The date of the item, formatted as DD Mon YYYY.",
				},
				"quantity": {
					Type:        genai.TypeString,
					Description: `The quantity of the item, kept as written if it is an expression like "1+1".`,
				},
			},
			Required: []string{"date", "quantity"},
		},
	}

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: image},
		genai.Text(extractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := responseText(resp)
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	var extracted []core.ExtractedItem
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &extracted); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w", err)
	}
	return extracted, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// cleanModelJSON strips Markdown fences and surrounding junk in case the
// model ignored the schema instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}

// ItemsFromExtraction turns untrusted extraction output into line items
// priced at the user-supplied unit price. Quantity expressions are
// summed per segment; lines that end up with no quantity are dropped,
// and an extraction with zero usable lines is an error.
func ItemsFromExtraction(extracted []core.ExtractedItem, unitPrice float64) ([]core.LineItem, error) {
	if !core.IsFinite(unitPrice) || unitPrice <= 0 {
		return nil, core.ErrInvalidUnitPrice
	}

	items := make([]core.LineItem, 0, len(extracted))
	for _, e := range extracted {
		qty := core.SumQuantityExpr(e.Quantity)
		if qty <= 0 {
			continue
		}
		items = append(items, core.LineItem{
			ID:    uuid.NewString(),
			Date:  e.Date,
			Qty:   float64(qty),
			Price: float64(qty) * unitPrice,
		})
	}
	if len(items) == 0 {
		return nil, core.ErrNoExtractedItems
	}
	return items, nil
}
