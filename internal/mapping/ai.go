package mapping

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pricebook/internal/logger"
)

// Suggester asks Gemini to pair export headers with canonical fields. Its
// output is only ever a suggestion: everything it returns is pre-filled into
// the TUI for a human to confirm or reject.
type Suggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

const suggestTimeout = 60 * time.Second

// NewSuggester creates a Gemini-backed suggester.
func NewSuggester(apiKey string) (*Suggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	modelName := "gemini-2.0-flash-exp"
	model := client.GenerativeModel(modelName)
	// Low temperature for repeatable mappings.
	model.SetTemperature(0.1)

	logger.Info("Suggester initialized", "model", modelName)
	return &Suggester{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (s *Suggester) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Suggest returns header -> field suggestions for the given export headers.
// Headers the model is unsure about are simply absent from the result.
func (s *Suggester) Suggest(headers []string) (map[string]Field, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no headers to map")
	}

	prompt := buildPrompt(headers)
	logger.Info("Requesting mapping suggestions", "headers", len(headers), "prompt_length", len(prompt))

	ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.Error("Gemini request failed", "error", err)
		return nil, fmt.Errorf("failed to generate suggestions: %v", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	logger.Debug("Gemini response", "content", text)

	suggestions := parseSuggestions(text, headers)
	logger.Info("Parsed mapping suggestions", "count", len(suggestions))
	return suggestions, nil
}

func buildPrompt(headers []string) string {
	var b strings.Builder
	b.WriteString(`You are mapping spreadsheet column headers from a cemetery property
inventory export to a fixed set of canonical fields.

HEADERS (from the export):
`)
	for _, h := range headers {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	b.WriteString("\nCANONICAL FIELDS:\n")
	for _, f := range Fields() {
		fmt.Fprintf(&b, "- %s\n", f)
	}

	b.WriteString(`
INSTRUCTIONS:
1. Only suggest mappings you are confident about (>80% certainty)
2. Consider semantic meaning, not just text similarity
3. Map each header to AT MOST ONE field
4. If uncertain or no clear match exists, use "NO_MATCH"

OUTPUT FORMAT (one line per header):
Header|Field|Confidence

EXAMPLES:
Property Section|Section|0.95
Space #|Space|0.90
Stuff|NO_MATCH|0.00

Now provide mappings for the headers:`)
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response generated")
	}
	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}

// parseSuggestions reads the pipe-delimited response, dropping NO_MATCH
// lines, low-confidence lines, unknown field names and headers that were
// never in the request.
func parseSuggestions(response string, headers []string) map[string]Field {
	known := make(map[string]bool, len(headers))
	for _, h := range headers {
		known[NormalizeHeader(h)] = true
	}
	validFields := make(map[string]Field)
	for _, f := range Fields() {
		validFields[strings.ToUpper(string(f))] = f
	}

	out := make(map[string]Field)
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "Header|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}

		header := strings.TrimSpace(parts[0])
		fieldName := strings.TrimSpace(parts[1])
		var confidence float64
		fmt.Sscanf(strings.TrimSpace(parts[2]), "%f", &confidence)

		if fieldName == "NO_MATCH" || confidence < 0.8 {
			continue
		}
		field, ok := validFields[strings.ToUpper(fieldName)]
		if !ok {
			logger.Debug("Dropping suggestion with unknown field", "header", header, "field", fieldName)
			continue
		}
		if !known[NormalizeHeader(header)] {
			logger.Debug("Dropping suggestion for unknown header", "header", header)
			continue
		}
		out[header] = field
	}
	return out
}

// GeminiAPIKey reads the API key from the environment.
func GeminiAPIKey() string {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		logger.Warn("GEMINI_API_KEY environment variable not set")
	}
	return key
}
