package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"herbal-infusion-ai/internal/shared"
)

const (
	// ModelName is the fixed Gemini model identifier. Not user-configurable.
	ModelName = "gemini-2.5-flash-preview-04-17"

	temperature = 0.7
)

// geminiClient is a client for the Google Gemini API. The API key is read
// per call so that a key saved or cleared at runtime takes effect without
// rebuilding the client.
type geminiClient struct {
	apiKey func() string
}

// NewGeminiClient creates a Gemini-backed TextGenerator. apiKey is consulted
// on every call and must return the currently adopted key.
func NewGeminiClient(apiKey func() string) TextGenerator {
	return &geminiClient{apiKey: apiKey}
}

// GenerateContent sends a prompt to the Gemini model and returns the
// generated text. Errors are classified into the failure taxonomy.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey()))
	if err != nil {
		return ContentResponse{}, classifyGenerateError(fmt.Errorf("failed to create Gemini client: %w", err))
	}
	defer client.Close()

	model := client.GenerativeModel(ModelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, classifyGenerateError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, shared.NewFailure(shared.FailureUnknown, "The model returned no content. Please try again.")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ContentResponse{}, shared.NewFailure(shared.FailureUnknown, "The model returned non-text content. Please try again.")
	}

	out := ContentResponse{Content: string(text)}
	if resp.UsageMetadata != nil {
		out.Usage = shared.TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
			Model:            ModelName,
		}
	}
	return out, nil
}

// classifyGenerateError maps a Gemini call error onto the failure taxonomy.
// Structured errors are inspected first; the message-substring checks are a
// fallback because the SDK does not surface every rejection in a typed form.
func classifyGenerateError(err error) *shared.Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return shared.WrapFailure(shared.FailureTimeout, "Recipe generation timed out. Please try again.", err)
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		message := "The content could not be generated due to safety settings."
		if blocked.PromptFeedback != nil && blocked.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			message += fmt.Sprintf(" Reason: %s.", blocked.PromptFeedback.BlockReason)
		} else {
			message += " Try modifying your request."
		}
		return shared.WrapFailure(shared.FailureContentBlocked, message, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return shared.WrapFailure(shared.FailureQuotaExceeded, "API quota exceeded. Please try again later or check your API plan.", err)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "API key"):
			return shared.WrapFailure(shared.FailureCredentialRejected, "The provided API key was rejected by Google. Please check your key and try again.", err)
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return shared.WrapFailure(shared.FailureCredentialRejected, "The provided API key was rejected by Google. Please check your key and try again.", err)
		}
	}

	text := strings.ToLower(err.Error())
	switch {
	case strings.Contains(text, "api key not valid"), strings.Contains(text, "api key is invalid"), strings.Contains(text, "api_key_invalid"):
		return shared.WrapFailure(shared.FailureCredentialRejected, "The provided API key was rejected by Google. Please check your key and try again.", err)
	case strings.Contains(text, "quota"), strings.Contains(text, "resource_exhausted"):
		return shared.WrapFailure(shared.FailureQuotaExceeded, "API quota exceeded. Please try again later or check your API plan.", err)
	case strings.Contains(text, "safety"):
		return shared.WrapFailure(shared.FailureContentBlocked, "The content could not be generated due to safety settings. Try modifying your request.", err)
	}

	return shared.WrapFailure(shared.FailureUnknown, fmt.Sprintf("Recipe generation failed: %v", err), err)
}
