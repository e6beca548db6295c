// Package vision calls the external vision-language model and turns its
// reply into a normalized FaceAnalysis.
package vision

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/aurascan/aurascan/internal/analysis"
	"github.com/aurascan/aurascan/internal/config"
	"github.com/aurascan/aurascan/internal/fault"
)

// requestTimeout bounds one chat-completions call. There is no retry;
// the browser owns any retry policy.
const requestTimeout = 15 * time.Second

// Client is the outbound client for the vision provider's
// chat-completions endpoint.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	model      string
}

// NewClient builds a vision client from configuration. The client is
// usable even without an API key; Analyze then fails with a
// configuration fault, and callers can consult Configured to decide on
// the simulation fallback instead.
func NewClient(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.VisionBaseURL).
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: httpClient,
		apiKey:     cfg.VisionAPIKey,
		model:      cfg.VisionModel,
	}
}

// Configured reports whether a provider credential is present.
func (c *Client) Configured() bool { return c.apiKey != "" }

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type userContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

// chatResponse models only the slice of the provider envelope we read.
// Content stays raw because its shape varies; decodeContent handles it.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Analyze sends one image (a base64 data URL) to the vision model and
// returns the normalized analysis. Failures keep their fault kind:
// configuration when no key is set, timeout on deadline expiry, upstream
// on provider-side failure, malformed response when the reply cannot be
// parsed. Analyze never fabricates data; the simulation fallback lives
// at the HTTP boundary.
func (c *Client) Analyze(ctx context.Context, imageDataURL string) (analysis.FaceAnalysis, error) {
	if c.apiKey == "" {
		return analysis.FaceAnalysis{}, fault.New(fault.KindConfiguration, "VISION_API_KEY is not configured")
	}

	body := chatRequest{
		Model:          c.model,
		Temperature:    0,
		ResponseFormat: responseFormat{Type: "json_object"},
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []userContentPart{
				{Type: "text", Text: userInstruction},
				{Type: "image_url", ImageURL: &imageRef{URL: imageDataURL}},
			}},
		},
	}

	start := time.Now()
	res, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		if isTimeout(err) {
			return analysis.FaceAnalysis{}, fault.Wrap(fault.KindTimeout, err, "vision request timed out")
		}
		return analysis.FaceAnalysis{}, fault.Wrap(fault.KindUpstream, err, "vision request failed")
	}
	if res.IsError() {
		return analysis.FaceAnalysis{}, fault.New(fault.KindUpstream,
			"vision request failed (%d): %s", res.StatusCode(), res.String())
	}

	var envelope chatResponse
	if err := json.Unmarshal(res.Body(), &envelope); err != nil {
		return analysis.FaceAnalysis{}, fault.Wrap(fault.KindMalformedResponse, err, "invalid response envelope from vision model")
	}
	if len(envelope.Choices) == 0 {
		return analysis.FaceAnalysis{}, fault.New(fault.KindMalformedResponse, "empty response content from vision model")
	}

	parsed, err := decodeContent(envelope.Choices[0].Message.Content)
	if err != nil {
		return analysis.FaceAnalysis{}, err
	}

	result := analysis.Normalize(parsed)
	log.Debug().
		Dur("duration", time.Since(start)).
		Int("score", result.Score).
		Str("archetype", result.Archetype).
		Msg("vision analysis completed")

	return result, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
