// Package gemini provides a mediagen.Backend implementation using Google's
// Gemini API via the official Go SDK:
// https://github.com/googleapis/go-genai
//
// For Vertex AI or other Google Cloud backends, a separate backend
// implementation could be created using the same SDK with a different
// backend configuration.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/antcpu/mediagen"
)

// Config configures the Gemini backend.
type Config struct {
	// APIKey for authentication. If empty, the SDK falls back to the
	// GOOGLE_API_KEY or GEMINI_API_KEY environment variables.
	APIKey string
}

// Generator implements mediagen.Backend using Google's Gemini API.
type Generator struct {
	client         *genai.Client
	safetySettings []*genai.SafetySetting
	mu             sync.RWMutex
}

var _ mediagen.Backend = (*Generator)(nil)

// New creates a new Generator from a Config.
func New(ctx context.Context, config *Config) (*Generator, error) {
	if config == nil {
		config = &Config{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		client: client,
	}, nil
}

// NewWithAPIKey creates a Generator with an API key for the Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*Generator, error) {
	return New(ctx, &Config{APIKey: apiKey})
}

// Factory returns a mediagen.BackendFactory constructing a fresh client per
// call, so a rotated key takes effect on the next operation. A missing key
// is logged once as a warning; calls then fail at the network boundary.
func Factory(apiKey string) mediagen.BackendFactory {
	if apiKey == "" {
		slog.Warn("gemini API key is missing; generation calls will fail at the network boundary")
	}
	return func(ctx context.Context) (mediagen.Backend, error) {
		return NewWithAPIKey(ctx, apiKey)
	}
}

// SetSafetySettings configures default safety settings for all requests.
func (g *Generator) SetSafetySettings(settings []mediagen.SafetySetting) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.safetySettings = convertSafetySettings(settings)
	return g
}

// GenerateContent performs one immediate generation call.
func (g *Generator) GenerateContent(ctx context.Context, req *mediagen.GenerationRequest) (*mediagen.Envelope, error) {
	modelName := req.Model.String()

	contents := convertContents(req)
	genConfig := g.buildGenerateContentConfig(req)

	result, err := g.client.Models.GenerateContent(ctx, modelName, contents, genConfig)
	if err != nil {
		if rlErr := checkRateLimitError(err, modelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return parseEnvelope(result), nil
}

// StartVideo submits a video generation job and returns its handle.
func (g *Generator) StartVideo(ctx context.Context, req *mediagen.GenerationRequest) (mediagen.VideoJob, error) {
	modelName := req.Model.String()

	var image *genai.Image
	if req.StartFrame != nil {
		image = &genai.Image{
			ImageBytes: req.StartFrame.Data,
			MIMEType:   req.StartFrame.MIMEType,
		}
	}

	config := &genai.GenerateVideosConfig{}
	if tc := req.Config; tc != nil {
		config.NumberOfVideos = tc.VideoCount
		config.Resolution = tc.VideoResolution
		config.AspectRatio = string(tc.VideoAspectRatio)
	}

	op, err := g.client.Models.GenerateVideos(ctx, modelName, promptText(req), image, config)
	if err != nil {
		if rlErr := checkRateLimitError(err, modelName); rlErr != nil {
			return nil, rlErr
		}
		return nil, fmt.Errorf("video submission failed: %w", err)
	}

	return &videoJob{client: g.client, op: op}, nil
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

// videoJob wraps the SDK's long-running operation as a mediagen.VideoJob.
type videoJob struct {
	client *genai.Client
	op     *genai.GenerateVideosOperation
}

// Status returns the last fetched state without a network call.
func (j *videoJob) Status() mediagen.VideoStatus {
	status := mediagen.VideoStatus{Done: j.op.Done}
	if j.op.Done && j.op.Response != nil && len(j.op.Response.GeneratedVideos) > 0 {
		if v := j.op.Response.GeneratedVideos[0].Video; v != nil {
			status.ResultURI = v.URI
		}
	}
	return status
}

// Refresh re-fetches the operation state by handle.
func (j *videoJob) Refresh(ctx context.Context) error {
	op, err := j.client.Operations.GetVideosOperation(ctx, j.op, nil)
	if err != nil {
		return fmt.Errorf("fetching video operation: %w", err)
	}
	j.op = op
	return nil
}

// promptText joins the request's text parts in order.
func promptText(req *mediagen.GenerationRequest) string {
	var s string
	for _, part := range req.Parts {
		if !part.IsInline() {
			s += part.Text
		}
	}
	return s
}

// convertContents builds the Gemini content list: prior chat turns first,
// then the current message parts as a user turn. Part order within a turn is
// preserved, which matters for edits (image first, instruction second).
func convertContents(req *mediagen.GenerationRequest) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)

	for _, msg := range req.History {
		contents = append(contents, &genai.Content{
			Role:  msg.Role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}

	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsInline() {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{
					Data:     p.InlineData,
					MIMEType: p.MIMEType,
				},
			})
			continue
		}
		parts = append(parts, &genai.Part{Text: p.Text})
	}

	contents = append(contents, &genai.Content{
		Role:  mediagen.RoleUser,
		Parts: parts,
	})

	return contents
}

// buildGenerateContentConfig converts the route's ToolConfig to Gemini's
// GenerateContentConfig format.
func (g *Generator) buildGenerateContentConfig(req *mediagen.GenerationRequest) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{}

	if req.Kind == mediagen.KindImage || req.Kind == mediagen.KindImageEdit {
		// Enable image output
		genConfig.ResponseModalities = []string{"TEXT", "IMAGE"}
	}

	tc := req.Config
	if tc == nil {
		return genConfig
	}

	if req.AspectRatio != "" || tc.ImageSize != "" {
		imageConfig := &genai.ImageConfig{}
		if req.AspectRatio != "" {
			imageConfig.AspectRatio = string(req.AspectRatio)
		}
		if tc.ImageSize != "" {
			imageConfig.ImageSize = string(tc.ImageSize)
		}
		genConfig.ImageConfig = imageConfig
	}

	if tc.Search {
		genConfig.Tools = append(genConfig.Tools, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}
	if tc.Maps {
		genConfig.Tools = append(genConfig.Tools, &genai.Tool{GoogleMaps: &genai.GoogleMaps{}})
		if tc.RetrievalAnchor != nil {
			genConfig.ToolConfig = &genai.ToolConfig{
				RetrievalConfig: &genai.RetrievalConfig{
					LatLng: &genai.LatLng{
						Latitude:  genai.Ptr(tc.RetrievalAnchor.Latitude),
						Longitude: genai.Ptr(tc.RetrievalAnchor.Longitude),
					},
				},
			}
		}
	}

	if tc.ThinkingBudget > 0 {
		genConfig.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(tc.ThinkingBudget),
		}
	} else if tc.MaxOutputTokens > 0 {
		// An output cap conflicts with a thinking budget; only ever set one.
		genConfig.MaxOutputTokens = tc.MaxOutputTokens
	}

	if tc.Schema != nil {
		genConfig.ResponseMIMEType = "application/json"
		genConfig.ResponseSchema = convertSchema(tc.Schema)
	}

	g.mu.RLock()
	if len(g.safetySettings) > 0 {
		genConfig.SafetySettings = g.safetySettings
	}
	g.mu.RUnlock()

	return genConfig
}

// convertSchema converts a mediagen response schema to Gemini's format.
func convertSchema(rs *mediagen.ResponseSchema) *genai.Schema {
	props := make(map[string]*genai.Schema, len(rs.Properties))
	for name, pt := range rs.Properties {
		switch pt {
		case mediagen.PropertyInteger:
			props[name] = &genai.Schema{Type: genai.TypeInteger}
		case mediagen.PropertyString:
			props[name] = &genai.Schema{Type: genai.TypeString}
		case mediagen.PropertyStringArray:
			props[name] = &genai.Schema{
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			}
		}
	}

	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   rs.Required,
	}
}

// convertSafetySettings converts mediagen safety settings to Gemini's format.
func convertSafetySettings(settings []mediagen.SafetySetting) []*genai.SafetySetting {
	result := make([]*genai.SafetySetting, 0, len(settings))
	for _, s := range settings {
		result = append(result, &genai.SafetySetting{
			Category:  genai.HarmCategory(s.Category),
			Threshold: genai.HarmBlockThreshold(s.Threshold),
		})
	}
	return result
}

// parseEnvelope flattens a Gemini response into the backend-agnostic
// envelope: ordered parts plus grounding citations. Thought parts are
// dropped; they are reasoning traces, not payload.
func parseEnvelope(result *genai.GenerateContentResponse) *mediagen.Envelope {
	env := &mediagen.Envelope{}
	if result == nil {
		return env
	}

	for _, candidate := range result.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Thought {
					continue
				}

				if part.Text != "" {
					env.Parts = append(env.Parts, mediagen.ResponsePart{Text: part.Text})
				}

				if part.InlineData != nil && part.InlineData.Data != nil {
					env.Parts = append(env.Parts, mediagen.ResponsePart{
						InlineData: part.InlineData.Data,
						MIMEType:   part.InlineData.MIMEType,
					})
				}
			}
		}

		if candidate.GroundingMetadata != nil {
			env.Citations = append(env.Citations, convertCitations(candidate.GroundingMetadata)...)
		}
	}

	return env
}

// convertCitations keeps web and maps grounding sources as distinct shapes.
func convertCitations(md *genai.GroundingMetadata) []mediagen.Citation {
	var citations []mediagen.Citation
	for _, chunk := range md.GroundingChunks {
		if chunk == nil {
			continue
		}

		if chunk.Web != nil {
			citations = append(citations, mediagen.Citation{
				Web: &mediagen.WebSource{
					URI:   chunk.Web.URI,
					Title: chunk.Web.Title,
				},
			})
		}

		if chunk.Maps != nil {
			citations = append(citations, mediagen.Citation{
				Maps: &mediagen.MapsSource{
					URI:     chunk.Maps.URI,
					Title:   chunk.Maps.Title,
					PlaceID: chunk.Maps.PlaceID,
				},
			})
		}
	}
	return citations
}

// checkRateLimitError checks if an error from the Gemini API is a rate limit
// error. If so, it wraps it in a RateLimitError for standardized handling;
// otherwise returns nil and the caller keeps the original error.
func checkRateLimitError(err error, model string) error {
	if err == nil {
		return nil
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	if apiErr.Code != 429 && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}

	return &mediagen.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
