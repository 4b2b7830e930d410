package mediagen

// Model identifies a concrete backend model.
type Model string

const (
	// ModelImagePro is the high-capability image model. It is the only model
	// that accepts an explicit image size hint.
	ModelImagePro Model = "gemini-3-pro-image-preview"

	// ModelImageFlash is the fast image model, also used for edits.
	ModelImageFlash Model = "gemini-2.5-flash-image"

	// ModelTextFlash is the fast text model used for strategy analysis and
	// grounded chat.
	ModelTextFlash Model = "gemini-2.5-flash"

	// ModelTextPro is the extended-reasoning model and the chat default.
	ModelTextPro Model = "gemini-3-pro-preview"

	// ModelVideoFast is the fast video generation model.
	ModelVideoFast Model = "veo-3.1-fast-generate-preview"
)

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}

// ImageSize is the output resolution hint for image generation.
type ImageSize string

const (
	ImageSize2K ImageSize = "2K"
)

const thinkingBudgetTokens int32 = 32768

// Video generation is fixed to a single 720p 16:9 output.
const (
	videoCount       int32       = 1
	videoResolution              = "720p"
	videoAspectRatio AspectRatio = AspectRatio16x9
)

// PropertyType describes one field of a schema-constrained response.
type PropertyType string

const (
	PropertyInteger     PropertyType = "integer"
	PropertyString      PropertyType = "string"
	PropertyStringArray PropertyType = "string_array"
)

// ResponseSchema constrains a text response to a JSON object with exactly
// the listed properties, all required.
type ResponseSchema struct {
	Properties map[string]PropertyType
	Required   []string
}

// ToolConfig is the backend-agnostic configuration block of a route.
type ToolConfig struct {
	// ImageSize is the resolution hint, set only on the high tier.
	ImageSize ImageSize

	// Search and Maps enable the respective grounding tools. Mutually
	// exclusive; SelectRoute never sets both.
	Search bool
	Maps   bool

	// RetrievalAnchor ties maps retrieval to a coordinate, if supplied.
	RetrievalAnchor *LatLng

	// ThinkingBudget enables extended reasoning when positive. MaxOutputTokens
	// must stay zero while a budget is set; the backend rejects the pair.
	ThinkingBudget  int32
	MaxOutputTokens int32

	// Schema constrains the response to structured JSON when non-nil.
	Schema *ResponseSchema

	// Video output parameters.
	VideoCount       int32
	VideoResolution  string
	VideoAspectRatio AspectRatio
}

// Route is the model and configuration chosen for a request.
type Route struct {
	Model  Model
	Config *ToolConfig
}

// SelectRoute maps a content kind, quality tier and feature flags to a
// backend route. It is pure and deterministic. Feature flags only apply to
// chat; when more than one is set the precedence is search > maps > thinking.
func SelectRoute(kind ContentKind, tier QualityTier, flags FeatureFlags) Route {
	switch kind {
	case KindImage:
		if tier == TierHigh {
			return Route{Model: ModelImagePro, Config: &ToolConfig{ImageSize: ImageSize2K}}
		}
		return Route{Model: ModelImageFlash, Config: &ToolConfig{}}

	case KindImageEdit:
		return Route{Model: ModelImageFlash, Config: &ToolConfig{}}

	case KindStrategy:
		return Route{Model: ModelTextFlash, Config: &ToolConfig{Schema: strategySchema()}}

	case KindVideo:
		return Route{Model: ModelVideoFast, Config: &ToolConfig{
			VideoCount:       videoCount,
			VideoResolution:  videoResolution,
			VideoAspectRatio: videoAspectRatio,
		}}

	case KindChat:
		switch {
		case flags.UseSearch:
			return Route{Model: ModelTextFlash, Config: &ToolConfig{Search: true}}
		case flags.UseMaps:
			return Route{Model: ModelTextFlash, Config: &ToolConfig{
				Maps:            true,
				RetrievalAnchor: flags.Location,
			}}
		case flags.UseThinking:
			return Route{Model: ModelTextPro, Config: &ToolConfig{ThinkingBudget: thinkingBudgetTokens}}
		default:
			return Route{Model: ModelTextPro, Config: &ToolConfig{}}
		}
	}

	return Route{Model: ModelTextFlash, Config: &ToolConfig{}}
}

// Strategy analysis response fields.
const (
	fieldSentimentScore   = "sentimentScore"
	fieldViralProbability = "viralProbability"
	fieldTone             = "tone"
	fieldHashtags         = "hashtags"
	fieldImprovementTips  = "improvementTips"
)

func strategySchema() *ResponseSchema {
	return &ResponseSchema{
		Properties: map[string]PropertyType{
			fieldSentimentScore:   PropertyInteger,
			fieldViralProbability: PropertyInteger,
			fieldTone:             PropertyString,
			fieldHashtags:         PropertyStringArray,
			fieldImprovementTips:  PropertyStringArray,
		},
		Required: []string{
			fieldSentimentScore,
			fieldViralProbability,
			fieldTone,
			fieldHashtags,
			fieldImprovementTips,
		},
	}
}
