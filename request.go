package mediagen

// ContentKind identifies the type of generation a request performs.
type ContentKind string

const (
	KindImage     ContentKind = "image"
	KindImageEdit ContentKind = "image_edit"
	KindVideo     ContentKind = "video"
	KindStrategy  ContentKind = "strategy"
	KindChat      ContentKind = "chat"
)

// AspectRatio represents the aspect ratio for generated media.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio4x3  AspectRatio = "4:3"
)

// QualityTier trades generation latency against output fidelity.
type QualityTier string

const (
	TierStandard QualityTier = "standard"
	TierHigh     QualityTier = "high"
)

// Platform is a social network a post targets.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformTwitter   Platform = "X (Twitter)"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTikTok    Platform = "TikTok"
	PlatformFacebook  Platform = "Facebook"
	PlatformThreads   Platform = "Threads"
)

// PayloadPart is one unit of a multi-part request body. Exactly one of Text
// or InlineData is set.
type PayloadPart struct {
	Text       string
	InlineData []byte
	MIMEType   string
}

// IsInline reports whether the part carries binary data.
func (p PayloadPart) IsInline() bool {
	return len(p.InlineData) > 0
}

// TextPart creates a text payload part.
func TextPart(text string) PayloadPart {
	return PayloadPart{Text: text}
}

// InlinePart creates an inline-binary payload part.
func InlinePart(data []byte, mimeType string) PayloadPart {
	return PayloadPart{InlineData: data, MIMEType: mimeType}
}

// InputImage represents an image input for editing or as a video start frame.
type InputImage struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType of the image (e.g., "image/jpeg", "image/png")
	MIMEType string
}

// ChatMessage is one turn of a chat history. The caller owns the history;
// the library treats it as a read-only input per call.
type ChatMessage struct {
	Role string // "user" or "model"
	Text string
}

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// SafetyCategory represents a content safety category.
type SafetyCategory string

const (
	SafetyCategoryHarassment       SafetyCategory = "HARM_CATEGORY_HARASSMENT"
	SafetyCategoryHateSpeech       SafetyCategory = "HARM_CATEGORY_HATE_SPEECH"
	SafetyCategorySexuallyExplicit SafetyCategory = "HARM_CATEGORY_SEXUALLY_EXPLICIT"
	SafetyCategoryDangerousContent SafetyCategory = "HARM_CATEGORY_DANGEROUS_CONTENT"
)

// SafetyThreshold represents the blocking threshold for safety filters.
type SafetyThreshold string

const (
	SafetyThresholdBlockNone      SafetyThreshold = "BLOCK_NONE"
	SafetyThresholdBlockLowAndUp  SafetyThreshold = "BLOCK_LOW_AND_ABOVE"
	SafetyThresholdBlockMedAndUp  SafetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"
	SafetyThresholdBlockHighAndUp SafetyThreshold = "BLOCK_ONLY_HIGH"
)

// SafetySetting configures content filtering for a specific category.
type SafetySetting struct {
	Category  SafetyCategory
	Threshold SafetyThreshold
}

// LatLng is a geographic coordinate used to anchor location-aware retrieval.
type LatLng struct {
	Latitude  float64
	Longitude float64
}

// FeatureFlags selects optional chat capabilities. At most one of the three
// booleans should be set; SelectRoute applies precedence search > maps >
// thinking if the caller violates that.
type FeatureFlags struct {
	UseSearch   bool
	UseMaps     bool
	UseThinking bool
	Location    *LatLng
}

// GenerationRequest is the backend-agnostic request descriptor produced by
// the builders and completed by SelectRoute. Built once per call and not
// modified afterwards.
type GenerationRequest struct {
	Kind  ContentKind
	Parts []PayloadPart

	// History holds prior chat turns, chat requests only.
	History []ChatMessage

	// AspectRatio applies to image and video requests.
	AspectRatio AspectRatio

	// StartFrame is an optional first frame for video requests.
	StartFrame *InputImage

	// Model and Config are filled in by SelectRoute.
	Model  Model
	Config *ToolConfig
}
