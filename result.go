package mediagen

// ResponsePart is one unit of a backend response body. Exactly one of Text
// or InlineData is set.
type ResponsePart struct {
	Text       string
	InlineData []byte
	MIMEType   string
}

// IsInline reports whether the part carries binary data.
func (p ResponsePart) IsInline() bool {
	return len(p.InlineData) > 0
}

// WebSource is a web citation attached to a grounded chat response.
type WebSource struct {
	URI   string
	Title string
}

// MapsSource is a location-answer citation. It is kept distinct from
// WebSource rather than coerced into it.
type MapsSource struct {
	URI     string
	Title   string
	PlaceID string
}

// Citation is one grounding source. Exactly one of Web or Maps is non-nil.
type Citation struct {
	Web  *WebSource
	Maps *MapsSource
}

// Envelope is the backend-agnostic response to an immediate generation call.
type Envelope struct {
	Parts     []ResponsePart
	Citations []Citation
}

// Text concatenates the text parts of the envelope in order.
func (e *Envelope) Text() string {
	var s string
	for _, p := range e.Parts {
		if !p.IsInline() {
			s += p.Text
		}
	}
	return s
}

// ImageResult is a generated or edited image, ready for display.
type ImageResult struct {
	// DataURI is the image encoded as data:image/png;base64,...
	DataURI string
}

// StrategyAnalysis is the structured verdict on a social post.
type StrategyAnalysis struct {
	SentimentScore   int      `json:"sentimentScore"`
	ViralProbability int      `json:"viralProbability"`
	Tone             string   `json:"tone"`
	Hashtags         []string `json:"hashtags"`
	ImprovementTips  []string `json:"improvementTips"`
}

// ChatResult is the assistant's reply for one chat turn.
type ChatResult struct {
	Text      string
	Citations []Citation
}

// VideoResult is a completed video generation.
type VideoResult struct {
	// URI is a fetchable resource URL with the access credential appended.
	URI string
}
