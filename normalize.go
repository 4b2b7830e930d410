package mediagen

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// chatFallbackText stands in for an empty chat reply so the caller always
// has something to render.
const chatFallbackText = "I couldn't generate a text response."

const dataURIPrefix = "data:image/png;base64,"

// NormalizeImage extracts the first inline-binary part of an envelope as a
// PNG data URI. A response with no binary part fails with KindNoPayload;
// that happens when the backend declines a request on safety grounds.
func NormalizeImage(env *Envelope) (*ImageResult, error) {
	if env == nil {
		return nil, newFailure(KindNoPayload, "empty response")
	}

	for _, part := range env.Parts {
		if part.IsInline() {
			return &ImageResult{
				DataURI: dataURIPrefix + base64.StdEncoding.EncodeToString(part.InlineData),
			}, nil
		}
	}

	return nil, newFailure(KindNoPayload, "no image data found in response")
}

// NormalizeStrategy decodes the envelope text as a strategy analysis. Every
// field is required; a missing field or undecodable payload fails with
// KindMalformedResponse. Values round-trip untouched.
func NormalizeStrategy(env *Envelope) (*StrategyAnalysis, error) {
	if env == nil {
		return nil, newFailure(KindMalformedResponse, "empty response")
	}

	text := env.Text()
	if text == "" {
		return nil, newFailure(KindMalformedResponse, "no analysis text in response")
	}

	var raw struct {
		SentimentScore   *int      `json:"sentimentScore"`
		ViralProbability *int      `json:"viralProbability"`
		Tone             *string   `json:"tone"`
		Hashtags         *[]string `json:"hashtags"`
		ImprovementTips  *[]string `json:"improvementTips"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, wrapFailure(KindMalformedResponse, "decoding analysis", err)
	}

	missing := ""
	switch {
	case raw.SentimentScore == nil:
		missing = fieldSentimentScore
	case raw.ViralProbability == nil:
		missing = fieldViralProbability
	case raw.Tone == nil:
		missing = fieldTone
	case raw.Hashtags == nil:
		missing = fieldHashtags
	case raw.ImprovementTips == nil:
		missing = fieldImprovementTips
	}
	if missing != "" {
		return nil, newFailure(KindMalformedResponse, fmt.Sprintf("analysis missing required field %q", missing))
	}

	return &StrategyAnalysis{
		SentimentScore:   *raw.SentimentScore,
		ViralProbability: *raw.ViralProbability,
		Tone:             *raw.Tone,
		Hashtags:         *raw.Hashtags,
		ImprovementTips:  *raw.ImprovementTips,
	}, nil
}

// NormalizeChat passes the envelope text through, substituting a fixed
// fallback when the model returned no text. Citations are carried over
// as-is, web and maps shapes kept distinct.
func NormalizeChat(env *Envelope) (*ChatResult, error) {
	if env == nil {
		return &ChatResult{Text: chatFallbackText}, nil
	}

	text := env.Text()
	if text == "" {
		text = chatFallbackText
	}

	return &ChatResult{
		Text:      text,
		Citations: env.Citations,
	}, nil
}
