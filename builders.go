package mediagen

import "fmt"

// Brand prompt preambles. Prepended deterministically before the user's
// prompt is placed in the request.
const (
	imageStylePreamble = "Visual style: High-tech, futuristic, minimal, neon accents, 'antcpu' brand aesthetic. "
	videoStylePreamble = "Cinematic, futuristic, antcpu style. "
)

const strategyRubric = `Analyze this social media post for %s from the perspective of the 'antcpu' brand (tech-focused, innovative, futuristic).
Post Content: %q

Provide a JSON response with:
- sentimentScore (0-100)
- viralProbability (0-100)
- tone (string, e.g., "Professional", "Edgy")
- hashtags (array of strings, optimized for the platform)
- improvementTips (array of strings, specific actionable advice)`

// BuildImageRequest constructs a text-to-image request. The prompt is
// augmented with the brand style preamble.
func BuildImageRequest(prompt string, ratio AspectRatio) (*GenerationRequest, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "image prompt", err)
	}

	return &GenerationRequest{
		Kind:        KindImage,
		Parts:       []PayloadPart{TextPart(imageStylePreamble + prompt)},
		AspectRatio: ratio,
	}, nil
}

// BuildEditRequest constructs an image-edit request. The source image part
// comes first, the instruction text second; the backend expects that order.
// A missing source image is an invalid request for any instruction text.
func BuildEditRequest(image InputImage, instruction string) (*GenerationRequest, error) {
	if err := ValidateInputImage(image); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "edit source image", err)
	}
	if err := ValidatePrompt(instruction); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "edit instruction", err)
	}

	return &GenerationRequest{
		Kind: KindImageEdit,
		Parts: []PayloadPart{
			InlinePart(image.Data, image.MIMEType),
			TextPart(instruction),
		},
	}, nil
}

// BuildStrategyRequest constructs a strategy-analysis request embedding the
// platform name and the fixed analysis rubric.
func BuildStrategyRequest(postContent string, platform Platform) (*GenerationRequest, error) {
	if err := ValidatePrompt(postContent); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "post content", err)
	}

	prompt := fmt.Sprintf(strategyRubric, platform, postContent)
	return &GenerationRequest{
		Kind:  KindStrategy,
		Parts: []PayloadPart{TextPart(prompt)},
	}, nil
}

// BuildChatRequest constructs one chat turn. The history is copied; the
// caller keeps ownership of its slice and the library never mutates it.
func BuildChatRequest(message string, history []ChatMessage) (*GenerationRequest, error) {
	if err := ValidatePrompt(message); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "chat message", err)
	}

	var h []ChatMessage
	if len(history) > 0 {
		h = make([]ChatMessage, len(history))
		copy(h, history)
	}

	return &GenerationRequest{
		Kind:    KindChat,
		Parts:   []PayloadPart{TextPart(message)},
		History: h,
	}, nil
}

// BuildVideoRequest constructs a video generation request with an optional
// starting frame.
func BuildVideoRequest(prompt string, startFrame *InputImage) (*GenerationRequest, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, wrapFailure(KindInvalidRequest, "video prompt", err)
	}
	if startFrame != nil {
		if err := ValidateInputImage(*startFrame); err != nil {
			return nil, wrapFailure(KindInvalidRequest, "video start frame", err)
		}
	}

	return &GenerationRequest{
		Kind:       KindVideo,
		Parts:      []PayloadPart{TextPart(videoStylePreamble + prompt)},
		StartFrame: startFrame,
	}, nil
}
