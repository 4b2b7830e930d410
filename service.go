package mediagen

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/antcpu/mediagen/ratelimiter"
)

// Service is the orchestration facade over a generative backend: one public
// operation per content kind, each independently callable. The facade is
// stateless between calls; chat history in particular is caller-owned and
// supplied in full on every turn.
type Service struct {
	factory BackendFactory
	logger  *slog.Logger
	poller  Poller

	// Rate limiting (per model, opt-in)
	rateLimiters   map[Model]ratelimiter.Limiter
	tokenEstimator TokenEstimator

	mu sync.RWMutex
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithLogger sets a structured logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPoller overrides the video poller's interval and poll budget.
func WithPoller(p Poller) ServiceOption {
	return func(s *Service) {
		s.poller = p
	}
}

// WithPlaybackKey sets the credential appended to video result URLs so they
// are fetchable without separate authorization.
func WithPlaybackKey(key string) ServiceOption {
	return func(s *Service) {
		s.poller.APIKey = key
	}
}

// WithRateLimiter gates calls to a model behind a local limiter.
func WithRateLimiter(model Model, limiter ratelimiter.Limiter) ServiceOption {
	return func(s *Service) {
		s.rateLimiters[model] = limiter
	}
}

// WithTokenEstimator overrides the prompt token estimation strategy used by
// the rate-limit gate.
func WithTokenEstimator(est TokenEstimator) ServiceOption {
	return func(s *Service) {
		s.tokenEstimator = est
	}
}

// NewService creates a Service. The factory is invoked once per operation so
// every call runs against a freshly configured backend handle.
func NewService(factory BackendFactory, opts ...ServiceOption) *Service {
	s := &Service{
		factory:        factory,
		logger:         slog.Default(),
		rateLimiters:   make(map[Model]ratelimiter.Limiter),
		tokenEstimator: NewSimpleTokenEstimator(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRateLimiter sets a custom rate limiter for a model. Use this to swap in
// a distributed limiter for production.
func (s *Service) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rateLimiters[model] = limiter
	return s
}

// GenerateImage creates an image from a text prompt. The high tier routes to
// the high-capability model with an explicit resolution hint.
func (s *Service) GenerateImage(ctx context.Context, prompt string, ratio AspectRatio, tier QualityTier) (*ImageResult, error) {
	req, err := BuildImageRequest(prompt, ratio)
	if err != nil {
		return nil, err
	}
	applyRoute(req, SelectRoute(KindImage, tier, FeatureFlags{}))

	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Debug("starting image generation",
		"request_id", reqID,
		"model", req.Model.String(),
		"tier", string(tier),
		"prompt_length", len(prompt),
	)

	env, err := s.generate(ctx, reqID, req, prompt)
	if err != nil {
		return nil, err
	}

	result, err := NormalizeImage(env)
	if err != nil {
		s.logger.Warn("image generation returned no payload",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("image generation completed",
		"request_id", reqID,
		"model", req.Model.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// EditImage modifies an existing image based on a text instruction.
func (s *Service) EditImage(ctx context.Context, image InputImage, instruction string) (*ImageResult, error) {
	req, err := BuildEditRequest(image, instruction)
	if err != nil {
		return nil, err
	}
	applyRoute(req, SelectRoute(KindImageEdit, TierStandard, FeatureFlags{}))

	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Debug("starting image edit",
		"request_id", reqID,
		"model", req.Model.String(),
		"instruction_length", len(instruction),
		"image_size", len(image.Data),
	)

	env, err := s.generate(ctx, reqID, req, instruction)
	if err != nil {
		return nil, err
	}

	result, err := NormalizeImage(env)
	if err != nil {
		s.logger.Warn("image edit returned no payload",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("image edit completed",
		"request_id", reqID,
		"model", req.Model.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// AnalyzeStrategy scores a social post for a target platform.
func (s *Service) AnalyzeStrategy(ctx context.Context, postContent string, platform Platform) (*StrategyAnalysis, error) {
	req, err := BuildStrategyRequest(postContent, platform)
	if err != nil {
		return nil, err
	}
	applyRoute(req, SelectRoute(KindStrategy, TierStandard, FeatureFlags{}))

	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Debug("starting strategy analysis",
		"request_id", reqID,
		"model", req.Model.String(),
		"platform", string(platform),
	)

	env, err := s.generate(ctx, reqID, req, postContent)
	if err != nil {
		return nil, err
	}

	analysis, err := NormalizeStrategy(env)
	if err != nil {
		s.logger.Error("strategy analysis unparseable",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("strategy analysis completed",
		"request_id", reqID,
		"model", req.Model.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return analysis, nil
}

// SendChat sends one chat turn. The full prior history must be supplied each
// time; it is copied, never retained. Feature flags select grounding or
// extended reasoning with precedence search > maps > thinking.
func (s *Service) SendChat(ctx context.Context, message string, history []ChatMessage, flags FeatureFlags) (*ChatResult, error) {
	req, err := BuildChatRequest(message, history)
	if err != nil {
		return nil, err
	}
	applyRoute(req, SelectRoute(KindChat, TierStandard, flags))

	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Debug("starting chat turn",
		"request_id", reqID,
		"model", req.Model.String(),
		"history_turns", len(history),
		"search", flags.UseSearch,
		"maps", flags.UseMaps,
		"thinking", flags.UseThinking,
	)

	env, err := s.generate(ctx, reqID, req, message)
	if err != nil {
		return nil, err
	}

	result, err := NormalizeChat(env)
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat turn completed",
		"request_id", reqID,
		"model", req.Model.String(),
		"duration_ms", time.Since(start).Milliseconds(),
		"citations", len(result.Citations),
	)
	return result, nil
}

// GenerateVideo submits a video job and blocks until it completes, polling
// at a fixed interval. The call honors ctx cancellation before every wait
// and refresh; run it in its own goroutine to keep other work unblocked.
func (s *Service) GenerateVideo(ctx context.Context, prompt string, startFrame *InputImage) (*VideoResult, error) {
	req, err := BuildVideoRequest(prompt, startFrame)
	if err != nil {
		return nil, err
	}
	applyRoute(req, SelectRoute(KindVideo, TierStandard, FeatureFlags{}))

	reqID := uuid.NewString()
	start := time.Now()
	s.logger.Debug("starting video generation",
		"request_id", reqID,
		"model", req.Model.String(),
		"prompt_length", len(prompt),
		"has_start_frame", startFrame != nil,
	)

	if err := s.checkRateLimit(ctx, req.Model, prompt); err != nil {
		s.logger.Warn("rate limit hit",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	backend, err := s.factory(ctx)
	if err != nil {
		return nil, wrapFailure(KindTransport, "acquiring backend", err)
	}
	defer backend.Close()

	job, err := backend.StartVideo(ctx, req)
	if err != nil {
		s.logger.Error("video submission failed",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, asTransport("submitting video job", err)
	}

	result, err := s.poller.Await(ctx, job)
	if err != nil {
		s.logger.Error("video generation failed",
			"request_id", reqID,
			"model", req.Model.String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	s.logger.Info("video generation completed",
		"request_id", reqID,
		"model", req.Model.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// generate runs the shared immediate-call path: rate gate, fresh backend,
// one GenerateContent call.
func (s *Service) generate(ctx context.Context, reqID string, req *GenerationRequest, prompt string) (*Envelope, error) {
	if err := s.checkRateLimit(ctx, req.Model, prompt); err != nil {
		s.logger.Warn("rate limit hit",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, err
	}

	backend, err := s.factory(ctx)
	if err != nil {
		return nil, wrapFailure(KindTransport, "acquiring backend", err)
	}
	defer backend.Close()

	env, err := backend.GenerateContent(ctx, req)
	if err != nil {
		s.logger.Error("generation call failed",
			"request_id", reqID,
			"model", req.Model.String(),
			"error", err.Error(),
		)
		return nil, asTransport("calling backend", err)
	}
	return env, nil
}

// checkRateLimit consumes from the model's limiter, if one is configured.
func (s *Service) checkRateLimit(ctx context.Context, model Model, prompt string) error {
	const tokenBuffer = 100

	s.mu.RLock()
	limiter := s.rateLimiters[model]
	s.mu.RUnlock()

	if limiter == nil {
		return nil
	}

	estimatedTokens := s.tokenEstimator.EstimateTokens(prompt) + tokenBuffer

	if !limiter.TryConsume(estimatedTokens) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
			LimitType:  "tokens",
			Model:      model.String(),
		}
	}

	return nil
}

func applyRoute(req *GenerationRequest, route Route) {
	req.Model = route.Model
	req.Config = route.Config
}

// asTransport surfaces err as a transport failure unless it already carries
// a failure kind or is a rate-limit rejection.
func asTransport(message string, err error) error {
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	if IsRateLimitError(err) {
		return err
	}
	return wrapFailure(KindTransport, message, err)
}
