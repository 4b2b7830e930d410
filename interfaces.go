package mediagen

import "context"

// Backend is the remote generative capability behind the facade. Implement
// this interface to add support for another provider.
type Backend interface {
	// GenerateContent performs one immediate generation call.
	GenerateContent(ctx context.Context, req *GenerationRequest) (*Envelope, error)

	// StartVideo submits a video generation job and returns its handle.
	StartVideo(ctx context.Context, req *GenerationRequest) (VideoJob, error)

	// Close releases any resources held by the backend.
	Close() error
}

// VideoStatus is the last known state of a video generation job.
type VideoStatus struct {
	Done      bool
	ResultURI string
}

// VideoJob is the operation handle for a long-running video generation.
// A job is single-owner: the poller driving it never overlaps refreshes.
type VideoJob interface {
	// Status returns the last fetched state without a network call.
	Status() VideoStatus

	// Refresh re-fetches the job state from the backend.
	Refresh(ctx context.Context) error
}

// BackendFactory produces a configured backend handle. The facade calls it
// once per operation so a rotated credential takes effect on the next call.
type BackendFactory func(ctx context.Context) (Backend, error)
