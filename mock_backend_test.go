package mediagen

import (
	"context"
)

// MockBackend is a mock implementation of Backend.
type MockBackend struct {
	GenerateContentFunc func(ctx context.Context, req *GenerationRequest) (*Envelope, error)
	StartVideoFunc      func(ctx context.Context, req *GenerationRequest) (VideoJob, error)
	CloseFunc           func() error
}

func (m *MockBackend) GenerateContent(ctx context.Context, req *GenerationRequest) (*Envelope, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, req)
	}
	return &Envelope{}, nil
}

func (m *MockBackend) StartVideo(ctx context.Context, req *GenerationRequest) (VideoJob, error) {
	if m.StartVideoFunc != nil {
		return m.StartVideoFunc(ctx, req)
	}
	return &MockVideoJob{}, nil
}

func (m *MockBackend) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// MockVideoJob is a scripted VideoJob: it reports pending for PendingPolls
// refreshes, then done with FinalURI.
type MockVideoJob struct {
	PendingPolls int
	FinalURI     string

	RefreshCount int
	RefreshErr   error

	done bool
}

func (j *MockVideoJob) Status() VideoStatus {
	if !j.done && j.PendingPolls == 0 {
		j.done = true
	}
	if j.done {
		return VideoStatus{Done: true, ResultURI: j.FinalURI}
	}
	return VideoStatus{}
}

func (j *MockVideoJob) Refresh(ctx context.Context) error {
	if j.RefreshErr != nil {
		return j.RefreshErr
	}
	j.RefreshCount++
	if j.RefreshCount >= j.PendingPolls {
		j.done = true
	}
	return nil
}
