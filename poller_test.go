package mediagen

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestPoller_PollsUntilDone(t *testing.T) {
	job := &MockVideoJob{
		PendingPolls: 3,
		FinalURI:     "https://video.example.com/files/abc?alt=media",
	}
	poller := &Poller{Interval: time.Millisecond, APIKey: "secret-key"}

	result, err := poller.Await(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.RefreshCount != 3 {
		t.Errorf("refresh count = %d, want 3", job.RefreshCount)
	}

	u, err := url.Parse(result.URI)
	if err != nil {
		t.Fatalf("result URI not parseable: %v", err)
	}
	if u.Query().Get("key") != "secret-key" {
		t.Errorf("credential not appended: %q", result.URI)
	}
	if u.Query().Get("alt") != "media" {
		t.Errorf("original query parameters lost: %q", result.URI)
	}
	if !strings.HasPrefix(result.URI, "https://video.example.com/files/abc") {
		t.Errorf("result URI = %q", result.URI)
	}
}

func TestPoller_DoneImmediatelyWithoutURI(t *testing.T) {
	job := &MockVideoJob{PendingPolls: 0, FinalURI: ""}
	poller := &Poller{Interval: time.Millisecond}

	_, err := poller.Await(context.Background(), job)
	if !IsNoPayload(err) {
		t.Errorf("expected no-payload failure, got %v", err)
	}
	if job.RefreshCount != 0 {
		t.Errorf("refresh count = %d, want 0", job.RefreshCount)
	}
}

func TestPoller_MaxPollsExceeded(t *testing.T) {
	job := &MockVideoJob{PendingPolls: 100, FinalURI: "https://video.example.com/v"}
	poller := &Poller{Interval: time.Millisecond, MaxPolls: 5}

	_, err := poller.Await(context.Background(), job)
	if !IsTimeout(err) {
		t.Errorf("expected timeout failure, got %v", err)
	}
	if job.RefreshCount != 5 {
		t.Errorf("refresh count = %d, want 5", job.RefreshCount)
	}
}

func TestPoller_ContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	job := &MockVideoJob{PendingPolls: 1000}
	poller := &Poller{Interval: time.Hour}

	_, err := poller.Await(ctx, job)
	if !IsTimeout(err) {
		t.Errorf("expected timeout failure on ctx deadline, got %v", err)
	}
}

func TestPoller_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := &MockVideoJob{PendingPolls: 1000}
	poller := &Poller{Interval: time.Hour}

	_, err := poller.Await(ctx, job)
	if !IsTransport(err) {
		t.Errorf("expected transport failure on cancellation, got %v", err)
	}
	if job.RefreshCount != 0 {
		t.Errorf("refresh count = %d, want 0 after pre-cancelled ctx", job.RefreshCount)
	}
}

func TestAppendKey(t *testing.T) {
	got := appendKey("https://h/x", "k1")
	if got != "https://h/x?key=k1" {
		t.Errorf("no-query case: %q", got)
	}

	got = appendKey("https://h/x?a=b", "k1")
	u, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	if u.Query().Get("a") != "b" || u.Query().Get("key") != "k1" {
		t.Errorf("existing-query case: %q", got)
	}

	if appendKey("https://h/x", "") != "https://h/x" {
		t.Error("empty key must leave the URI untouched")
	}
}
