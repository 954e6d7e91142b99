package status

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Naguroka/GenshinWidget/internal/hoyolab"
)

type fakeFetcher struct {
	note  *hoyolab.DailyNote
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeFetcher) DailyNote(ctx context.Context, uid int) (*hoyolab.DailyNote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.note, nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type blockingFetcher struct {
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (f *blockingFetcher) DailyNote(ctx context.Context, uid int) (*hoyolab.DailyNote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	<-f.release
	return &hoyolab.DailyNote{CurrentResin: 30, MaxResin: 160}, nil
}

func (f *blockingFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recorder struct {
	snaps []Snapshot
	mu    sync.Mutex
}

func (r *recorder) sink(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) first(t *testing.T) Snapshot {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		t.Fatal("Expected at least one snapshot")
	}
	return r.snaps[0]
}

func newTestRefresher(t *testing.T, client Fetcher, accountID string, showNotes bool, rec *recorder) *Refresher {
	t.Helper()

	m := NewMachine()
	if err := m.Validate(); err != nil {
		t.Fatalf("Failed to validate machine: %v", err)
	}

	r := NewRefresher(m, client, accountID, showNotes, rec.sink)
	r.interval = 20 * time.Millisecond
	return r
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %s", what)
}

func TestRefresher_EagerFetch(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{
		CurrentResin:            30,
		MaxResin:                160,
		ClaimedCommissionReward: true,
		CurrentRealmCurrency:    1200,
	}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "eager fetch", func() bool { return rec.count() >= 1 })

	s := rec.first(t)
	if s.Resin != "Resin: 30/160" {
		t.Errorf("Expected 'Resin: 30/160', got %q", s.Resin)
	}
	if s.CheckIn != "Daily Reward Claimed: True" {
		t.Errorf("Expected 'Daily Reward Claimed: True', got %q", s.CheckIn)
	}
	if s.Currency != "Realm Currency: 1200/2400" {
		t.Errorf("Expected 'Realm Currency: 1200/2400', got %q", s.Currency)
	}
}

func TestRefresher_PeriodicTicks(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{CurrentResin: 1, MaxResin: 160}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "800123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "repeated fetches", func() bool { return client.callCount() >= 3 })
}

func TestRefresher_APIError(t *testing.T) {
	client := &fakeFetcher{err: &hoyolab.APIError{Retcode: 10102, Message: "Data is not public"}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "error snapshot", func() bool { return rec.count() >= 1 })

	s := rec.first(t)
	if !strings.HasPrefix(s.Resin, "Error fetching notes: ") {
		t.Errorf("Expected 'Error fetching notes: ' prefix, got %q", s.Resin)
	}
	if !strings.Contains(s.Resin, "Data is not public") {
		t.Errorf("Expected API message in first row, got %q", s.Resin)
	}
	if s.CheckIn != "" || s.Currency != "" {
		t.Errorf("Expected blank rows after error, got %q and %q", s.CheckIn, s.Currency)
	}
}

func TestRefresher_TransportError(t *testing.T) {
	client := &fakeFetcher{err: errors.New("connection refused")}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "error snapshot", func() bool { return rec.count() >= 1 })

	s := rec.first(t)
	if !strings.HasPrefix(s.Resin, "Error fetching data: ") {
		t.Errorf("Expected 'Error fetching data: ' prefix, got %q", s.Resin)
	}
}

func TestRefresher_NotesDisabled(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", false, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	time.Sleep(100 * time.Millisecond)

	if n := client.callCount(); n != 0 {
		t.Errorf("Expected no client calls with notes disabled, got %d", n)
	}
	if n := rec.count(); n != 0 {
		t.Errorf("Expected no snapshots with notes disabled, got %d", n)
	}
}

func TestRefresher_BadAccountID(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{}}
	rec := &recorder{}

	// A non-numeric account id surfaces even when notes are disabled.
	r := newTestRefresher(t, client, "not-a-uid", false, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "error snapshot", func() bool { return rec.count() >= 1 })

	s := rec.first(t)
	if !strings.HasPrefix(s.Resin, "Error fetching data: ") {
		t.Errorf("Expected 'Error fetching data: ' prefix, got %q", s.Resin)
	}
	if !strings.Contains(s.Resin, "not-a-uid") {
		t.Errorf("Expected offending account id in error, got %q", s.Resin)
	}
	if client.callCount() != 0 {
		t.Error("Expected no client calls for a bad account id")
	}
}

func TestRefresher_SkipsOverlappingTicks(t *testing.T) {
	client := &blockingFetcher{release: make(chan struct{})}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	waitFor(t, "first fetch", func() bool { return client.callCount() >= 1 })

	// Let several ticks land while the first fetch is still blocked;
	// all of them must be skipped.
	time.Sleep(120 * time.Millisecond)
	if n := client.callCount(); n != 1 {
		t.Errorf("Expected 1 in-flight fetch while blocked, got %d", n)
	}

	close(client.release)

	waitFor(t, "snapshot after release", func() bool { return rec.count() >= 1 })
	waitFor(t, "fetching to resume", func() bool { return client.callCount() >= 2 })
}

func TestRefresher_Stop(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}

	waitFor(t, "first fetch", func() bool { return client.callCount() >= 1 })

	r.Stop()
	if r.IsRunning() {
		t.Error("Expected refresher to be stopped")
	}

	time.Sleep(50 * time.Millisecond)
	before := client.callCount()
	time.Sleep(60 * time.Millisecond)
	if after := client.callCount(); after != before {
		t.Errorf("Expected no fetches after stop, got %d more", after-before)
	}

	// Stop is idempotent.
	r.Stop()
}

func TestRefresher_DoubleStart(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{}}
	rec := &recorder{}

	r := newTestRefresher(t, client, "700123456", true, rec)
	if err := r.Start(); err != nil {
		t.Fatalf("Failed to start refresher: %v", err)
	}
	defer r.Stop()

	if err := r.Start(); err == nil {
		t.Error("Expected second Start to fail")
	}
}

func TestRefresher_RequiresValidatedMachine(t *testing.T) {
	client := &fakeFetcher{note: &hoyolab.DailyNote{}}
	rec := &recorder{}

	r := NewRefresher(NewMachine(), client, "700123456", true, rec.sink)
	if err := r.Start(); err == nil {
		t.Error("Expected Start to fail on an unvalidated machine")
		r.Stop()
	}
}
