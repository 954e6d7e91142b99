package status

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Naguroka/GenshinWidget/internal/hoyolab"
)

// The fetch cadence is fixed: one eager fetch at startup, then one
// per minute.
const refreshInterval = 60 * time.Second

// Fetcher is the slice of the HoYoLAB client the refresher needs.
type Fetcher interface {
	DailyNote(ctx context.Context, uid int) (*hoyolab.DailyNote, error)
}

// Refresher drives the fetch loop and hands each resulting snapshot
// to the sink. The sink runs on a fetch goroutine; the GTK layer
// wraps it in glib.IdleAdd so rendering stays on the UI thread.
type Refresher struct {
	machine   *Machine
	client    Fetcher
	accountID string
	showNotes bool
	sink      func(Snapshot)
	interval  time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	mu      sync.Mutex
}

// NewRefresher wires a refresher for the given account. accountID is
// the raw ltuid_v2 string; showNotes gates fetching entirely.
func NewRefresher(machine *Machine, client Fetcher, accountID string, showNotes bool, sink func(Snapshot)) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Refresher{
		machine:   machine,
		client:    client,
		accountID: accountID,
		showNotes: showNotes,
		sink:      sink,
		interval:  refreshInterval,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins the loop: one eager fetch, then one per interval.
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("refresher is already running")
	}
	if err := r.machine.Ready(); err != nil {
		return err
	}
	r.running = true

	go r.run()

	log.Printf("Refresher started (interval %v)", r.interval)

	return nil
}

// Stop cancels the loop. A fetch in flight is abandoned through its
// context.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	r.cancel()
	r.running = false
	r.machine.Terminate()

	log.Printf("Refresher stopped")
}

// IsRunning returns whether the loop is active.
func (r *Refresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Refresher) run() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Recovered from panic in refresh loop: %v", rec)
		}
	}()

	go r.fetch(r.ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			go r.fetch(r.ctx)
		}
	}
}

// fetch runs one attempt. Failures surface as error snapshots and are
// never retried before the next scheduled tick.
func (r *Refresher) fetch(ctx context.Context) {
	if err := r.machine.BeginFetch(); err != nil {
		log.Printf("Skipping fetch: %v", err)
		return
	}
	defer r.machine.EndFetch()

	// ltuid_v2 doubles as the account id; a non-numeric value is a
	// runtime error, reported even when notes are disabled.
	uid, err := strconv.Atoi(r.accountID)
	if err != nil {
		log.Printf("Error fetching data: %v", err)
		r.emit(FromError(fmt.Errorf("invalid account id %q", r.accountID)))
		return
	}

	if !r.showNotes {
		return
	}

	note, err := r.client.DailyNote(ctx, uid)
	if err != nil {
		var apiErr *hoyolab.APIError
		if errors.As(err, &apiErr) {
			log.Printf("Error fetching notes: %v - response: %s", apiErr, apiErr.Response)
			r.emit(FromAPIError(apiErr))
		} else {
			log.Printf("Error fetching data: %v", err)
			r.emit(FromError(err))
		}
		return
	}

	log.Printf("Fetched notes for uid %d: resin %d/%d", uid, note.CurrentResin, note.MaxResin)
	r.emit(FromNote(note))
}

func (r *Refresher) emit(s Snapshot) {
	if r.sink != nil {
		r.sink(s)
	}
}
