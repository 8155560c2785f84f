package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/grievance-redressal/student-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
	refreshTimeout = 10 * time.Second
)

// Refresher re-warms per-session grievance snapshots in the background after
// actions that change the list (login, create, withdraw). Sessions are
// sharded to a fixed set of workers by session id, so refreshes for one
// session are serialized while the snapshot's generation guard handles any
// overlap with foreground fetches.
type Refresher struct {
	workers []chan string
	search  ports.SearchService
	log     zerolog.Logger
}

// NewRefresher creates a Refresher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewRefresher(numWorkers int, search ports.SearchService, log zerolog.Logger) *Refresher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	r := &Refresher{
		workers: make([]chan string, numWorkers),
		search:  search,
		log:     log,
	}
	for i := range r.workers {
		r.workers[i] = make(chan string, channelBuffer)
	}
	return r
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	for i, ch := range r.workers {
		go r.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules a snapshot refresh for the session. Non-blocking: when
// the worker's buffer is full the refresh is dropped, which is harmless — the
// next search simply re-fetches on a cold snapshot.
func (r *Refresher) Enqueue(sid string) {
	select {
	case r.workers[r.shardIndex(sid)] <- sid:
	default:
		r.log.Warn().Str("sid", sid).Msg("refresh queue full, dropping refresh")
	}
}

// shardIndex maps a session id deterministically to a worker index.
func (r *Refresher) shardIndex(sid string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sid))
	return int(h.Sum32()) % len(r.workers)
}

func (r *Refresher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case sid, ok := <-ch:
			if !ok {
				return
			}
			refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
			if err := r.search.Refresh(refreshCtx, sid); err != nil {
				r.log.Error().Err(err).
					Str("sid", sid).
					Int("worker_id", id).
					Msg("snapshot refresh failed")
			}
			cancel()
		}
	}
}
