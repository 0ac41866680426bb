package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	cartdom "github.com/azaky/cartserver/internal/domain/cart"
	"github.com/azaky/cartserver/internal/domain/watch"
)

// fakeTimers records timers instead of starting them.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (f *fakeTimers) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) get(i int) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timers[i]
}

func (f *fakeTimers) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// fire runs the timer body even if stopped, like a timer that already
// fired when Stop was called.
func (f *fakeTimers) fire(i int) {
	f.get(i).fn()
}

// fakeRepo records writes; failOpen/failClose make the matching write fail.
type fakeRepo struct {
	mu        sync.Mutex
	writes    []bool
	failOpen  error
	failClose error
}

func (r *fakeRepo) SetOpen(_ context.Context, open bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if open && r.failOpen != nil {
		return r.failOpen
	}
	if !open && r.failClose != nil {
		return r.failClose
	}
	r.writes = append(r.writes, open)
	return nil
}

func (r *fakeRepo) Get(context.Context) (cartdom.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.writes) == 0 {
		return cartdom.State{}, cartdom.ErrStateNotFound
	}
	return cartdom.State{Open: r.writes[len(r.writes)-1]}, nil
}

func (r *fakeRepo) Writes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.writes...)
}

var errUnavailable = errors.New("rpc error: code = Unavailable")

// sliceSource serves fixed size sequences per collection name.
type sliceSource struct {
	sizes        map[string][]int
	streamErr    map[string]error
	subscribeErr map[string]error
}

func (s *sliceSource) Subscribe(_ context.Context, c watch.Collection) (watch.Stream, error) {
	if err := s.subscribeErr[c.Collection]; err != nil {
		return nil, err
	}
	return &sliceStream{sizes: s.sizes[c.Collection], tailErr: s.streamErr[c.Collection]}, nil
}

type sliceStream struct {
	sizes   []int
	pos     int
	tailErr error
	stopped bool
}

func (s *sliceStream) Next() (watch.Snapshot, error) {
	if s.stopped {
		return watch.Snapshot{}, watch.ErrStreamClosed
	}
	if s.pos >= len(s.sizes) {
		if s.tailErr != nil {
			return watch.Snapshot{}, s.tailErr
		}
		return watch.Snapshot{}, watch.ErrStreamClosed
	}
	sz := s.sizes[s.pos]
	s.pos++
	return watch.Snapshot{Size: sz, ReadTime: time.Now()}, nil
}

func (s *sliceStream) Stop() { s.stopped = true }

// recordingOpener counts opens per watch name.
type recordingOpener struct {
	mu    sync.Mutex
	opens map[string]int
	err   error
}

func (o *recordingOpener) Open(_ context.Context, w watch.Collection, triggerID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.opens == nil {
		o.opens = map[string]int{}
	}
	o.opens[w.Name]++
	return o.err
}

func (o *recordingOpener) count(name string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.opens[name]
}

var (
	cartWatch  = watch.Collection{Name: "cart", Collection: "cart", Field: "price", CloseDelay: 3 * time.Second}
	orderWatch = watch.Collection{Name: "order", Collection: "order", Field: "total", CloseDelay: 15 * time.Second}
)
