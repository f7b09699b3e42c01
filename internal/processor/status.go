package processor

import (
	"sync"
	"time"

	"github.com/goodnatureofminers/lightsync/internal/model"
)

// publisher holds the latest status and fans it out to subscribers. Slow subscribers only see the most
// recent snapshot.
type publisher struct {
	mu     sync.Mutex
	status model.SyncStatus
	subs   map[int]chan model.SyncStatus
	nextID int
	now    func() time.Time
}

func newPublisher(now func() time.Time) *publisher {
	return &publisher{
		status: model.SyncStatus{State: model.StateIdle, UpdatedAt: now()},
		subs:   make(map[int]chan model.SyncStatus),
		now:    now,
	}
}

func (p *publisher) snapshot() model.SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *publisher) update(fn func(s *model.SyncStatus)) model.SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	fn(&p.status)
	p.status.UpdatedAt = p.now()
	for _, ch := range p.subs {
		offer(ch, p.status)
	}
	return p.status
}

func (p *publisher) subscribe() (<-chan model.SyncStatus, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextID
	p.nextID++
	ch := make(chan model.SyncStatus, 1)
	ch <- p.status
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.subs, id)
			close(ch)
		})
	}
}

// offer replaces a pending value instead of blocking.
func offer(ch chan model.SyncStatus, s model.SyncStatus) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
