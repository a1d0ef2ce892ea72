package db

import (
	"sync"
)

// Revision identifies a committed state of one user's watchlist
type Revision struct {
	UserID   string
	Revision uint64
}

// Notifier fans out committed revisions to per-user subscribers. Each
// subscriber holds at most one pending revision: a slow reader skips the
// intermediate ones and only sees the latest.
type Notifier struct {
	mu        sync.Mutex
	revisions map[string]uint64
	subs      map[string]map[int]chan Revision
	nextID    int
}

// NewNotifier creates an empty notifier
func NewNotifier() *Notifier {
	return &Notifier{
		revisions: make(map[string]uint64),
		subs:      make(map[string]map[int]chan Revision),
	}
}

// Current returns the latest revision of a user, 0 before the first write
func (n *Notifier) Current(userID string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revisions[userID]
}

// Publish bumps the revision of a user and wakes its subscribers
func (n *Notifier) Publish(userID string) uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.revisions[userID]++
	rev := Revision{UserID: userID, Revision: n.revisions[userID]}

	for _, ch := range n.subs[userID] {
		select {
		case ch <- rev:
		default:
			// drop the stale pending revision, then deliver the new one
			select {
			case <-ch:
			default:
			}
			ch <- rev
		}
	}
	return rev.Revision
}

// Subscribe returns a channel receiving the user's revisions and a cancel
// func that closes it. Cancel is safe to call more than once.
func (n *Notifier) Subscribe(userID string) (<-chan Revision, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan Revision, 1)
	if n.subs[userID] == nil {
		n.subs[userID] = make(map[int]chan Revision)
	}
	n.subs[userID][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[userID], id)
			if len(n.subs[userID]) == 0 {
				delete(n.subs, userID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of live subscriptions of a user
func (n *Notifier) Subscribers(userID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[userID])
}
