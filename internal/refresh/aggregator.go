// Package refresh merges external change signals (auth state flips, role
// changes, config file edits) into a single "re-evaluate all guards now"
// trigger for the router.
package refresh

import "sync"

// Notifier is a push-based change source: Subscribe registers a callback and
// returns the function that unregisters it.
type Notifier interface {
	Subscribe(fire func()) (unsubscribe func())
}

// DetachFunc removes a source from an aggregator. Safe to call more than
// once and after Close.
type DetachFunc func()

// Aggregator fires one trigger whenever any attached source fires. Sources
// attach and detach dynamically; Close releases every subscription, and a
// source firing after detach or Close is silently ignored.
type Aggregator struct {
	mu        sync.Mutex
	onRefresh func()
	closed    bool
	nextID    int
	detachers map[int]func()
}

// New creates an aggregator delivering to onRefresh.
func New(onRefresh func()) *Aggregator {
	return &Aggregator{
		onRefresh: onRefresh,
		detachers: make(map[int]func()),
	}
}

// AttachNotifier subscribes to a push-based source.
func (a *Aggregator) AttachNotifier(n Notifier) DetachFunc {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return func() {}
	}
	id := a.nextID
	a.nextID++
	a.mu.Unlock()

	alive := &sourceState{}
	unsubscribe := n.Subscribe(func() {
		if alive.detached() {
			return
		}
		a.fire()
	})

	detach := func() {
		alive.markDetached()
		unsubscribe()
		a.drop(id)
	}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		detach()
		return func() {}
	}
	a.detachers[id] = detach
	a.mu.Unlock()
	return detach
}

// AttachChannel subscribes to an async stream. Every receive fires the
// trigger; a closed channel detaches the source.
func (a *Aggregator) AttachChannel(ch <-chan struct{}) DetachFunc {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return func() {}
	}
	id := a.nextID
	a.nextID++
	stop := make(chan struct{})
	var once sync.Once
	detach := func() {
		once.Do(func() { close(stop) })
		a.drop(id)
	}
	a.detachers[id] = detach
	a.mu.Unlock()

	go func() {
		for {
			select {
			case <-stop:
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				// A receive can race a concurrent detach; re-check before
				// propagating.
				select {
				case <-stop:
					return
				default:
				}
				a.fire()
			}
		}
	}()
	return detach
}

// Close releases every subscription. Further attaches are no-ops.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	detachers := make([]func(), 0, len(a.detachers))
	for _, d := range a.detachers {
		detachers = append(detachers, d)
	}
	a.detachers = make(map[int]func())
	a.mu.Unlock()

	for _, d := range detachers {
		d()
	}
}

func (a *Aggregator) fire() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	onRefresh := a.onRefresh
	a.mu.Unlock()
	if onRefresh != nil {
		onRefresh()
	}
}

func (a *Aggregator) drop(id int) {
	a.mu.Lock()
	delete(a.detachers, id)
	a.mu.Unlock()
}

// sourceState tracks whether a notifier subscription has been detached, for
// notifiers that keep calling callbacks after unsubscribe.
type sourceState struct {
	mu   sync.Mutex
	gone bool
}

func (s *sourceState) markDetached() {
	s.mu.Lock()
	s.gone = true
	s.mu.Unlock()
}

func (s *sourceState) detached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gone
}

// Signal is a minimal in-process Notifier: Notify fires every current
// subscriber. It stands in for the listenable objects collaborators own.
type Signal struct {
	mu          sync.Mutex
	nextID      int
	subscribers map[int]func()
}

// NewSignal creates an empty signal.
func NewSignal() *Signal {
	return &Signal{subscribers: make(map[int]func())}
}

// Subscribe registers fire and returns its unsubscribe function.
func (s *Signal) Subscribe(fire func()) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fire
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Notify fires every current subscriber.
func (s *Signal) Notify() {
	s.mu.Lock()
	fires := make([]func(), 0, len(s.subscribers))
	for _, f := range s.subscribers {
		fires = append(fires, f)
	}
	s.mu.Unlock()
	for _, f := range fires {
		f()
	}
}
