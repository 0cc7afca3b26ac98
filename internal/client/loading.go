package client

import "sync"

// Loading counts requests in flight and tells subscribers when the client
// switches between idle and busy.
type Loading struct {
	mu        sync.Mutex
	active    int
	nextID    int
	listeners map[int]func(bool)
}

func NewLoading() *Loading {
	return &Loading{listeners: make(map[int]func(bool))}
}

func (l *Loading) Start() {
	l.mu.Lock()
	l.active++
	fire := l.active == 1
	subs := l.snapshot()
	l.mu.Unlock()

	if fire {
		notify(subs, true)
	}
}

// Stop never takes the counter below zero.
func (l *Loading) Stop() {
	l.mu.Lock()
	if l.active == 0 {
		l.mu.Unlock()
		return
	}
	l.active--
	fire := l.active == 0
	subs := l.snapshot()
	l.mu.Unlock()

	if fire {
		notify(subs, false)
	}
}

func (l *Loading) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active > 0
}

func (l *Loading) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Subscribe registers fn and returns a function that removes it.
func (l *Loading) Subscribe(fn func(loading bool)) (unsubscribe func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.listeners, id)
			l.mu.Unlock()
		})
	}
}

func (l *Loading) snapshot() []func(bool) {
	out := make([]func(bool), 0, len(l.listeners))
	for _, fn := range l.listeners {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(bool), loading bool) {
	for _, fn := range subs {
		fn(loading)
	}
}
