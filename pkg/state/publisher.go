package state

import (
	"context"
	"sync"
)

// Publisher holds a current value and fans it out to subscribers. Each subscriber
// sees the value at subscription time and then only the newest value; intermediate
// updates are dropped for slow readers.
type Publisher[T any] struct {
	mu      sync.Mutex
	value   T
	nextID  int
	streams map[int]chan T
}

// NewPublisher returns a publisher holding initial.
func NewPublisher[T any](initial T) *Publisher[T] {
	return &Publisher[T]{value: initial, streams: make(map[int]chan T)}
}

// Get returns the current value.
func (p *Publisher[T]) Get() T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Set replaces the value and notifies subscribers.
func (p *Publisher[T]) Set(value T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = value
	p.broadcastLocked()
}

// Update applies fn to the current value atomically and publishes the result.
func (p *Publisher[T]) Update(fn func(T) T) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = fn(p.value)
	p.broadcastLocked()
	return p.value
}

// Subscribe returns a channel closed once ctx is done.
func (p *Publisher[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.streams[id] = ch
	ch <- p.value
	p.mu.Unlock()

	go func() {
		<-ctx.Done()
		p.mu.Lock()
		delete(p.streams, id)
		close(ch)
		p.mu.Unlock()
	}()
	return ch
}

func (p *Publisher[T]) broadcastLocked() {
	for _, ch := range p.streams {
		select {
		case <-ch:
		default:
		}
		ch <- p.value
	}
}
