package store

import (
	"slices"
	"sync"
	"time"
)

// State состояние загрузки домена
type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateRefreshing State = "refreshing"
	StateError      State = "error"
)

// Snapshot копия коллекции домена на момент чтения
type Snapshot[T any] struct {
	Items     []T
	State     State
	Err       error
	Loaded    bool
	UpdatedAt time.Time
}

// Busy идет загрузка
func (s Snapshot[T]) Busy() bool {
	return s.State == StateLoading || s.State == StateRefreshing
}

// Stale данные есть, но последняя загрузка завершилась ошибкой
func (s Snapshot[T]) Stale() bool {
	return s.State == StateError && s.Loaded
}

// domain коллекция с машиной состояний
// idle -> loading -> ready|error; ready -> refreshing -> ready|error
type domain[T any] struct {
	mu        sync.RWMutex
	items     []T
	state     State
	err       error
	loaded    bool
	updatedAt time.Time
}

func newDomain[T any]() *domain[T] {
	return &domain[T]{state: StateIdle}
}

func (d *domain[T]) snapshot() Snapshot[T] {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Snapshot[T]{
		Items:     slices.Clone(d.items),
		State:     d.state,
		Err:       d.err,
		Loaded:    d.loaded,
		UpdatedAt: d.updatedAt,
	}
}

func (d *domain[T]) ready() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state == StateReady
}

func (d *domain[T]) isLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// begin переводит домен в loading или refreshing
func (d *domain[T]) begin() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.loaded {
		d.state = StateRefreshing
	} else {
		d.state = StateLoading
	}
}

// finish заменяет коллекцию целиком при успехе.
// При ошибке последний снимок остается нетронутым.
func (d *domain[T]) finish(items []T, err error, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.state = StateError
		d.err = err
		return
	}

	d.items = items
	d.state = StateReady
	d.err = nil
	d.loaded = true
	d.updatedAt = at
}

// update изменяет коллекцию под блокировкой
func (d *domain[T]) update(fn func([]T) []T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = fn(d.items)
}

// find возвращает первый элемент, удовлетворяющий условию
func (d *domain[T]) find(match func(T) bool) (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, item := range d.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
