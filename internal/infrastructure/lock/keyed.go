// Package lock exclusión mutua por producto dentro de un proceso.
package lock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ inventory.Locker = (*KeyedLocker)(nil)

// KeyedLocker un semáforo de peso 1 por producto; las entradas sin uso se liberan.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem    *semaphore.Weighted
	refs   int
	holder string
}

// NewKeyedLocker construye el locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{entries: make(map[string]*entry)}
}

// Lock espera el acceso exclusivo a productID hasta que ctx venza.
// Al vencer devuelve *domain.ConflictError con el dueño actual.
func (l *KeyedLocker) Lock(ctx context.Context, productID, owner string) (func(), error) {
	e := l.retain(productID)
	if err := e.sem.Acquire(ctx, 1); err != nil {
		l.mu.Lock()
		holder := e.holder
		l.mu.Unlock()
		l.release(productID)
		return nil, &domain.ConflictError{ProductID: productID, Holder: holder, Cause: err}
	}
	l.mu.Lock()
	e.holder = owner
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			e.holder = ""
			l.mu.Unlock()
			e.sem.Release(1)
			l.release(productID)
		})
	}, nil
}

// Len cantidad de productos con lock tomado o en espera.
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *KeyedLocker) retain(key string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyedLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
