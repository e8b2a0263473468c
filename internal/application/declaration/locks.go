package declaration

import (
	"fmt"
	"sync"
)

// periodLocks serializa las operaciones de escritura sobre un mismo
// (tenant, período) dentro del proceso. La capa de persistencia añade el
// update condicional por versión para escritores en otros procesos.
type periodLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPeriodLocks() *periodLocks {
	return &periodLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire bloquea el período y devuelve la función de liberación.
func (p *periodLocks) acquire(tenantID string, month, year int) func() {
	key := fmt.Sprintf("%s|%02d|%d", tenantID, month, year)

	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &sync.Mutex{}
		p.locks[key] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
