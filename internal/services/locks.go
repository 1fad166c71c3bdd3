package services

import "sync"

// pieceLocks hands out one mutex per piece id. The facade holds a piece's
// mutex across the registry-write + audit-append pair so the historique stays
// a linearizable record of that piece; writes to different pieces never
// contend. Locks are never reclaimed: the piece set only grows and a mutex is
// two words.
type pieceLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newPieceLocks() *pieceLocks {
	return &pieceLocks{locks: make(map[uint]*sync.Mutex)}
}

func (p *pieceLocks) get(id uint) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	return l
}
