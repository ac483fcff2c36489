package registry

import (
	"errors"
	"fmt"
)

// MaxNumericIDs bounds the pool. The default LED pattern table cycles
// modulo 10, so any bound above that only affects how many controllers can
// hold an ID at once.
const MaxNumericIDs = 64

// ErrPoolExhausted is returned when every numeric ID is in use.
var ErrPoolExhausted = errors.New("registry: numeric ID pool exhausted")

// idPool hands out the smallest free non-negative integer below
// MaxNumericIDs. Callers hold the Registry mutex.
type idPool struct {
	used [MaxNumericIDs]bool
}

func (p *idPool) acquire() (int, error) {
	for id := range p.used {
		if !p.used[id] {
			p.used[id] = true
			return id, nil
		}
	}
	return 0, ErrPoolExhausted
}

func (p *idPool) release(id int) {
	if id < 0 || id >= MaxNumericIDs {
		panic(fmt.Sprintf("registry: release of out-of-range numeric ID %d", id))
	}
	if !p.used[id] {
		panic(fmt.Sprintf("registry: double release of numeric ID %d", id))
	}
	p.used[id] = false
}
