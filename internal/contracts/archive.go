// Package contracts implements the ContractsArchive: the token→contract
// index, FIFO expiry queue, and expired-token set that back lock_buy/buy and
// lock_sell/sell. The front-of-queue scan-and-stop shape of PopExpired is
// grounded on internal/strategy/flow_tracker.go's evictStaleLocked, which
// trims a time-ordered slice from the front until it finds an entry that is
// not yet stale; the token-index-plus-metadata-map shape of the struct is
// grounded on internal/market/book.go's dual book+lastHash bookkeeping.
package contracts

import (
	"math/rand"
	"sync"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
const tokenLength = 10

// Archive is one side (buy or sell) of the market's lock-contract
// bookkeeping. The zero value is not usable; construct with New.
type Archive struct {
	mu      sync.Mutex
	active  map[string]types.LockContract // token -> contract, active reservations
	queue   []types.LockContract          // FIFO, ordered by non-decreasing ExpiryTick
	expired map[string]struct{}           // tokens swept without settlement

	rng *rand.Rand
}

// New builds an empty Archive. rng is the injected random source used to
// mint tokens (spec §1 treats random-number sourcing as an external
// collaborator).
func New(rng *rand.Rand) *Archive {
	return &Archive{
		active:  make(map[string]types.LockContract),
		queue:   make([]types.LockContract, 0),
		expired: make(map[string]struct{}),
		rng:     rng,
	}
}

// MintToken produces a fresh 10-character [0-9a-z] token unique across this
// archive's lifetime, regenerating on collision.
func (a *Archive) MintToken() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	for {
		buf := make([]byte, tokenLength)
		for i := range buf {
			buf[i] = tokenAlphabet[a.rng.Intn(len(tokenAlphabet))]
		}
		token := string(buf)
		if _, active := a.active[token]; active {
			continue
		}
		if _, exp := a.expired[token]; exp {
			continue
		}
		return token
	}
}

// Add inserts contract into the token map and appends it to the expiry
// queue. Callers must add contracts in non-decreasing ExpiryTick order (true
// because TTL is constant and the clock is monotonic).
func (a *Archive) Add(contract types.LockContract) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active[contract.Token] = contract
	a.queue = append(a.queue, contract)
}

// Get returns the active contract for token, and whether it is present.
func (a *Archive) Get(token string) (types.LockContract, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.active[token]
	return c, ok
}

// IsExpired reports whether token has been swept into the expired-set.
func (a *Archive) IsExpired(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.expired[token]
	return ok
}

// Consume removes token from the active map and returns the removed
// contract. The queue entry is left in place; PopExpired skips it on sight
// because it is no longer in the active map.
func (a *Archive) Consume(token string) (types.LockContract, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c, ok := a.active[token]
	if !ok {
		return types.LockContract{}, false
	}
	delete(a.active, token)
	return c, true
}

// PopExpired repeatedly inspects the front of the queue. A front with
// ExpiryTick <= now is popped; if it was still active (never settled) it is
// moved to the expired-set and returned. If it was already settled it is
// silently dropped and the scan continues. The scan stops at the first
// front with ExpiryTick > now, or when the queue empties — the same
// scan-until-fresh shape as evictStaleLocked. Idempotent for a fixed now:
// a second call with the same now finds nothing left to pop.
func (a *Archive) PopExpired(now uint64) []types.LockContract {
	a.mu.Lock()
	defer a.mu.Unlock()

	var swept []types.LockContract
	i := 0
	for ; i < len(a.queue); i++ {
		front := a.queue[i]
		if front.ExpiryTick > now {
			break
		}
		if c, ok := a.active[front.Token]; ok {
			delete(a.active, front.Token)
			a.expired[front.Token] = struct{}{}
			swept = append(swept, c)
		}
	}
	a.queue = a.queue[i:]
	return swept
}

// Outstanding returns every still-active contract, used by the market
// destructor to restore reserved resources before teardown.
func (a *Archive) Outstanding() []types.LockContract {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.LockContract, 0, len(a.active))
	for _, c := range a.active {
		out = append(out, c)
	}
	return out
}
