package sqlite

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"sync"
)

// ─── Waiver Pre-Filter ──────────────────────────────────────────────────────
// A Bloom filter over (user, skill, keyword) triples with a successful
// execution on record. The repeat-waiver check runs on every priced
// invocation; most invocations are first-time work, and the filter answers
// "definitely no prior success" without touching the database.
//
// Correctness: the filter is warmed from skill_executions at open and only
// ever gains entries, so a miss is authoritative. A hit may be a false
// positive and always falls through to the SQL lookup.

// waiverFilter is a space-efficient probabilistic set.
type waiverFilter struct {
	mu      sync.RWMutex
	bits    []uint64
	numBits uint
	numHash uint
}

// newWaiverFilter sizes the filter for the expected number of successful
// executions at a 0.1% false positive rate.
//
//	m = -(n * ln(p)) / (ln(2)^2)   — total bits
//	k = (m/n) * ln(2)              — hash functions
func newWaiverFilter(expectedItems int) *waiverFilter {
	if expectedItems <= 0 {
		expectedItems = 10_000
	}
	n := float64(expectedItems)
	p := 0.001

	m := uint(math.Ceil(-(n * math.Log(p)) / (math.Log(2) * math.Log(2))))
	k := uint(math.Ceil(float64(m) / n * math.Log(2)))
	if m == 0 {
		m = 64
	}
	if k == 0 {
		k = 1
	}

	return &waiverFilter{
		bits:    make([]uint64, (m+63)/64),
		numBits: m,
		numHash: k,
	}
}

// waiverKey builds the filter key for one waiver triple. The separator
// cannot appear in a normalized keyword, so keys are unambiguous.
func waiverKey(userID, skillName, keyword string) string {
	return userID + "\x1f" + skillName + "\x1f" + keyword
}

// add inserts a key. Safe to call for a transaction that later rolls back:
// a stale entry only costs one extra SQL lookup.
func (wf *waiverFilter) add(key string) {
	wf.mu.Lock()
	defer wf.mu.Unlock()

	h1, h2 := baseHashes(key)
	for i := uint(0); i < wf.numHash; i++ {
		pos := wf.nthHash(h1, h2, i)
		wf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// mayContain tests a key. False means definitely no prior success.
func (wf *waiverFilter) mayContain(key string) bool {
	wf.mu.RLock()
	defer wf.mu.RUnlock()

	h1, h2 := baseHashes(key)
	for i := uint(0); i < wf.numHash; i++ {
		pos := wf.nthHash(h1, h2, i)
		if wf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// baseHashes computes two independent 32-bit hashes using SHA-256.
// Double hashing (Kirsch-Mitzenmacher) derives k positions from them:
// h_i(x) = h1(x) + i*h2(x).
func baseHashes(key string) (uint32, uint32) {
	sum := sha256.Sum256([]byte(key))
	return binary.BigEndian.Uint32(sum[0:4]), binary.BigEndian.Uint32(sum[4:8])
}

func (wf *waiverFilter) nthHash(h1, h2 uint32, i uint) uint {
	return uint((uint64(h1) + uint64(i)*uint64(h2)) % uint64(wf.numBits))
}

// warmWaiverFilter loads every recorded success triple into the filter.
func (db *DB) warmWaiverFilter(ctx context.Context) error {
	rows, err := db.db.QueryContext(ctx,
		`SELECT DISTINCT user_id, skill_name, primary_keyword
		 FROM skill_executions
		 WHERE status = 'success' AND primary_keyword != ''`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID, skillName, keyword string
		if err := rows.Scan(&userID, &skillName, &keyword); err != nil {
			return err
		}
		db.waivers.add(waiverKey(userID, skillName, keyword))
	}
	return rows.Err()
}
