// Package reconcile implements get-or-create-by-natural-key semantics
// on top of the relational store.
//
// A Reconciler is scoped to one unit of work (one request or one batch
// import) and caches every entity it resolves, so repeated calls with an
// equal natural key return the identical instance without touching the
// database. It is not safe for concurrent use; concurrent units of work
// each get their own Reconciler and rely on the database's unique
// constraints to arbitrate creation races.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"gorm.io/gorm"

	"github.com/uchicago-cs/chisubmit-sub001/pkg/store"
)

// ErrContractViolation is returned when a constructor produces an entity
// whose natural key does not match the key it was resolved under. This
// indicates a programming error, not a data problem, and callers must
// not swallow it.
var ErrContractViolation = errors.New("reconcile: constructed entity does not match its natural key")

// Key is a natural key: a business-meaningful identifier map used to
// deduplicate entities, e.g. {"id": "jdoe"} for a user or
// {"course_id": "cmsc23300", "id": "p1"} for an assignment.
type Key map[string]any

// hash computes a deterministic FNV-1a hash over the sorted key/value
// rendering of the natural key.
func (k Key) hash() uint64 {
	fields := make([]string, 0, len(k))
	for field := range k {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	h := fnv.New64a()
	for _, field := range fields {
		fmt.Fprintf(h, "%s=%v;", field, k[field])
	}
	return h.Sum64()
}

// equal reports whether two keys have identical fields and values,
// compared by their canonical string rendering.
func (k Key) equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for field, value := range k {
		otherValue, ok := other[field]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", value) != fmt.Sprintf("%v", otherValue) {
			return false
		}
	}
	return true
}

type cacheKey struct {
	kind string
	hash uint64
}

// Reconciler resolves entities by natural key within one unit of work.
type Reconciler struct {
	db    *gorm.DB
	cache map[cacheKey]any
}

// New creates a Reconciler for a single unit of work.
func New(db *gorm.DB) *Reconciler {
	return &Reconciler{
		db:    db,
		cache: make(map[cacheKey]any),
	}
}

// Resolve returns the entity of the given kind matching the natural key,
// creating it when it doesn't exist yet.
//
// Resolution order: unit-of-work cache, then database lookup, then
// construct-and-insert. When the insert loses a creation race against a
// concurrent unit of work, the unique constraint violation is recovered
// by re-querying the winner's row instead of surfacing an error.
//
// construct must produce an entity whose natural key (as reported by
// keyOf) equals the requested key; a mismatch returns
// ErrContractViolation.
func Resolve[T any](ctx context.Context, r *Reconciler, kind string, key Key, construct func() (*T, error), keyOf func(*T) Key) (*T, error) {
	ck := cacheKey{kind: kind, hash: key.hash()}

	if cached, ok := r.cache[ck]; ok {
		entity, ok := cached.(*T)
		if !ok {
			return nil, fmt.Errorf("reconcile: cache holds %T for kind %q, expected %T", cached, kind, (*T)(nil))
		}
		// Hash collisions across distinct keys of the same kind are
		// possible in principle; reject a cached entity whose key
		// doesn't actually match.
		if keyOf(entity).equal(key) {
			return entity, nil
		}
	}

	var existing T
	err := r.db.WithContext(ctx).Where(map[string]any(key)).First(&existing).Error
	if err == nil {
		r.cache[ck] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("reconcile: lookup failed for %s: %w", kind, err)
	}

	entity, err := construct()
	if err != nil {
		return nil, fmt.Errorf("reconcile: constructor failed for %s: %w", kind, err)
	}
	if !keyOf(entity).equal(key) {
		return nil, fmt.Errorf("%w: kind %s, requested %v, constructed %v",
			ErrContractViolation, kind, key, keyOf(entity))
	}

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if store.IsUniqueConstraintError(err) {
			// Lost the race: a concurrent unit of work inserted the
			// same natural key first. Return its row.
			var winner T
			requery := r.db.WithContext(ctx).Where(map[string]any(key)).First(&winner).Error
			if requery != nil {
				return nil, fmt.Errorf("reconcile: re-resolve after lost race failed for %s: %w", kind, requery)
			}
			r.cache[ck] = &winner
			return &winner, nil
		}
		return nil, fmt.Errorf("reconcile: insert failed for %s: %w", kind, err)
	}

	r.cache[ck] = entity
	return entity, nil
}
