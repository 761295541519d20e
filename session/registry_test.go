package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRegistryTest(t *testing.T) (*Registry, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRegistry(rdb, ""), rdb, mr
}

func testMeta(credential string) Meta {
	return Meta{
		IP:         "203.0.113.5",
		LoginAt:    1700000000,
		UserAgent:  "test-agent/1.0",
		Credential: credential,
	}
}

func TestCreateListExists(t *testing.T) {
	reg, _, _ := newRegistryTest(t)
	ctx := context.Background()

	ids := []string{NewID(), NewID(), NewID()}
	for _, sid := range ids {
		if err := reg.Create(ctx, 42, sid, testMeta("cred-"+sid)); err != nil {
			t.Fatalf("create %s: %v", sid, err)
		}
	}

	sessions, err := reg.List(ctx, 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != len(ids) {
		t.Fatalf("expected %d sessions, got %d", len(ids), len(sessions))
	}
	for _, sid := range ids {
		meta, ok := sessions[sid]
		if !ok {
			t.Fatalf("session %s missing from list", sid)
		}
		if meta.IP != "203.0.113.5" || meta.UserAgent != "test-agent/1.0" {
			t.Fatalf("meta round trip mismatch: %+v", meta)
		}
		if meta.Credential != "cred-"+sid {
			t.Fatalf("credential mismatch for %s: %q", sid, meta.Credential)
		}

		ok, err := reg.Exists(ctx, 42, sid)
		if err != nil {
			t.Fatalf("exists %s: %v", sid, err)
		}
		if !ok {
			t.Fatalf("expected session %s to exist", sid)
		}
	}
}

func TestExistsMissingUserIsEmptySet(t *testing.T) {
	reg, _, _ := newRegistryTest(t)
	ctx := context.Background()

	ok, err := reg.Exists(ctx, 99, "never-created")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("expected absent mapping to read as empty set")
	}

	sessions, err := reg.List(ctx, 99)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty snapshot, got %v", sessions)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	reg, _, _ := newRegistryTest(t)
	ctx := context.Background()

	sid := NewID()
	if err := reg.Create(ctx, 42, sid, testMeta("")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reg.Remove(ctx, 42, sid); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := reg.Remove(ctx, 42, sid); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if err := reg.Remove(ctx, 42, "never-existed"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}

	ok, err := reg.Exists(ctx, 42, sid)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatal("expected session gone after remove")
	}
}

func TestRemovePurgesCredentialCacheEntry(t *testing.T) {
	reg, rdb, _ := newRegistryTest(t)
	ctx := context.Background()

	sid := NewID()
	if err := reg.Create(ctx, 42, sid, testMeta("cred-1")); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Simulate a decoded-identity cache entry under the raw credential.
	if err := rdb.Set(ctx, "cred-1", `{"id":42}`, 0).Err(); err != nil {
		t.Fatalf("seed cache entry: %v", err)
	}

	if err := reg.Remove(ctx, 42, sid); err != nil {
		t.Fatalf("remove: %v", err)
	}

	n, err := rdb.Exists(ctx, "cred-1").Result()
	if err != nil {
		t.Fatalf("exists cred-1: %v", err)
	}
	if n != 0 {
		t.Fatal("expected cached identity purged with its session")
	}
}

func TestRemoveAllPurgesCredentialsAndRegistry(t *testing.T) {
	reg, rdb, _ := newRegistryTest(t)
	ctx := context.Background()

	s1, s2 := NewID(), NewID()
	if err := reg.Create(ctx, 7, s1, testMeta("cred-1")); err != nil {
		t.Fatalf("create s1: %v", err)
	}
	if err := reg.Create(ctx, 7, s2, testMeta("cred-2")); err != nil {
		t.Fatalf("create s2: %v", err)
	}
	for _, credential := range []string{"cred-1", "cred-2"} {
		if err := rdb.Set(ctx, credential, `{"id":7}`, 0).Err(); err != nil {
			t.Fatalf("seed cache entry %s: %v", credential, err)
		}
	}

	if err := reg.RemoveAll(ctx, 7); err != nil {
		t.Fatalf("remove all: %v", err)
	}

	sessions, err := reg.List(ctx, 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("expected empty registry, got %v", sessions)
	}
	n, err := rdb.Exists(ctx, "cred-1", "cred-2").Result()
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if n != 0 {
		t.Fatal("expected both cached identities purged")
	}
}

func TestRemoveAllWithNoSessions(t *testing.T) {
	reg, _, _ := newRegistryTest(t)

	if err := reg.RemoveAll(context.Background(), 7); err != nil {
		t.Fatalf("remove all on empty registry: %v", err)
	}
}

func TestConcurrentCreatesDoNotDropSessions(t *testing.T) {
	reg, _, _ := newRegistryTest(t)
	ctx := context.Background()

	const logins = 16
	var wg sync.WaitGroup
	errs := make(chan error, logins)
	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- reg.Create(ctx, 42, NewID(), testMeta(""))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent create: %v", err)
		}
	}

	sessions, err := reg.List(ctx, 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != logins {
		t.Fatalf("expected %d sessions after concurrent logins, got %d", logins, len(sessions))
	}
}

func TestListSkipsCorruptEntries(t *testing.T) {
	reg, rdb, _ := newRegistryTest(t)
	ctx := context.Background()

	sid := NewID()
	if err := reg.Create(ctx, 42, sid, testMeta("")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := rdb.HSet(ctx, DefaultKeyPrefix+"42", "corrupt", "{not json").Err(); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	sessions, err := reg.List(ctx, 42)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected corrupt entry skipped, got %v", sessions)
	}
	if _, ok := sessions[sid]; !ok {
		t.Fatal("expected intact entry to survive")
	}
}

func TestStoreUnavailableSentinel(t *testing.T) {
	reg, _, mr := newRegistryTest(t)
	ctx := context.Background()
	mr.Close()

	if err := reg.Create(ctx, 42, NewID(), testMeta("")); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("create: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := reg.Exists(ctx, 42, "sid"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("exists: expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := reg.List(ctx, 42); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("list: expected ErrStoreUnavailable, got %v", err)
	}
	if err := reg.Remove(ctx, 42, "sid"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("remove: expected ErrStoreUnavailable, got %v", err)
	}
	if err := reg.RemoveAll(ctx, 42); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("remove all: expected ErrStoreUnavailable, got %v", err)
	}
}
