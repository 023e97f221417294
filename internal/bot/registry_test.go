package bot

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInsertLookup(t *testing.T) {
	r := NewRegistry()

	s := &Session{Token: "tok-1", TenantID: 1}
	require.NoError(t, r.Insert("tok-1", s))

	assert.Same(t, s, r.Lookup("tok-1"))
	assert.Nil(t, r.Lookup("tok-2"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryInsertDuplicateKeepsExisting(t *testing.T) {
	r := NewRegistry()

	first := &Session{Token: "tok-1", TenantID: 1}
	second := &Session{Token: "tok-1", TenantID: 1}

	require.NoError(t, r.Insert("tok-1", first))
	err := r.Insert("tok-1", second)

	assert.ErrorIs(t, err, ErrDuplicateSession)
	assert.Same(t, first, r.Lookup("tok-1"))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()

	s := &Session{Token: "tok-1", TenantID: 1}
	require.NoError(t, r.Insert("tok-1", s))

	removed := r.Remove("tok-1")
	assert.Same(t, s, removed)
	assert.Nil(t, r.Lookup("tok-1"))
	assert.Equal(t, 0, r.Len())

	assert.Nil(t, r.Remove("tok-1"))
}

func TestRegistryCredentials(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Insert("tok-1", &Session{Token: "tok-1"}))
	require.NoError(t, r.Insert("tok-2", &Session{Token: "tok-2"}))

	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, r.Credentials())
}

// Concurrent inserts under one credential must admit exactly one session.
func TestRegistryConcurrentInsertSingleWinner(t *testing.T) {
	r := NewRegistry()

	const goroutines = 32

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Insert("tok-1", &Session{Token: "tok-1"}); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 1, r.Len())
}
