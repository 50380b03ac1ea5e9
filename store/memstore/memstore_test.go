package memstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/disposable/store/memstore"
	"github.com/optimode/disposable/types"
)

func TestStore_PutGetDelete(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "k", types.Entry{Domains: types.NewDomainSet("0-mail.com"), ExpiresAt: expires}))
	e, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, e.Domains.Contains("0-mail.com"))
	assert.True(t, e.ExpiresAt.Equal(expires))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete(ctx, "k"))
	_, found, _ = s.Get(ctx, "k")
	assert.False(t, found)

	// Deleting a missing key is fine.
	assert.NoError(t, s.Delete(ctx, "k"))
}

func TestStore_ReturnsCopy(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", types.Entry{Domains: types.NewDomainSet("a.com")}))

	e1, _, _ := s.Get(ctx, "k")
	e1.Domains.Add("b.com")

	e2, _, _ := s.Get(ctx, "k")
	assert.False(t, e2.Domains.Contains("b.com"))
}

func TestStore_ConcurrentWritersLastWins(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Put(ctx, "k", types.Entry{Domains: types.NewDomainSet("a.com")}))
			_, _, err := s.Get(ctx, "k")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}
