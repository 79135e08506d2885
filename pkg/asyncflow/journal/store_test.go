package journal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/journal"
)

// storeFactories returns every Store implementation under test.
func storeFactories(t *testing.T) map[string]func() journal.Store {
	return map[string]func() journal.Store{
		"memory": func() journal.Store {
			return journal.NewMemoryStore()
		},
		"sqlite": func() journal.Store {
			store, err := journal.NewSQLiteStore(filepath.Join(t.TempDir(), "journal.db"))
			require.NoError(t, err)
			return store
		},
	}
}

func newEntry(emitterID, name string, args string) *journal.Entry {
	return &journal.Entry{
		ID:        fmt.Sprintf("%s-%s-%d", emitterID, name, time.Now().UnixNano()),
		EmitterID: emitterID,
		Event:     name,
		Args:      json.RawMessage(args),
		Timestamp: time.Now().UTC(),
	}
}

func TestStoreContract(t *testing.T) {
	for name, factory := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("append assigns increasing sequences", func(t *testing.T) {
				store := factory()
				defer store.Close()

				first := newEntry("em", "a", `[1]`)
				second := newEntry("em", "b", `[2]`)
				require.NoError(t, store.Append(ctx, first))
				require.NoError(t, store.Append(ctx, second))

				assert.Greater(t, first.Sequence, int64(0))
				assert.Greater(t, second.Sequence, first.Sequence)
			})

			t.Run("list preserves order and content", func(t *testing.T) {
				store := factory()
				defer store.Close()

				require.NoError(t, store.Append(ctx, newEntry("em", "a", `[1]`)))
				require.NoError(t, store.Append(ctx, newEntry("em", "b", `["x",true]`)))
				require.NoError(t, store.Append(ctx, newEntry("em", "a", `[]`)))

				entries, err := store.List(ctx, journal.Query{})
				require.NoError(t, err)
				require.Len(t, entries, 3)

				assert.Equal(t, "a", entries[0].Event)
				assert.JSONEq(t, `[1]`, string(entries[0].Args))
				assert.Equal(t, "b", entries[1].Event)
				assert.JSONEq(t, `["x",true]`, string(entries[1].Args))
				assert.Equal(t, "em", entries[2].EmitterID)
				assert.False(t, entries[2].Timestamp.IsZero())
			})

			t.Run("query filters", func(t *testing.T) {
				store := factory()
				defer store.Close()

				for i := 0; i < 3; i++ {
					require.NoError(t, store.Append(ctx, newEntry("one", "tick", `[]`)))
					require.NoError(t, store.Append(ctx, newEntry("two", "tock", `[]`)))
				}

				byEvent, err := store.List(ctx, journal.Query{Event: "tick"})
				require.NoError(t, err)
				assert.Len(t, byEvent, 3)

				byEmitter, err := store.List(ctx, journal.Query{EmitterID: "two"})
				require.NoError(t, err)
				assert.Len(t, byEmitter, 3)

				limited, err := store.List(ctx, journal.Query{Limit: 2})
				require.NoError(t, err)
				require.Len(t, limited, 2)

				after, err := store.List(ctx, journal.Query{AfterSequence: limited[1].Sequence})
				require.NoError(t, err)
				assert.Len(t, after, 4)

				none, err := store.List(ctx, journal.Query{Event: "missing"})
				require.NoError(t, err)
				assert.NotNil(t, none)
				assert.Empty(t, none)
			})

			t.Run("count", func(t *testing.T) {
				store := factory()
				defer store.Close()

				n, err := store.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 0, n)

				require.NoError(t, store.Append(ctx, newEntry("em", "a", `[]`)))
				n, err = store.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, 1, n)
			})

			t.Run("closed store", func(t *testing.T) {
				store := factory()
				require.NoError(t, store.Close())
				require.NoError(t, store.Close())

				assert.ErrorIs(t, store.Append(ctx, newEntry("em", "a", `[]`)), journal.ErrStoreClosed)
				_, err := store.List(ctx, journal.Query{})
				assert.ErrorIs(t, err, journal.ErrStoreClosed)
				_, err = store.Count(ctx)
				assert.ErrorIs(t, err, journal.ErrStoreClosed)
			})

			t.Run("concurrent appends", func(t *testing.T) {
				store := factory()
				defer store.Close()

				const numGoroutines = 20
				const numOps = 10

				var wg sync.WaitGroup
				wg.Add(numGoroutines)
				for i := 0; i < numGoroutines; i++ {
					go func(id int) {
						defer wg.Done()
						for j := 0; j < numOps; j++ {
							e := newEntry("em", "e", `[]`)
							e.ID = fmt.Sprintf("g%d-%d", id, j)
							_ = store.Append(ctx, e)
						}
					}(i)
				}
				wg.Wait()

				n, err := store.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, numGoroutines*numOps, n)
			})
		})
	}
}
