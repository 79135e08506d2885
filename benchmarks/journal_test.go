package benchmarks

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/event"
	"github.com/randalmurphal/asyncflow/pkg/asyncflow/journal"
)

// Order is a typical emitted payload.
type Order struct {
	ID       string
	Items    []int
	Metadata map[string]string
}

func createOrder() Order {
	return Order{
		ID:    "order-1",
		Items: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		Metadata: map[string]string{
			"key1": "value1",
			"key2": "value2",
		},
	}
}

func createEntry(b *testing.B) *journal.Entry {
	b.Helper()
	args, err := json.Marshal([]any{createOrder()})
	if err != nil {
		b.Fatal(err)
	}
	return &journal.Entry{
		ID:        uuid.New().String(),
		EmitterID: "bench",
		Event:     "order.created",
		Args:      args,
		Timestamp: time.Now().UTC(),
	}
}

func createSQLiteStore(b *testing.B) *journal.SQLiteStore {
	b.Helper()
	store, err := journal.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { store.Close() })
	return store
}

// BenchmarkMemoryStore_Append measures in-memory journal appends.
func BenchmarkMemoryStore_Append(b *testing.B) {
	store := journal.NewMemoryStore()
	entry := createEntry(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Append(ctx, entry)
	}
}

// BenchmarkSQLiteStore_Append measures SQLite journal appends.
func BenchmarkSQLiteStore_Append(b *testing.B) {
	store := createSQLiteStore(b)
	entry := createEntry(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entry.ID = uuid.New().String()
		_ = store.Append(ctx, entry)
	}
}

// BenchmarkSQLiteStore_List measures reading a page of journal entries.
func BenchmarkSQLiteStore_List(b *testing.B) {
	store := createSQLiteStore(b)
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		_ = store.Append(ctx, createEntry(b))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.List(ctx, journal.Query{Event: "order.created", Limit: 100})
	}
}

// BenchmarkEmit_WithJournal measures emission with a memory journal attached.
func BenchmarkEmit_WithJournal(b *testing.B) {
	e := event.New()
	journal.Attach(e, journal.NewMemoryStore(), nil)
	order := createOrder()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Emit("order.created", order)
	}
}

// BenchmarkEmit_WithoutJournal is the baseline for BenchmarkEmit_WithJournal.
func BenchmarkEmit_WithoutJournal(b *testing.B) {
	e := event.New()
	e.On("order.created", noopListener)
	order := createOrder()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Emit("order.created", order)
	}
}
