package store

import (
	"context"
	"os"
	"sync"
	"testing"
)

// runStoreSuite exercises the behaviour every backend must share.
func runStoreSuite(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("reset leaves an empty table", func(t *testing.T) {
		st := open(t)
		if _, err := st.Insert(ctx, "buy milk", "c1"); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := st.Reset(ctx); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		all, err := st.All(ctx)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if len(all) != 0 {
			t.Fatalf("expected empty table after reset, got %d rows", len(all))
		}
	})

	t.Run("insert assigns increasing numbers", func(t *testing.T) {
		st := open(t)
		first, err := st.Insert(ctx, "a", "c1")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		second, err := st.Insert(ctx, "b", "c1")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if first < 1 {
			t.Errorf("first number = %d, want >= 1", first)
		}
		if second <= first {
			t.Errorf("second number %d not greater than first %d", second, first)
		}
	})

	t.Run("get returns stored row", func(t *testing.T) {
		st := open(t)
		n, err := st.Insert(ctx, "&lt;b&gt;", "conv-9")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		got, found, err := st.Get(ctx, n)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !found {
			t.Fatal("expected row to be found")
		}
		if got.NumeroTarea != n || got.Descripcion != "&lt;b&gt;" || got.ConversationID != "conv-9" {
			t.Errorf("unexpected row %+v", got)
		}
	})

	t.Run("get unknown number", func(t *testing.T) {
		st := open(t)
		_, found, err := st.Get(ctx, 99999)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if found {
			t.Error("expected no row for unknown number")
		}
	})

	t.Run("update reports affected rows", func(t *testing.T) {
		st := open(t)
		n, err := st.Insert(ctx, "old", "c1")
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		affected, err := st.UpdateDescription(ctx, n, "new")
		if err != nil {
			t.Fatalf("UpdateDescription: %v", err)
		}
		if affected != 1 {
			t.Errorf("affected = %d, want 1", affected)
		}
		got, _, err := st.Get(ctx, n)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Descripcion != "new" || got.ConversationID != "c1" {
			t.Errorf("unexpected row after update %+v", got)
		}

		affected, err = st.UpdateDescription(ctx, 99999, "nope")
		if err != nil {
			t.Fatalf("UpdateDescription: %v", err)
		}
		if affected != 0 {
			t.Errorf("affected for unknown row = %d, want 0", affected)
		}
	})

	t.Run("concurrent inserts after reset get distinct numbers", func(t *testing.T) {
		st := open(t)
		const workers = 8

		var wg sync.WaitGroup
		nums := make([]int64, workers)
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				nums[i], errs[i] = st.Insert(ctx, "parallel", "c")
			}(i)
		}
		wg.Wait()

		seen := make(map[int64]bool, workers)
		for i, err := range errs {
			if err != nil {
				t.Fatalf("Insert %d: %v", i, err)
			}
			if seen[nums[i]] {
				t.Fatalf("numero_tarea %d handed out twice: %v", nums[i], nums)
			}
			seen[nums[i]] = true
		}

		// A follow-up insert must still succeed against a single counter.
		next, err := st.Insert(ctx, "after", "c")
		if err != nil {
			t.Fatalf("Insert after concurrent batch: %v", err)
		}
		if seen[next] {
			t.Fatalf("numero_tarea %d reused", next)
		}
		all, err := st.All(ctx)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if len(all) != workers+1 {
			t.Errorf("len(all) = %d, want %d", len(all), workers+1)
		}
	})

	t.Run("all keeps insertion order", func(t *testing.T) {
		st := open(t)
		for _, d := range []string{"one", "two", "three"} {
			if _, err := st.Insert(ctx, d, "c"); err != nil {
				t.Fatalf("Insert: %v", err)
			}
		}
		all, err := st.All(ctx)
		if err != nil {
			t.Fatalf("All: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("len(all) = %d, want 3", len(all))
		}
		for i, want := range []string{"one", "two", "three"} {
			if all[i].Descripcion != want {
				t.Errorf("all[%d] = %q, want %q", i, all[i].Descripcion, want)
			}
		}
	})
}

func resetOrFail(t *testing.T, st Store) Store {
	t.Helper()
	if err := st.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return resetOrFail(t, NewMemory())
	})
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		st, err := OpenSQL(DriverSQLite, "")
		if err != nil {
			t.Fatalf("OpenSQL: %v", err)
		}
		return resetOrFail(t, st)
	})
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("TAREAS_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TAREAS_TEST_MYSQL_DSN not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		st, err := OpenSQL(DriverMySQL, dsn)
		if err != nil {
			t.Fatalf("OpenSQL: %v", err)
		}
		return resetOrFail(t, st)
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TAREAS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TAREAS_TEST_POSTGRES_DSN not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		st, err := OpenSQL(DriverPostgres, dsn)
		if err != nil {
			t.Fatalf("OpenSQL: %v", err)
		}
		return resetOrFail(t, st)
	})
}

func TestNeo4jStore(t *testing.T) {
	uri := os.Getenv("TAREAS_TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TAREAS_TEST_NEO4J_URI not set")
	}
	runStoreSuite(t, func(t *testing.T) Store {
		st, err := OpenNeo4j(context.Background(), uri,
			os.Getenv("TAREAS_TEST_NEO4J_USER"), os.Getenv("TAREAS_TEST_NEO4J_PASSWORD"))
		if err != nil {
			t.Fatalf("OpenNeo4j: %v", err)
		}
		return resetOrFail(t, st)
	})
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenSQLRequiresDSNForNetworkedDrivers(t *testing.T) {
	if _, err := OpenSQL(DriverMySQL, ""); err == nil {
		t.Fatal("expected error when mysql dsn is empty")
	}
}
