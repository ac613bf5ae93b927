package repo

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Ritikajaiswal2707/temple-crowdfunding/internal/infra"
)

type simpleRow struct {
	values []any
	err    error
}

func (r simpleRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.values == nil {
		return pgx.ErrNoRows
	}
	return assign(dest, r.values)
}

// assign copies values into scan destinations. A nil value leaves the zero value.
func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(target.Type()) {
			return fmt.Errorf("scan column %d: cannot assign %s to %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

type testRows struct {
	data [][]any
	idx  int
}

func (r *testRows) Close()                                       {}
func (r *testRows) Err() error                                   { return nil }
func (r *testRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *testRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *testRows) Conn() *pgx.Conn                              { return nil }
func (r *testRows) RawValues() [][]byte                          { return nil }

func (r *testRows) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (r *testRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *testRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.idx-1])
}

// fakeDB scripts responses per query constant and records every call.
type fakeDB struct {
	mu      sync.Mutex
	rows    map[string]func(args []any) simpleRow
	execs   map[string]func(args []any) (int64, error)
	queries map[string]func(args []any) [][]any
	calls   []call
	txs     int
}

type call struct {
	query string
	args  []any
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		rows:    map[string]func([]any) simpleRow{},
		execs:   map[string]func([]any) (int64, error){},
		queries: map[string]func([]any) [][]any{},
	}
}

func (f *fakeDB) record(query string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{query: query, args: args})
}

func (f *fakeDB) called(query string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.query == query {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeDB) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if err := infra.ValidateMarker(query); err != nil {
		return pgconn.CommandTag{}, err
	}
	f.record(query, args)
	handler, ok := f.execs[query]
	if !ok {
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	n, err := handler(args)
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), err
}

func (f *fakeDB) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if err := infra.ValidateMarker(query); err != nil {
		return simpleRow{err: err}
	}
	f.record(query, args)
	handler, ok := f.rows[query]
	if !ok {
		return simpleRow{}
	}
	return handler(args)
}

func (f *fakeDB) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if err := infra.ValidateMarker(query); err != nil {
		return nil, err
	}
	f.record(query, args)
	handler, ok := f.queries[query]
	if !ok {
		return &testRows{}, nil
	}
	return &testRows{data: handler(args)}, nil
}

func (f *fakeDB) InTx(_ context.Context, fn func(infra.SQLExecutor) error) error {
	f.mu.Lock()
	f.txs++
	f.mu.Unlock()
	return fn(f)
}

var _ infra.TxExecutor = (*fakeDB)(nil)
