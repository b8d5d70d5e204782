// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"testing"
	"time"

	"github.com/toeirei/fintrack/internal/model"
)

func TestEncodeTimePerDialect(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	got := encodeTime(model.DialectSQLite, ts)
	if n, ok := got.(int64); !ok || n != ts.Unix() {
		t.Fatalf("sqlite encoding: got %v (%T), want unix %d", got, got, ts.Unix())
	}

	for _, d := range []model.Dialect{model.DialectPostgres, model.DialectMySQL} {
		got := encodeTime(d, ts)
		if tt, ok := got.(time.Time); !ok || !tt.Equal(ts) {
			t.Fatalf("%s encoding: got %v (%T)", d, got, got)
		}
	}
}

func TestEncodeBoolPerDialect(t *testing.T) {
	if got := encodeBool(model.DialectSQLite, true); got != int64(1) {
		t.Fatalf("sqlite true: got %v", got)
	}
	if got := encodeBool(model.DialectSQLite, false); got != int64(0) {
		t.Fatalf("sqlite false: got %v", got)
	}
	if got := encodeBool(model.DialectPostgres, true); got != true {
		t.Fatalf("postgres true: got %v", got)
	}
}

func TestEncodeOptionalsBecomeNull(t *testing.T) {
	if got := encodeNullTime(model.DialectSQLite, nil); got != nil {
		t.Fatalf("nil time: got %v", got)
	}
	if got := encodeNullInt(nil); got != nil {
		t.Fatalf("nil int: got %v", got)
	}
	v := int64(7)
	if got := encodeNullInt(&v); got != int64(7) {
		t.Fatalf("present int: got %v", got)
	}
}

func TestDecodeTimeVariants(t *testing.T) {
	want := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	inputs := []any{
		want,
		want.Unix(),
		float64(want.Unix()),
		"2026-03-14T09:26:53Z",
		"2026-03-14 09:26:53",
		[]byte("2026-03-14T09:26:53Z"),
		"1773480413", // same instant as an epoch string
	}
	if want.Unix() != 1773480413 {
		t.Fatalf("test fixture drifted: %d", want.Unix())
	}
	for _, in := range inputs {
		got, err := decodeTime(in)
		if err != nil {
			t.Fatalf("decodeTime(%v): %v", in, err)
		}
		if got.Unix() != want.Unix() {
			t.Fatalf("decodeTime(%v): got %v, want %v", in, got, want)
		}
	}

	if _, err := decodeTime("not a time"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestDecodeNullTime(t *testing.T) {
	got, err := decodeNullTime(nil)
	if err != nil || got != nil {
		t.Fatalf("nil input: got %v, %v", got, err)
	}
	got, err = decodeNullTime(int64(1773480413))
	if err != nil || got == nil {
		t.Fatalf("present input: got %v, %v", got, err)
	}
}

func TestDecodeBoolVariants(t *testing.T) {
	truthy := []any{true, int64(1), float64(1), "1", "true", []byte("1"), []byte("t")}
	for _, in := range truthy {
		got, err := decodeBool(in)
		if err != nil || !got {
			t.Fatalf("decodeBool(%v): got %v, %v", in, got, err)
		}
	}
	falsy := []any{false, int64(0), "0", nil, []byte("0")}
	for _, in := range falsy {
		got, err := decodeBool(in)
		if err != nil || got {
			t.Fatalf("decodeBool(%v): got %v, %v", in, got, err)
		}
	}
}

func TestDecodeNullInt64(t *testing.T) {
	got, err := decodeNullInt64(nil)
	if err != nil || got != nil {
		t.Fatalf("nil input: got %v, %v", got, err)
	}
	got, err = decodeNullInt64(int64(9))
	if err != nil || got == nil || *got != 9 {
		t.Fatalf("present input: got %v, %v", got, err)
	}
}

func TestValueBuilderArityMatchesColumns(t *testing.T) {
	d := model.DialectSQLite
	checks := map[string]int{
		"users":        len(userValues(d, model.User{})),
		"categories":   len(categoryValues(d, model.Category{})),
		"accounts":     len(accountValues(d, model.Account{})),
		"transactions": len(transactionValues(d, model.Transaction{})),
		"budgets":      len(budgetValues(d, model.Budget{})),
		"goals":        len(goalValues(d, model.Goal{})),
		"bills":        len(billValues(d, model.Bill{})),
		"products":     len(productValues(d, model.Product{})),
	}
	for table, arity := range checks {
		if arity != len(tableColumns[table]) {
			t.Errorf("%s: %d values for %d columns", table, arity, len(tableColumns[table]))
		}
	}
}

func TestInsertOrderCoversAllTables(t *testing.T) {
	if len(insertOrder) != len(tableColumns) {
		t.Fatalf("insertOrder lists %d tables, columns map has %d", len(insertOrder), len(tableColumns))
	}
	for _, table := range insertOrder {
		if _, ok := tableColumns[table]; !ok {
			t.Fatalf("table %s missing from column map", table)
		}
	}
}

func TestPlaceholderRowStyles(t *testing.T) {
	if got := placeholderRow(model.DialectSQLite, 3, 0); got != "(?, ?, ?)" {
		t.Fatalf("sqlite: %q", got)
	}
	if got := placeholderRow(model.DialectMySQL, 2, 10); got != "(?, ?)" {
		t.Fatalf("mysql: %q", got)
	}
	if got := placeholderRow(model.DialectPostgres, 3, 3); got != "($4, $5, $6)" {
		t.Fatalf("postgres offset: %q", got)
	}
}
