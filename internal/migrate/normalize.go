// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package migrate

import (
	"fmt"
	"strconv"
	"time"

	"github.com/toeirei/fintrack/internal/model"
)

// Record normalization: pure transforms between canonical in-memory values
// and the wire representation a target dialect expects. The local-file
// dialect stores timestamps as Unix epoch integers and booleans as 0/1;
// server dialects take native temporal and boolean values. Absent optionals
// always become explicit NULLs so fixed-arity inserts stay valid.

func encodeTime(dialect model.Dialect, t time.Time) any {
	if dialect == model.DialectSQLite {
		return t.Unix()
	}
	return t.UTC()
}

func encodeNullTime(dialect model.Dialect, t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(dialect, *t)
}

func encodeBool(dialect model.Dialect, b bool) any {
	if dialect == model.DialectSQLite {
		if b {
			return int64(1)
		}
		return int64(0)
	}
	return b
}

func encodeNullInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Decoding is deliberately liberal: source databases hand back epoch
// integers, SQL datetime strings, RFC 3339 strings or native time values
// depending on dialect and on which writer populated them.

func decodeTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case []byte:
		return parseTimeString(string(t))
	case string:
		return parseTimeString(t)
	default:
		return time.Time{}, fmt.Errorf("cannot decode %T as time", v)
	}
}

func parseTimeString(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}

func decodeNullTime(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	t, err := decodeTime(v)
	if err != nil {
		return nil, err
	}
	if t.IsZero() {
		return nil, nil
	}
	return &t, nil
}

func decodeBool(v any) (bool, error) {
	switch b := v.(type) {
	case nil:
		return false, nil
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	case float64:
		return b != 0, nil
	case []byte:
		s := string(b)
		return s == "1" || s == "true" || s == "t", nil
	case string:
		return b == "1" || b == "true" || b == "t", nil
	default:
		return false, fmt.Errorf("cannot decode %T as bool", v)
	}
}

func decodeInt64(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case []byte:
		return strconv.ParseInt(string(n), 10, 64)
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("cannot decode %T as int64", v)
	}
}

func decodeNullInt64(v any) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	n, err := decodeInt64(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func decodeString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

// Per-record value builders. The column order matches tableColumns; the
// arity is fixed, so optionals encode to explicit NULLs.

func userValues(d model.Dialect, u model.User) []any {
	return []any{u.ID, u.Email, u.Name, u.PasswordHash, encodeTime(d, u.CreatedAt)}
}

func categoryValues(_ model.Dialect, c model.Category) []any {
	return []any{c.ID, c.UserID, c.Name, c.Kind, c.Color}
}

func accountValues(d model.Dialect, a model.Account) []any {
	return []any{a.ID, a.UserID, a.Name, a.Type, a.Currency, a.Balance, encodeTime(d, a.CreatedAt)}
}

func transactionValues(d model.Dialect, t model.Transaction) []any {
	return []any{t.ID, t.UserID, t.AccountID, encodeNullInt(t.CategoryID), t.Amount, t.Note, encodeTime(d, t.OccurredAt), encodeTime(d, t.CreatedAt)}
}

func budgetValues(d model.Dialect, b model.Budget) []any {
	return []any{b.ID, b.UserID, b.CategoryID, encodeNullInt(b.AccountID), b.Amount, b.Period, encodeTime(d, b.StartsAt)}
}

func goalValues(d model.Dialect, g model.Goal) []any {
	return []any{g.ID, g.UserID, g.Name, g.TargetAmount, g.SavedAmount, encodeNullTime(d, g.Deadline)}
}

func billValues(d model.Dialect, b model.Bill) []any {
	return []any{b.ID, b.UserID, encodeNullInt(b.CategoryID), encodeNullInt(b.AccountID), b.Name, b.Amount, encodeTime(d, b.DueDate), encodeBool(d, b.IsPaid)}
}

func productValues(d model.Dialect, p model.Product) []any {
	return []any{p.ID, p.UserID, p.Name, p.Price, p.URL, encodeBool(d, p.Purchased), encodeTime(d, p.CreatedAt)}
}
