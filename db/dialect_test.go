package db

import "testing"

func TestTranslatePlaceholders(t *testing.T) {
	in := `INSERT INTO users (name, email) VALUES (?, ?)`

	if got := SQLite.Translate(in); got != in {
		t.Fatalf("sqlite must be canonical, got %q", got)
	}
	want := `INSERT INTO users (name, email) VALUES ($1, $2)`
	if got := Postgres.Translate(in); got != want {
		t.Fatalf("postgres translate = %q, want %q", got, want)
	}
}

func TestTranslateSkipsLiterals(t *testing.T) {
	in := `SELECT * FROM bookings WHERE message = 'what?' AND date = ?`
	want := `SELECT * FROM bookings WHERE message = 'what?' AND date = $1`
	if got := Postgres.Translate(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateAutoIncrement(t *testing.T) {
	in := `CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT, v TEXT)`
	want := `CREATE TABLE t (id BIGSERIAL PRIMARY KEY, v TEXT)`
	if got := Postgres.Translate(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTranslateReservedWords(t *testing.T) {
	in := `SELECT id FROM user WHERE grp = ?`
	got := Postgres.Translate(in)
	want := `SELECT id FROM "user" WHERE grp = $1`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// already-quoted identifiers stay untouched
	in = `SELECT "user" FROM t`
	if got := Postgres.Translate(in); got != in {
		t.Fatalf("got %q, want %q", got, in)
	}
}

func TestTranslateManyPlaceholders(t *testing.T) {
	in := `INSERT INTO t (a, b, c, d, e, f, g, h, i, j, k) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	want := `INSERT INTO t (a, b, c, d, e, f, g, h, i, j, k) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if got := Postgres.Translate(in); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
