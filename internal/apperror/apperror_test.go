package apperror

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestClassifyUniqueViolation(t *testing.T) {
	raw := &pgconn.PgError{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "class_members_class_id_user_id_key"`,
	}

	err := Classify(raw)
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict kind, got %s", KindOf(err))
	}
	if !errors.As(err, &raw) {
		t.Fatal("expected underlying pg error to be preserved")
	}
}

func TestClassifyNoRows(t *testing.T) {
	err := Classify(pgx.ErrNoRows)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found kind, got %s", KindOf(err))
	}
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	orig := New(KindCapacity, "Kelas sudah penuh. Batas maksimal 30 anggota.")
	if got := Classify(orig); got != orig {
		t.Fatalf("expected classified error to pass through, got %v", got)
	}
}

func TestTranslateDuplicateKey(t *testing.T) {
	err := errors.New(`ERROR: duplicate key value violates unique constraint "classes_name_key" (SQLSTATE 23505)`)
	if got := Translate(err); got != "Data sudah ada" {
		t.Fatalf("expected translated duplicate message, got %q", got)
	}
}

func TestTranslateTable(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"insert or update on table violates foreign key constraint", "Data terkait tidak ditemukan"},
		{`null value in column "title" violates not-null constraint`, "Data wajib tidak boleh kosong"},
		{"permission denied for table schedules", "Tidak memiliki izin untuk aksi ini"},
		{"Kelas sudah penuh. Batas maksimal 30 anggota.", "Kelas sudah mencapai batas maksimal anggota"},
	}

	for _, tc := range cases {
		if got := Translate(errors.New(tc.raw)); got != tc.want {
			t.Errorf("Translate(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestTranslateUnknownPassesThrough(t *testing.T) {
	err := errors.New("connection reset by peer")
	if got := Translate(err); got != "connection reset by peer" {
		t.Fatalf("expected raw message passthrough, got %q", got)
	}
}
