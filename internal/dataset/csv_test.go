package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "series.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestCSVLoadWithHeaderAndGaps(t *testing.T) {
	path := writeFixture(t, "date,close\n2024-01-02,5.1234\n2024-01-03,\n2024-01-04,5.20\n")

	series, err := NewCSV(path, zerolog.Nop()).Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(series) != 3 {
		t.Fatalf("expected 3 points, got %d", len(series))
	}

	if series[0].Value == nil || *series[0].Value != 5.1234 {
		t.Fatalf("unexpected first value: %+v", series[0])
	}
	if series[1].Value != nil {
		t.Fatalf("empty cell should load as missing, got %v", *series[1].Value)
	}
	want := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	if !series[2].Date.Equal(want) {
		t.Fatalf("unexpected last date: %v", series[2].Date)
	}
}

func TestCSVLoadWithoutHeader(t *testing.T) {
	path := writeFixture(t, "2024-02-01,100\n2024-02-02,101.5\n")

	series, err := NewCSV(path, zerolog.Nop()).Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
}

func TestCSVLoadBadValue(t *testing.T) {
	path := writeFixture(t, "date,value\n2024-01-02,abc\n")

	if _, err := NewCSV(path, zerolog.Nop()).Load(context.Background()); err == nil {
		t.Fatal("non-numeric value past the header should fail")
	}
}

func TestCSVLoadMissingFile(t *testing.T) {
	if _, err := NewCSV("does/not/exist.csv", zerolog.Nop()).Load(context.Background()); err == nil {
		t.Fatal("missing file should fail")
	}
}
