package fix

import (
	"testing"

	"mofix/internal/diag"
	"mofix/internal/source"
)

func TestApplySkipsOverlap(t *testing.T) {
	fc := source.NewFileContent("abcdef")
	fixes := []CodeFix{
		Delete("X1", rng(0, 1, 0, 4)),
		Delete("X2", rng(0, 3, 0, 5)),
	}
	batch := Apply(fc, fixes)

	if batch.Text != "abcf" {
		t.Fatalf("text = %q", batch.Text)
	}
	if len(batch.Applied) != 1 || batch.Applied[0].Code != "X2" {
		t.Fatalf("applied = %+v", batch.Applied)
	}
	if len(batch.Skipped) != 1 || batch.Skipped[0].Code != "X1" {
		t.Fatalf("skipped = %+v", batch.Skipped)
	}
	if len(batch.Counts) != 1 || batch.Counts["X2"] != 1 {
		t.Fatalf("counts = %v", batch.Counts)
	}
}

func TestApplyBackToFront(t *testing.T) {
	fc := source.NewFileContent("one\ntwo three\nfour")
	fixes := []CodeFix{
		Replace("A", rng(0, 0, 0, 3), "1"),
		Replace("B", rng(2, 0, 2, 4), "4"),
		Delete("C", rng(1, 3, 1, 9)),
		Replace("D", rng(1, 0, 1, 0), ">"),
	}
	batch := Apply(fc, fixes)
	if batch.Text != "1\n>two\n4" {
		t.Fatalf("text = %q", batch.Text)
	}
	if len(batch.Applied) != 4 {
		t.Fatalf("applied %d fixes", len(batch.Applied))
	}
	for i := 1; i < len(batch.Applied); i++ {
		if batch.Applied[i-1].Range.Start.Before(batch.Applied[i].Range.Start) {
			t.Fatalf("fixes not applied back to front: %+v", batch.Applied)
		}
	}
}

func TestApplyAdjacentEdits(t *testing.T) {
	fc := source.NewFileContent("f(a, b)")
	batch := Apply(fc, []CodeFix{
		Delete("X", rng(0, 2, 0, 5)),
		Delete("Y", rng(0, 5, 0, 6)),
	})
	if batch.Text != "f()" || len(batch.Skipped) != 0 {
		t.Fatalf("text = %q skipped = %d", batch.Text, len(batch.Skipped))
	}
}

func TestApplyZeroFixesRoundTrip(t *testing.T) {
	for _, text := range []string{"", "plain", "bad \xff utf8", "emoji 😀\r\n"} {
		batch := Apply(source.NewFileContent(text), nil)
		if batch.Text != text || batch.Changed() {
			t.Errorf("round trip changed %q to %q", text, batch.Text)
		}
	}
}

func TestApplyUTF16Columns(t *testing.T) {
	// 😀 занимает два UTF-16 units
	fc := source.NewFileContent(`let s = "😀"; List.empty<Nat>()`)
	batch := Apply(fc, []CodeFix{Delete(diag.RedundantTypeInstantiation, rng(0, 24, 0, 29))})
	if batch.Text != `let s = "😀"; List.empty()` {
		t.Fatalf("text = %q", batch.Text)
	}
}

func TestApplyClampsPastEOF(t *testing.T) {
	fc := source.NewFileContent("abc")
	batch := Apply(fc, []CodeFix{Delete("X", rng(0, 1, 7, 3))})
	if batch.Text != "a" {
		t.Fatalf("text = %q", batch.Text)
	}
}
