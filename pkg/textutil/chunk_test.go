package textutil

import (
	"strings"
	"testing"
)

func TestChunkTextEmpty(t *testing.T) {
	chunks, err := ChunkText("", 100, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", chunks)
	}
}

func TestChunkTextShortInput(t *testing.T) {
	text := "short text"
	chunks, err := ChunkText(text, 100, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected [%q], got %v", text, chunks)
	}
}

func TestChunkTextSentenceBoundary(t *testing.T) {
	// Window end falls mid-sentence; the cut should land after the period.
	text := "First sentence. Second sentence continues for a while longer here."
	chunks, err := ChunkText(text, 30, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	if !strings.HasSuffix(chunks[0], ".") {
		t.Errorf("first chunk should end at a sentence boundary, got %q", chunks[0])
	}
}

func TestChunkTextFullWidthTerminators(t *testing.T) {
	text := strings.Repeat("あ", 20) + "。" + strings.Repeat("い", 40)
	chunks, err := ChunkText(text, 30, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "。") {
		t.Errorf("first chunk should end at the full-width terminator, got %q", chunks[0])
	}
}

func TestChunkTextCoverage(t *testing.T) {
	// Every rune of the input must appear in at least one chunk.
	text := strings.Repeat("abcdefghij ", 50)
	chunks, err := ChunkText(text, 100, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	joined := strings.Join(chunks, "")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(joined, word) {
			t.Fatalf("word %q missing from chunk output", word)
		}
	}
	for _, c := range chunks {
		if len([]rune(c)) > 100 {
			t.Errorf("chunk exceeds size: %d runes", len([]rune(c)))
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk not trimmed: %q", c)
		}
	}
}

func TestChunkTextOverlap(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks, err := ChunkText(text, 100, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No sentence boundaries, so windows are exact: 0-100, 80-180, 160-250.
	want := []int{100, 100, 90}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if len(chunks[i]) != w {
			t.Errorf("chunk %d: expected len %d, got %d", i, w, len(chunks[i]))
		}
	}
}

func TestChunkTextRejectsBadConfig(t *testing.T) {
	if _, err := ChunkText("anything at all", 0, 0); err == nil {
		t.Error("expected error for chunk size 0")
	}
	if _, err := ChunkText("anything at all", 10, 10); err == nil {
		t.Error("expected error for overlap == chunk size")
	}
	if _, err := ChunkText("anything at all", 10, 15); err == nil {
		t.Error("expected error for overlap > chunk size")
	}
	if _, err := ChunkText("anything at all", 10, -1); err == nil {
		t.Error("expected error for negative overlap")
	}
}

func TestChunkTextTerminates(t *testing.T) {
	// Terminator directly after a window start used to be able to push
	// the next start backwards; make sure the guard holds.
	text := "a. " + strings.Repeat("b", 500)
	chunks, err := ChunkText(text, 10, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
}
