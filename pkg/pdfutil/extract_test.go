package pdfutil

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// onePagePDF builds a structurally valid single-page PDF with no
// content stream.
func onePagePDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 4)
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>\nendobj\n")
	xref := buf.Len()
	buf.WriteString("xref\n0 4\n0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n", xref)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}

func TestValidateEmpty(t *testing.T) {
	err := Validate(nil, 0)
	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if perr.Message != "file is empty" {
		t.Errorf("unexpected message %q", perr.Message)
	}
}

func TestValidateOversized(t *testing.T) {
	content := bytes.Repeat([]byte("x"), 11)
	err := Validate(content, 10)
	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
}

func TestValidateNotAPDF(t *testing.T) {
	err := Validate([]byte("this is definitely not a pdf document"), 0)
	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
}

func TestValidateTruncatedHeader(t *testing.T) {
	// Valid magic bytes but nothing else; the parser must not panic.
	err := Validate([]byte("%PDF-1.7\n"), 0)
	if err == nil {
		t.Fatal("expected error for truncated PDF")
	}
}

func TestValidateAcceptsWellFormedPDF(t *testing.T) {
	if err := Validate(onePagePDF(), 0); err != nil {
		t.Fatalf("expected well-formed PDF to validate, got %v", err)
	}
}

func TestExtractTextEmptyPages(t *testing.T) {
	// A page without a content stream yields no text at all, which is
	// an extraction failure, not a success with empty output.
	_, _, err := ExtractText(onePagePDF())
	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
}

func TestBuildMetadataCountsRunes(t *testing.T) {
	meta := buildMetadata(3, 2, "こんにちは世界")
	if meta["text_length"] != 7 {
		t.Errorf("text_length = %v, want 7 (characters, not bytes)", meta["text_length"])
	}
	if meta["page_count"] != 3 || meta["extracted_pages"] != 2 {
		t.Errorf("unexpected page counts: %v", meta)
	}
}

func TestExtractTextGarbage(t *testing.T) {
	_, _, err := ExtractText([]byte("garbage bytes"))
	var perr *ProcessingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessingError, got %v", err)
	}
	if perr.Unwrap() == nil {
		t.Error("parse failures should carry the underlying cause")
	}
}
