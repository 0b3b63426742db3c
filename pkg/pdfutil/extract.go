package pdfutil

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
)

// DefaultMaxSize is the largest PDF accepted for processing (50 MiB).
const DefaultMaxSize = 50 * 1024 * 1024

// ProcessingError marks a PDF that failed validation or text extraction.
type ProcessingError struct {
	Message string
	Err     error
}

func (e *ProcessingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error { return e.Err }

func processingErr(msg string, err error) *ProcessingError {
	return &ProcessingError{Message: msg, Err: err}
}

// Validate checks that content is a parseable, non-empty PDF with at
// least one page and within maxSize bytes. maxSize <= 0 selects
// DefaultMaxSize.
func Validate(content []byte, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(content) == 0 {
		return processingErr("file is empty", nil)
	}
	if int64(len(content)) > maxSize {
		return processingErr(fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", maxSize), nil)
	}
	reader, err := open(content)
	if err != nil {
		return processingErr("invalid PDF file", err)
	}
	if reader.NumPage() == 0 {
		return processingErr("PDF file contains no pages", nil)
	}
	return nil
}

// ExtractText pulls plain text from every page, joined by blank lines,
// and returns it together with a metadata map holding page counts, the
// total text length and any document info entries.
func ExtractText(content []byte) (string, map[string]any, error) {
	reader, err := open(content)
	if err != nil {
		return "", nil, processingErr("failed to extract text from PDF", err)
	}

	pageCount := reader.NumPage()
	parts := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := pageText(page)
		if err != nil {
			logrus.WithField("page", i).WithError(err).Warn("failed to extract text from page")
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		parts = append(parts, text)
	}
	extracted := strings.Join(parts, "\n\n")

	metadata := buildMetadata(pageCount, len(parts), extracted)
	addDocumentInfo(reader, metadata)

	if strings.TrimSpace(extracted) == "" {
		return "", nil, processingErr("no text could be extracted from the PDF", nil)
	}
	return extracted, metadata, nil
}

// buildMetadata assembles the extraction summary. Text length is
// counted in runes, not bytes, so multibyte text reports its
// character count.
func buildMetadata(pageCount, extractedPages int, text string) map[string]any {
	return map[string]any{
		"page_count":      pageCount,
		"extracted_pages": extractedPages,
		"text_length":     utf8.RuneCountInString(text),
	}
}

// pageText guards GetPlainText the same way open guards NewReader;
// pages with broken or absent content streams panic the parser.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed page content: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// open wraps pdf.NewReader; the parser panics on some malformed
// inputs, so panics are converted into ordinary errors.
func open(content []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			reader = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(content), int64(len(content)))
}

func addDocumentInfo(reader *pdf.Reader, metadata map[string]any) {
	defer func() {
		// Info dictionaries in broken files can panic the parser;
		// document info is optional, so just keep what we have.
		_ = recover()
	}()
	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return
	}
	for key, field := range map[string]string{
		"Title":    "title",
		"Author":   "author",
		"Subject":  "subject",
		"Creator":  "creator",
		"Producer": "producer",
	} {
		if v := info.Key(key); v.Kind() == pdf.String {
			metadata[field] = v.Text()
		}
	}
	if v := info.Key("CreationDate"); v.Kind() == pdf.String {
		metadata["creation_date"] = v.RawString()
	}
	if v := info.Key("ModDate"); v.Kind() == pdf.String {
		metadata["modification_date"] = v.RawString()
	}
}
