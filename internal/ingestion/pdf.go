// Package ingestion turns an uploaded CV and optional profile links into the raw payload the model reads.
package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/fetch"
)

// MinExtractedLength is the character count below which extracted CV text is considered sparse.
const MinExtractedLength = 10

// Extraction messages
const (
	MsgSparseContent = "PDF produced little or no text (may be image-only or empty)"
	MsgEncrypted     = "PDF is encrypted or password-protected"
	MsgCorrupted     = "PDF appears corrupted or invalid"
)

var (
	encryptedPattern = regexp.MustCompile(`(?i)password|encrypted`)
	corruptedPattern = regexp.MustCompile(`(?i)invalid|corrupt|malformed`)
)

// TextDecoder turns PDF bytes into plain text.
type TextDecoder interface {
	DecodeText(data []byte) (string, error)
}

// PlainTextDecoder decodes PDFs with github.com/ledongthuc/pdf.
type PlainTextDecoder struct{}

// DecodeText reads every page's text. Panics inside the PDF library are returned as errors.
func (PlainTextDecoder) DecodeText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Extraction is the outcome of PDF text extraction.
// Note carries a non-fatal advisory, such as sparse content.
type Extraction struct {
	Text string
	Note *apperr.Error
}

// PDFExtractor extracts normalized text from a CV.
type PDFExtractor struct {
	decoder TextDecoder
}

// NewPDFExtractor creates an extractor. A nil decoder selects PlainTextDecoder.
func NewPDFExtractor(decoder TextDecoder) *PDFExtractor {
	if decoder == nil {
		decoder = PlainTextDecoder{}
	}
	return &PDFExtractor{decoder: decoder}
}

// Extract decodes the PDF and collapses whitespace.
// Decoder failures are hard errors; sparse text is returned with an advisory note.
func (e *PDFExtractor) Extract(data []byte) (Extraction, error) {
	raw, err := e.decoder.DecodeText(data)
	if err != nil {
		return Extraction{}, ClassifyDecodeError(err)
	}

	text := fetch.CollapseWhitespace(raw)
	if len([]rune(text)) < MinExtractedLength {
		return Extraction{
			Text: text,
			Note: apperr.Extraction(apperr.CodeSparseContent, MsgSparseContent, nil),
		}, nil
	}
	return Extraction{Text: text}, nil
}

// ClassifyDecodeError maps a decoder error to a user-facing extraction failure.
func ClassifyDecodeError(err error) *apperr.Error {
	message := err.Error()
	switch {
	case encryptedPattern.MatchString(message):
		return apperr.Extraction(apperr.CodeEncrypted, MsgEncrypted, err)
	case corruptedPattern.MatchString(message):
		return apperr.Extraction(apperr.CodeCorrupted, MsgCorrupted, err)
	case message == "":
		return apperr.Extraction(apperr.CodeExtractionFailed, "PDF parsing failed", err)
	default:
		return apperr.Extraction(apperr.CodeExtractionFailed, message, err)
	}
}
