package ingestion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/testutil"
)

type stubDecoder struct {
	text string
	err  error
}

func (s stubDecoder) DecodeText([]byte) (string, error) {
	return s.text, s.err
}

func TestPlainTextDecoder_ReadsGeneratedPDF(t *testing.T) {
	data := testutil.BuildPDF("Jane Doe", "Senior Go Engineer at Acme", "Kubernetes, PostgreSQL")

	text, err := PlainTextDecoder{}.DecodeText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Senior Go Engineer at Acme")
}

func TestPlainTextDecoder_Garbage(t *testing.T) {
	_, err := PlainTextDecoder{}.DecodeText([]byte("%PDF-1.4\nthis is not really a pdf file at all"))
	assert.Error(t, err)
}

func TestExtract_CollapsesWhitespace(t *testing.T) {
	e := NewPDFExtractor(stubDecoder{text: "  Jane   Doe\n\nBackend\tEngineer  "})

	extraction, err := e.Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Backend Engineer", extraction.Text)
	assert.Nil(t, extraction.Note)
}

func TestExtract_SparseText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		text string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t ", ""},
		{"nine characters", "123456789", "123456789"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extraction, err := NewPDFExtractor(stubDecoder{text: tt.raw}).Extract([]byte("%PDF"))
			require.NoError(t, err)
			assert.Equal(t, tt.text, extraction.Text)
			require.NotNil(t, extraction.Note)
			assert.Equal(t, apperr.CodeSparseContent, extraction.Note.Code)
			assert.Equal(t, MsgSparseContent, extraction.Note.Message)
		})
	}
}

func TestExtract_TenCharactersIsNotSparse(t *testing.T) {
	extraction, err := NewPDFExtractor(stubDecoder{text: "1234567890"}).Extract([]byte("%PDF"))
	require.NoError(t, err)
	assert.Nil(t, extraction.Note)
}

func TestClassifyDecodeError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    apperr.Code
		message string
	}{
		{"password", errors.New("pdf: encrypted PDF: invalid password"), apperr.CodeEncrypted, MsgEncrypted},
		{"encrypted", errors.New("file is Encrypted"), apperr.CodeEncrypted, MsgEncrypted},
		{"malformed", errors.New("malformed PDF: index out of range"), apperr.CodeCorrupted, MsgCorrupted},
		{"invalid header", errors.New("not a PDF file: invalid header"), apperr.CodeCorrupted, MsgCorrupted},
		{"corrupt", errors.New("stream is corrupt"), apperr.CodeCorrupted, MsgCorrupted},
		{"other", errors.New("unexpected EOF"), apperr.CodeExtractionFailed, "unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ClassifyDecodeError(tt.err)
			assert.Equal(t, apperr.KindExtraction, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestExtract_DecoderFailure(t *testing.T) {
	_, err := NewPDFExtractor(stubDecoder{err: errors.New("xref: malformed table")}).Extract([]byte("%PDF"))
	require.Error(t, err)
	assert.Equal(t, MsgCorrupted, err.Error())
	assert.Equal(t, 400, apperr.HTTPStatus(err))
}
