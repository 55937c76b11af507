package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/validation"
)

const (
	// cvField is the only accepted file field.
	cvField = "cv"
	// pdfMIME is the only accepted upload content type.
	pdfMIME = "application/pdf"
	// maxFieldBytes bounds each non-file form field.
	maxFieldBytes = 64 << 10
	// multipartOverhead is headroom above the PDF ceiling for form fields and boundaries.
	multipartOverhead = 1 << 20
)

// upload is a parsed analysis request.
type upload struct {
	PDF    []byte
	Inputs validation.URLInputs
}

// readUpload reads a multipart analysis request.
// Files in any field other than "cv" are rejected; a "cv" file with a non-PDF content type is ignored.
// A request that is not multipart yields an empty upload so validation can report the missing CV.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return &upload{}, nil
	}

	maxPDF := int64(s.maxPDFMB) * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxPDF+multipartOverhead)

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, apperr.Validation(apperr.CodeMalformedBody, MsgUploadFailed)
	}

	u := &upload{}
	fields := map[string]string{}
	sawCV := false

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s.uploadError(err)
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			_ = part.Close()
			if err != nil {
				return nil, s.uploadError(err)
			}
			fields[part.FormName()] = strings.TrimSpace(string(value))
			continue
		}

		if part.FormName() != cvField || sawCV {
			_ = part.Close()
			return nil, apperr.Validation(apperr.CodeMalformedBody, MsgWrongFileField)
		}
		sawCV = true

		data, err := readFilePart(part, maxPDF)
		_ = part.Close()
		if err != nil {
			return nil, s.uploadError(err)
		}
		if isPDFPart(part) {
			u.PDF = data
		}
	}

	u.Inputs = urlInputs(fields)
	return u, nil
}

var errFileTooLarge = errors.New("file exceeds size limit")

func readFilePart(part *multipart.Part, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errFileTooLarge
	}
	return data, nil
}

func isPDFPart(part *multipart.Part) bool {
	mediaType, _, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
	return err == nil && mediaType == pdfMIME
}

func (s *Server) uploadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.Is(err, errFileTooLarge) || errors.As(err, &maxBytesErr) {
		return apperr.Validation(apperr.CodeTooLarge, fmt.Sprintf("PDF must be under %dMB", s.maxPDFMB))
	}
	return apperr.Wrap(apperr.KindValidation, apperr.CodeMalformedBody, MsgUploadFailed, err)
}

// urlInputs accepts both the long and short field names, preferring the long one.
func urlInputs(fields map[string]string) validation.URLInputs {
	pick := func(long, short string) string {
		if v := fields[long]; v != "" {
			return v
		}
		return fields[short]
	}
	return validation.URLInputs{
		GitHubURL:    pick("githubUrl", "github"),
		LinkedInURL:  pick("linkedinUrl", "linkedin"),
		PortfolioURL: pick("portfolioUrl", "portfolio"),
	}
}
