// Package validation checks the uploaded CV and optional profile links before any extraction happens.
package validation

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/presence-analyzer/internal/apperr"
	"github.com/jonathan/presence-analyzer/internal/types"
)

// pdfSignature is the magic prefix of every PDF file.
var pdfSignature = []byte("%PDF")

var (
	githubProfilePattern = regexp.MustCompile(`(?i)^https?://(www\.)?github\.com/[^/?#]+/?$`)
	linkedinProfilePath  = regexp.MustCompile(`(?i)^/in/([^/]+)/?$`)
	schemePattern        = regexp.MustCompile(`(?i)^https?://`)
	validate             = validator.New()
)

// Messages returned for rejected inputs
const (
	MsgCVRequired          = "CV is required"
	MsgInvalidPDF          = "File must be a valid PDF"
	MsgInvalidGitHubURL    = "Invalid GitHub URL"
	MsgInvalidLinkedInURL  = "Invalid LinkedIn URL"
	MsgInvalidPortfolioURL = "Invalid portfolio URL"
)

// URLInputs are the raw, optional profile links supplied by the caller.
type URLInputs struct {
	GitHubURL    string
	LinkedInURL  string
	PortfolioURL string
}

// TooLargeMessage is the rejection message for a PDF over maxMB megabytes.
func TooLargeMessage(maxMB int) string {
	return fmt.Sprintf("PDF must be under %dMB", maxMB)
}

// IsPDF reports whether data starts with the PDF signature.
func IsPDF(data []byte) bool {
	return len(data) >= len(pdfSignature) && bytes.Equal(data[:len(pdfSignature)], pdfSignature)
}

// MaxBytes converts a megabyte ceiling to bytes.
func MaxBytes(maxMB int) int64 {
	return int64(maxMB) * 1024 * 1024
}

// ValidatePDF checks presence, signature and size of the uploaded CV against a ceiling of maxMB megabytes.
func ValidatePDF(data []byte, maxMB int) error {
	if len(data) == 0 {
		return apperr.Validation(apperr.CodeMissingInput, MsgCVRequired)
	}
	if !IsPDF(data) {
		return apperr.Validation(apperr.CodeInvalidFormat, MsgInvalidPDF)
	}
	if int64(len(data)) > MaxBytes(maxMB) {
		return apperr.Validation(apperr.CodeTooLarge, TooLargeMessage(maxMB))
	}
	return nil
}

// NormalizeURL trims raw and prefixes https:// when no http(s) scheme is present.
// It returns "" for blank input.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if !schemePattern.MatchString(trimmed) {
		return "https://" + trimmed
	}
	return trimmed
}

// IsValidGitHubURL accepts a GitHub user or organization root page.
func IsValidGitHubURL(raw string) bool {
	u := NormalizeURL(raw)
	return u != "" && githubProfilePattern.MatchString(u)
}

// IsValidLinkedInURL accepts a LinkedIn personal profile page (/in/<handle>).
func IsValidLinkedInURL(raw string) bool {
	u := NormalizeURL(raw)
	if u == "" {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil || !isHTTPScheme(parsed.Scheme) {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if host != "linkedin.com" {
		return false
	}
	match := linkedinProfilePath.FindStringSubmatch(parsed.Path)
	return match != nil && match[1] != ""
}

// IsValidPortfolioURL accepts any absolute http(s) URL with a host.
func IsValidPortfolioURL(raw string) bool {
	u := NormalizeURL(raw)
	if u == "" {
		return false
	}
	if err := validate.Var(u, "required,url"); err != nil {
		return false
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return isHTTPScheme(parsed.Scheme) && parsed.Hostname() != ""
}

func isHTTPScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)
	return scheme == "http" || scheme == "https"
}

// ValidateInputs validates the CV first, then every supplied link.
// All link failures are reported together in one comma-joined message.
func ValidateInputs(pdf []byte, inputs URLInputs, maxMB int) (types.ProfileURLs, error) {
	if err := ValidatePDF(pdf, maxMB); err != nil {
		return types.ProfileURLs{}, err
	}

	var urls types.ProfileURLs
	var problems []string

	check := func(raw string, valid func(string) bool, msg string, dst *string) {
		normalized := NormalizeURL(raw)
		if normalized == "" {
			return
		}
		if !valid(normalized) {
			problems = append(problems, msg)
			return
		}
		*dst = normalized
	}

	check(inputs.GitHubURL, IsValidGitHubURL, MsgInvalidGitHubURL, &urls.GitHub)
	check(inputs.LinkedInURL, IsValidLinkedInURL, MsgInvalidLinkedInURL, &urls.LinkedIn)
	check(inputs.PortfolioURL, IsValidPortfolioURL, MsgInvalidPortfolioURL, &urls.Portfolio)

	if len(problems) > 0 {
		return types.ProfileURLs{}, apperr.Validation(apperr.CodeInvalidURL, strings.Join(problems, ", "))
	}
	return urls, nil
}
