// Package fetch - platform.go provides per-platform acceptance rules for fetched profile text.
package fetch

import (
	"regexp"
	"strings"
)

// Platform identifies which profile link a fetch belongs to.
type Platform string

const (
	// PlatformGitHub is a GitHub user or organization page
	PlatformGitHub Platform = "github"
	// PlatformLinkedIn is a LinkedIn personal profile page
	PlatformLinkedIn Platform = "linkedin"
	// PlatformPortfolio is a personal website
	PlatformPortfolio Platform = "portfolio"
)

// loginWallMaxLength is the length below which a LinkedIn page mentioning sign-in is treated as a login wall.
const loginWallMaxLength = 500

var loginWallPattern = regexp.MustCompile(`(?i)sign in|log in|login`)

// Unavailable reasons
const (
	ReasonNotProvided = "not provided"
	ReasonEmptyText   = "no extractable text"
	ReasonLoginWall   = "login wall"
)

// Accept decides whether fetched text is usable for the platform.
// It returns false and a reason when the text should be treated as unavailable.
func Accept(platform Platform, text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, ReasonEmptyText
	}
	if platform == PlatformLinkedIn && IsLoginWall(text) {
		return false, ReasonLoginWall
	}
	return true, ""
}

// IsLoginWall reports whether text looks like a sign-in interstitial rather than a profile.
func IsLoginWall(text string) bool {
	return len([]rune(text)) < loginWallMaxLength && loginWallPattern.MatchString(text)
}
