// Package safe guards the inputs xpick reads from the outside: URLs it
// navigates to or posts to, and HTML documents it loads.
package safe

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"slices"
	"strings"
)

// MaxDocument caps HTML documents read from files (32 MiB).
const MaxDocument int64 = 32 << 20

// ErrUnsafeScheme is returned when a URL uses a scheme outside the allowed set.
var ErrUnsafeScheme = errors.New("safe: URL scheme not allowed")

// ErrTooLarge is returned when a document exceeds its size cap.
var ErrTooLarge = errors.New("safe: document too large")

var (
	// WebSchemes are accepted for webhook targets.
	WebSchemes = []string{"http", "https"}
	// PageSchemes are accepted for pages opened in the browser.
	PageSchemes = []string{"http", "https", "file"}
)

// ValidateURL checks that rawURL parses, uses one of schemes and, for
// network schemes, names a host.
func ValidateURL(rawURL string, schemes ...string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("safe: invalid URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if !slices.Contains(schemes, scheme) {
		return fmt.Errorf("%w: %q", ErrUnsafeScheme, u.Scheme)
	}
	if scheme != "file" && u.Hostname() == "" {
		return fmt.Errorf("safe: URL %q has no host", rawURL)
	}
	return nil
}

// LimitedReadAll reads at most maxBytes from r and fails with ErrTooLarge
// beyond that.
func LimitedReadAll(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxBytes)
	}
	return data, nil
}
