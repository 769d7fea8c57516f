package pipeline

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/andreyxaxa/Image-Ingest/pkg/types/errs"
)

var supportedExtensions = []string{".jpeg", ".png"}

// NormalizeKey decodes an object key as published in a storage notification:
// '+' stands for a space, everything else is percent-encoded.
func NormalizeKey(raw string) (string, error) {
	key, err := url.PathUnescape(strings.ReplaceAll(raw, "+", " "))
	if err != nil {
		return "", fmt.Errorf("NormalizeKey - url.PathUnescape %q: %v: %w", raw, err, errs.ErrMalformedKey)
	}
	if !utf8.ValidString(key) {
		return "", fmt.Errorf("NormalizeKey - %q decodes to invalid utf-8: %w", raw, errs.ErrMalformedKey)
	}

	return key, nil
}

// ValidateKey is an exact, case-sensitive suffix check.
func ValidateKey(key string) error {
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(key, ext) {
			return nil
		}
	}

	return fmt.Errorf("ValidateKey - %q: %w", key, errs.ErrUnsupportedFileType)
}
