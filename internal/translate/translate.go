// Package translate maps canonical item names to their localized forms.
//
// The translation table is a JSON object keyed by canonical name, each value
// an object keyed by locale code. Canonical names are already in the default
// locale, so lookups for it (and for "auto", which resolves to it) pass names
// through untouched. For every other locale the table must carry every name
// requested; a hole is an error rather than a silent fallback, since a mixed
// output list is worse than no output.
package translate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DefaultLocale is the locale canonical names are written in.
const DefaultLocale = "en-us"

// ErrUnknownLocale reports a locale code outside the supported set.
var ErrUnknownLocale = errors.New("unknown locale")

// locales is the closed set of supported locale codes.
var locales = map[string]bool{
	"auto":  true,
	"de-eu": true,
	"en-gb": true,
	"en-us": true,
	"es-eu": true,
	"es-us": true,
	"fr-eu": true,
	"fr-us": true,
	"it-eu": true,
	"ja-jp": true,
	"ko-kr": true,
	"nl-eu": true,
	"ru-eu": true,
	"zh-cn": true,
	"zh-tw": true,
}

// Valid reports whether code is a supported locale (including "auto").
func Valid(code string) bool {
	return locales[code]
}

// Resolve normalizes a locale request: "auto" and "" become DefaultLocale.
func Resolve(code string) (string, error) {
	if code == "" || code == "auto" {
		return DefaultLocale, nil
	}
	if !locales[code] {
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, code)
	}
	return code, nil
}

// Table holds localized names keyed by canonical name, then by locale.
type Table map[string]map[string]string

// LoadTable reads a translation table from a JSON file.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translations %s: %w", path, err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse translations %s: %w", path, err)
	}
	return t, nil
}

// Translate returns the localized forms of the given canonical names, in
// input order. The default locale passes names through without consulting
// the table. A nil Table is valid only for the default locale.
func (t Table) Translate(names []string, locale string) ([]string, error) {
	locale, err := Resolve(locale)
	if err != nil {
		return nil, err
	}
	if locale == DefaultLocale {
		return names, nil
	}

	out := make([]string, len(names))
	for i, name := range names {
		localized, ok := t[name][locale]
		if !ok {
			return nil, fmt.Errorf("no %s translation for %q", locale, name)
		}
		out[i] = localized
	}
	return out, nil
}
