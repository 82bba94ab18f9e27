package memfs

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/mwantia/memfs/data"
)

// Flavor selects the family of path syntax and semantics.
type Flavor int

const (
	// FlavorPosix is a single-root filesystem separated by '/'.
	FlavorPosix Flavor = iota

	// FlavorWindows is a multi-root filesystem with drive letters,
	// separated by '\' with '/' accepted as an input alias.
	FlavorWindows

	// FlavorCustom is a single-root filesystem with a user-chosen
	// separator.
	FlavorCustom
)

// String returns the flavor name as used in configuration.
func (f Flavor) String() string {
	switch f {
	case FlavorPosix:
		return "POSIX"
	case FlavorWindows:
		return "WINDOWS"
	case FlavorCustom:
		return "CUSTOM"
	default:
		return "UNKNOWN"
	}
}

// ParseFlavor maps a configuration value to its Flavor.
func ParseFlavor(s string) (Flavor, error) {
	switch strings.ToUpper(s) {
	case "POSIX":
		return FlavorPosix, nil
	case "WINDOWS":
		return FlavorWindows, nil
	case "CUSTOM":
		return FlavorCustom, nil
	default:
		return 0, data.InvalidConfiguration("unknown flavor '" + s + "'")
	}
}

// UnmarshalYAML decodes a flavor from its configuration name.
func (f *Flavor) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	flavor, err := ParseFlavor(s)
	if err != nil {
		return err
	}

	*f = flavor
	return nil
}

// CaseSensitivity selects how entry names compare.
type CaseSensitivity int

const (
	// CaseSensitive compares names byte-identical.
	CaseSensitive CaseSensitivity = iota

	// CaseInsensitiveASCII folds 'A'..'Z' only, the way Windows
	// treats drive letters and names in practice.
	CaseInsensitiveASCII

	// CaseInsensitiveUnicode applies full Unicode case folding.
	CaseInsensitiveUnicode
)

// String returns the sensitivity name as used in configuration.
func (c CaseSensitivity) String() string {
	switch c {
	case CaseSensitive:
		return "SENSITIVE"
	case CaseInsensitiveASCII:
		return "INSENSITIVE_ASCII"
	case CaseInsensitiveUnicode:
		return "INSENSITIVE_UNICODE"
	default:
		return "UNKNOWN"
	}
}

// ParseCaseSensitivity maps a configuration value to its mode.
func ParseCaseSensitivity(s string) (CaseSensitivity, error) {
	switch strings.ToUpper(s) {
	case "SENSITIVE":
		return CaseSensitive, nil
	case "INSENSITIVE_ASCII":
		return CaseInsensitiveASCII, nil
	case "INSENSITIVE_UNICODE":
		return CaseInsensitiveUnicode, nil
	default:
		return 0, data.InvalidConfiguration("unknown case sensitivity '" + s + "'")
	}
}

// UnmarshalYAML decodes a sensitivity mode from its configuration name.
func (c *CaseSensitivity) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	mode, err := ParseCaseSensitivity(s)
	if err != nil {
		return err
	}

	*c = mode
	return nil
}

// unicodeFolder performs full Unicode case folding.
var unicodeFolder = cases.Fold()

// Fold maps a name to its comparison key under the sensitivity mode.
// Lookup tables store keys produced by Fold while keeping the
// original-casing name alongside.
func (c CaseSensitivity) Fold(name string) string {
	switch c {
	case CaseInsensitiveASCII:
		return foldASCII(name)
	case CaseInsensitiveUnicode:
		return unicodeFolder.String(name)
	default:
		return name
	}
}

// foldASCII lowercases 'A'..'Z' and leaves every other byte untouched.
func foldASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}

	buf := []byte(s)
	for i, b := range buf {
		if b >= 'A' && b <= 'Z' {
			buf[i] = b + 'a' - 'A'
		}
	}

	return string(buf)
}
