package memfs

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"github.com/mwantia/memfs/data"
)

// Canonical attribute view names accepted in Config.AdditionalViews.
const (
	ViewBasic = "basic"
	ViewPosix = "posix"
	ViewDos   = "dos"
	ViewAcl   = "acl"
	ViewOwner = "owner"
	ViewUser  = "user"
)

// Config is the fully-resolved configuration of a memory filesystem.
// Parsing the configuration from its external form is the embedder's
// job; ParseConfig is provided for the common YAML case.
type Config struct {
	// Flavor selects the path syntax family.
	Flavor Flavor `yaml:"flavor"`

	// Separator is the name separator, exactly one character.
	// Defaults to the flavor's native separator.
	Separator string `yaml:"default-name-separator"`

	// Roots lists the root display strings.
	// POSIX and custom flavors take exactly one root.
	Roots []string `yaml:"roots"`

	// CaseSensitivity selects how entry names compare.
	CaseSensitivity CaseSensitivity `yaml:"case-sensitivity"`

	// ForbiddenCharacters are code points rejected in path components,
	// in addition to the separator itself.
	ForbiddenCharacters string `yaml:"forbidden-characters"`

	// AdditionalViews is the subset of {posix, dos, acl, user} every
	// entry carries next to the always-present basic view.
	AdditionalViews []string `yaml:"additional-views"`

	Users  []string `yaml:"users"`
	Groups []string `yaml:"groups"`

	// DefaultUser and DefaultGroup name the principals effective when
	// no override is pushed. They are added to Users/Groups implicitly.
	DefaultUser  string `yaml:"default-user"`
	DefaultGroup string `yaml:"default-group"`

	// Umask is the permission mask applied to newly created files.
	// Directories additionally get execute for all three classes.
	Umask data.PermMask `yaml:"umask"`

	// DefaultDirectory is the absolute path relative paths resolve
	// against. Defaults to the first root.
	DefaultDirectory string `yaml:"default-directory"`
}

// NewPosixConfig returns the configuration of a single-root '/'
// filesystem with POSIX and user-defined attribute views.
func NewPosixConfig() *Config {
	return &Config{
		Flavor:              FlavorPosix,
		Separator:           "/",
		Roots:               []string{"/"},
		CaseSensitivity:     CaseSensitive,
		ForbiddenCharacters: "\x00",
		AdditionalViews:     []string{ViewPosix, ViewUser},
		DefaultUser:         "root",
		DefaultGroup:        "root",
		Umask:               0o644,
	}
}

// NewWindowsConfig returns the configuration of a case-insensitive
// drive-rooted filesystem with DOS and user-defined attribute views.
func NewWindowsConfig() *Config {
	return &Config{
		Flavor:              FlavorWindows,
		Separator:           `\`,
		Roots:               []string{`C:\`},
		CaseSensitivity:     CaseInsensitiveASCII,
		ForbiddenCharacters: `\/:?"<>|`,
		AdditionalViews:     []string{ViewDos, ViewUser},
		DefaultUser:         "user",
		DefaultGroup:        "users",
		Umask:               0o644,
	}
}

// ParseConfig decodes a YAML form of the configuration map.
func ParseConfig(raw []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, data.InvalidConfiguration(err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fills defaults and rejects configurations the engine cannot
// honor. It is called by the registry before building a filesystem.
func (c *Config) Validate() error {
	if c.Separator == "" {
		switch c.Flavor {
		case FlavorWindows:
			c.Separator = `\`
		default:
			c.Separator = "/"
		}
	}

	if err := validateSeparator(c.Separator); err != nil {
		return err
	}

	switch c.Flavor {
	case FlavorPosix:
		if c.Separator != "/" {
			return data.InvalidConfiguration("posix flavor requires '/' as separator")
		}
		if len(c.Roots) == 0 {
			c.Roots = []string{"/"}
		}
		if len(c.Roots) != 1 || c.Roots[0] != "/" {
			return data.InvalidConfiguration("posix flavor requires the single root '/'")
		}
	case FlavorWindows:
		if c.Separator != `\` {
			return data.InvalidConfiguration(`windows flavor requires '\' as separator`)
		}
		if len(c.Roots) == 0 {
			c.Roots = []string{`C:\`}
		}
		for _, root := range c.Roots {
			if !isDriveRoot(root) {
				return data.InvalidConfiguration(fmt.Sprintf("'%s' is not a drive root", root))
			}
		}
	case FlavorCustom:
		root := c.Separator
		if len(c.Roots) == 0 {
			c.Roots = []string{root}
		}
		if len(c.Roots) != 1 || c.Roots[0] != root {
			return data.InvalidConfiguration("custom flavor requires the separator as its single root")
		}
	default:
		return data.InvalidConfiguration(fmt.Sprintf("unknown flavor %d", c.Flavor))
	}

	if strings.ContainsRune(c.ForbiddenCharacters, firstRune(c.Separator)) {
		// The separator doubles as the component delimiter; keeping it
		// in the forbidden set would reject every parsed component.
		if c.Flavor != FlavorWindows {
			return data.InvalidConfiguration("separator listed in forbidden characters")
		}
	}

	for _, view := range c.AdditionalViews {
		switch view {
		case ViewPosix, ViewDos, ViewAcl, ViewUser:
		default:
			return data.InvalidConfiguration(fmt.Sprintf("unknown attribute view '%s'", view))
		}
	}

	if c.Umask&^data.PermAll != 0 {
		return data.InvalidConfiguration(fmt.Sprintf("umask %o outside the permission bits", c.Umask))
	}

	if c.DefaultUser == "" {
		c.DefaultUser = "root"
	}
	if c.DefaultGroup == "" {
		c.DefaultGroup = c.DefaultUser
	}
	if !contains(c.Users, c.DefaultUser) {
		c.Users = append(c.Users, c.DefaultUser)
	}
	if !contains(c.Groups, c.DefaultGroup) {
		c.Groups = append(c.Groups, c.DefaultGroup)
	}

	return nil
}

// validateSeparator rejects separators that cannot act as a single
// displayable delimiter: multi-rune strings, surrogates, combining
// marks and symbol or space glyphs such as U+2603.
func validateSeparator(sep string) error {
	if utf8.RuneCountInString(sep) != 1 {
		return data.InvalidConfiguration(fmt.Sprintf("separator '%s' must be exactly one character", sep))
	}

	r := firstRune(sep)
	if r == utf8.RuneError || unicode.Is(unicode.Cs, r) {
		return data.InvalidConfiguration("separator must not be a surrogate")
	}
	if unicode.In(r, unicode.Mn, unicode.Mc, unicode.Me) {
		return data.InvalidConfiguration("separator must not be a combining mark")
	}
	if unicode.In(r, unicode.So, unicode.Sk, unicode.Zs, unicode.Zl, unicode.Zp) {
		return data.InvalidConfiguration(fmt.Sprintf("separator '%c' must not be a symbol or space", r))
	}

	return nil
}

// isDriveRoot matches "A:\" .. "Z:\" case-insensitively.
func isDriveRoot(root string) bool {
	if len(root) != 3 || root[1] != ':' || root[2] != '\\' {
		return false
	}

	c := root[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}

	return false
}
