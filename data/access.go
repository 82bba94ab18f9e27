package data

// AccessMode represents a single access check mode.
// Modes outside Read, Write and Execute are rejected as unsupported.
type AccessMode int

const (
	AccessRead AccessMode = 1 << iota // read the entry's content or listing
	AccessWrite
	AccessExecute
)

// Supported reports whether m is one of the three checkable modes.
func (m AccessMode) Supported() bool {
	return m == AccessRead || m == AccessWrite || m == AccessExecute
}

// String returns the mode name used in error messages.
func (m AccessMode) String() string {
	switch m {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	case AccessExecute:
		return "EXECUTE"
	default:
		return "UNKNOWN"
	}
}

// OpenFlag represents file open flags.
// These can be combined using bitwise OR.
type OpenFlag int

const (
	OpenRead      OpenFlag = 1 << iota // open for reading
	OpenWrite                          // open for writing
	OpenAppend                         // position at size before each write
	OpenCreate                         // create if not exists
	OpenCreateNew                      // create, fail if exists
	OpenTruncate                       // truncate on open
	OpenNoFollow                       // do not follow a trailing symlink
)

// CanRead checks if the flags allow reading.
func (f OpenFlag) CanRead() bool {
	return f&OpenRead != 0
}

// CanWrite checks if the flags allow writing.
func (f OpenFlag) CanWrite() bool {
	return f&(OpenWrite|OpenAppend) != 0
}

// HasAppend checks if the flags include append.
func (f OpenFlag) HasAppend() bool {
	return f&OpenAppend != 0
}

// HasCreate checks if the flags include create or exclusive create.
func (f OpenFlag) HasCreate() bool {
	return f&(OpenCreate|OpenCreateNew) != 0
}

// HasCreateNew checks if the flags include exclusive creation.
func (f OpenFlag) HasCreateNew() bool {
	return f&OpenCreateNew != 0
}

// HasTruncate checks if the flags include truncate.
func (f OpenFlag) HasTruncate() bool {
	return f&OpenTruncate != 0
}

// HasNoFollow checks if a trailing symlink should not be followed.
func (f OpenFlag) HasNoFollow() bool {
	return f&OpenNoFollow != 0
}
