package memfs

import (
	"sync"

	"github.com/mwantia/memfs/data"
)

// Principal is a user or group bound to one filesystem.
// Two principals are equal iff they share name and filesystem.
type Principal interface {
	Name() string
	Filesystem() *MemoryFileSystem
}

// User is a user principal.
type User struct {
	name string
	fs   *MemoryFileSystem
}

func (u *User) Name() string {
	return u.name
}

func (u *User) Filesystem() *MemoryFileSystem {
	return u.fs
}

func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}

	return u.name == o.name && u.fs == o.fs
}

func (u *User) String() string {
	return u.name
}

// Group is a group principal.
type Group struct {
	name string
	fs   *MemoryFileSystem
}

func (g *Group) Name() string {
	return g.name
}

func (g *Group) Filesystem() *MemoryFileSystem {
	return g.fs
}

func (g *Group) Equal(o *Group) bool {
	if g == nil || o == nil {
		return g == o
	}

	return g.name == o.name && g.fs == o.fs
}

func (g *Group) String() string {
	return g.name
}

// UserPrincipalService resolves the users and groups of one
// filesystem and carries the process-wide current-principal override
// stack. The effective principal is the top of the stack, or the
// filesystem default when the stack is empty.
type UserPrincipalService struct {
	fs *MemoryFileSystem

	mu     sync.RWMutex
	users  map[string]*User
	groups map[string]*Group

	defaultUser  *User
	defaultGroup *Group

	overrides []*principalOverride
}

type principalOverride struct {
	user  *User
	group *Group
}

func newUserPrincipalService(fs *MemoryFileSystem, cfg *Config) *UserPrincipalService {
	s := &UserPrincipalService{
		fs:     fs,
		users:  make(map[string]*User, len(cfg.Users)),
		groups: make(map[string]*Group, len(cfg.Groups)),
	}

	for _, name := range cfg.Users {
		s.users[name] = &User{name: name, fs: fs}
	}
	for _, name := range cfg.Groups {
		s.groups[name] = &Group{name: name, fs: fs}
	}

	s.defaultUser = s.users[cfg.DefaultUser]
	s.defaultGroup = s.groups[cfg.DefaultGroup]

	return s
}

// LookupUser resolves a user by name.
// Fails once the filesystem is closed.
func (s *UserPrincipalService) LookupUser(name string) (*User, error) {
	if err := s.fs.checkOpen(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[name]
	if !ok {
		return nil, data.UnknownPrincipal(name)
	}

	return user, nil
}

// LookupGroup resolves a group by name.
// Fails once the filesystem is closed.
func (s *UserPrincipalService) LookupGroup(name string) (*Group, error) {
	if err := s.fs.checkOpen(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[name]
	if !ok {
		return nil, data.UnknownPrincipal(name)
	}

	return group, nil
}

// DefaultUser returns the user effective when no override is pushed.
func (s *UserPrincipalService) DefaultUser() *User {
	return s.defaultUser
}

// DefaultGroup returns the group effective when no override is pushed.
func (s *UserPrincipalService) DefaultGroup() *Group {
	return s.defaultGroup
}

// Override pushes user and group as the current principals and
// returns the paired pop. A nil user or group keeps the previous
// effective value. Callers must invoke the returned func on every
// exit path, typically via defer.
func (s *UserPrincipalService) Override(user *User, group *Group) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user == nil {
		user = s.currentUserLocked()
	}
	if group == nil {
		group = s.currentGroupLocked()
	}

	ov := &principalOverride{user: user, group: group}
	s.overrides = append(s.overrides, ov)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		for i := len(s.overrides) - 1; i >= 0; i-- {
			if s.overrides[i] == ov {
				s.overrides = append(s.overrides[:i], s.overrides[i+1:]...)
				return
			}
		}
	}
}

// AsPrincipal runs fn with the given principals pushed, popping on
// every exit path including panics.
func (s *UserPrincipalService) AsPrincipal(user *User, group *Group, fn func() error) error {
	restore := s.Override(user, group)
	defer restore()

	return fn()
}

func (s *UserPrincipalService) currentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentUserLocked()
}

func (s *UserPrincipalService) currentUserLocked() *User {
	if n := len(s.overrides); n > 0 {
		return s.overrides[n-1].user
	}

	return s.defaultUser
}

func (s *UserPrincipalService) currentGroup() *Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.currentGroupLocked()
}

func (s *UserPrincipalService) currentGroupLocked() *Group {
	if n := len(s.overrides); n > 0 {
		return s.overrides[n-1].group
	}

	return s.defaultGroup
}
