package auth

import "sync"

// WriterLock exposes the per role matrix writer lock to tests.
func (s *RoleStore) WriterLock(roleID uint) *sync.Mutex {
	return s.lockFor(roleID)
}
