package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clubdesk/clubdesk/internal/db/models"
	"github.com/clubdesk/clubdesk/internal/permission"
)

const pgUniqueViolation = "23505"

// RoleStore is the authoritative source of roles, their permission matrices
// and their assignment to users.
type RoleStore struct {
	db *gorm.DB

	// per role, matrix writers of one process queue here before taking the row lock.
	locks sync.Map
}

// NewRoleStore creates a new role store.
func NewRoleStore(db *gorm.DB) *RoleStore {
	return &RoleStore{db: db}
}

// GetRole returns the role with the given id.
func (s *RoleStore) GetRole(ctx context.Context, roleID uint) (*models.Role, error) {
	var role models.Role

	err := s.db.WithContext(ctx).First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", roleID, err)
	}

	return &role, nil
}

// GetRolesForUser returns all roles assigned to a user, ordered by id.
func (s *RoleStore) GetRolesForUser(ctx context.Context, userID uint64) ([]models.Role, error) {
	roles := []models.Role{}

	err := s.db.WithContext(ctx).
		Select("roles.*").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.id").
		Find(&roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load roles of user %d: %w", userID, err)
	}

	return roles, nil
}

// RolesByName returns the roles with the given names. Unknown names are skipped.
func (s *RoleStore) RolesByName(ctx context.Context, names []string) ([]models.Role, error) {
	roles := []models.Role{}

	names = dedupeRoles(names)
	if len(names) == 0 {
		return roles, nil
	}

	if err := s.db.WithContext(ctx).Where("name IN ?", names).Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to load roles by name: %w", err)
	}

	return roles, nil
}

// ListRoles returns all roles ordered by name.
func (s *RoleStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles := []models.Role{}

	if err := s.db.WithContext(ctx).Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	return roles, nil
}

// CreateRole stores a new role. The matrix is validated and normalized first.
func (s *RoleStore) CreateRole(ctx context.Context, role *models.Role) error {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return ErrRoleNameEmpty
	}

	if role.Scope != "" && !role.Scope.Recognized() {
		return fmt.Errorf("%w: %q", ErrUnknownScope, role.Scope)
	}

	if err := role.Permissions.Validate(); err != nil {
		return err //nolint:wrapcheck
	}

	role.Permissions = role.Permissions.Normalize()

	var existing models.Role

	err := s.db.WithContext(ctx).Where("name = ?", role.Name).First(&existing).Error
	if err == nil {
		return ErrRoleNameTaken
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing role: %w", err)
	}

	if err = s.db.WithContext(ctx).Create(role).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrRoleNameTaken
		}

		return fmt.Errorf("failed to create role: %w", err)
	}

	return nil
}

// DeleteRole removes a role and its assignments. System roles can not be deleted.
func (s *RoleStore) DeleteRole(ctx context.Context, roleID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error { //nolint:wrapcheck
		role, err := lockRole(tx, roleID)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return ErrSystemRoleImmutable
		}

		if err = tx.Where("role_id = ?", roleID).Delete(&models.UserRole{}).Error; err != nil {
			return fmt.Errorf("failed to remove assignments of role %d: %w", roleID, err)
		}

		if err = tx.Delete(&models.Role{}, roleID).Error; err != nil {
			return fmt.Errorf("failed to delete role %d: %w", roleID, err)
		}

		return nil
	})
}

// AssignRole gives a role to a user. Assigning a held role again is a no-op.
func (s *RoleStore) AssignRole(ctx context.Context, userID uint64, roleID uint) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, RoleID: roleID, AssignedAt: time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}

	return nil
}

// RevokeRole removes a role from a user.
func (s *RoleStore) RevokeRole(ctx context.Context, userID uint64, roleID uint) error {
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&models.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("failed to revoke role %d from user %d: %w", roleID, userID, err)
	}

	return nil
}

// UpdatePermissionMatrix replaces the whole matrix of a role. Sections and
// actions missing from m are stored as denied. The write is a single-row
// update inside a transaction, serialized per role.
func (s *RoleStore) UpdatePermissionMatrix(
	ctx context.Context,
	roleID uint,
	m permission.Matrix,
) (*models.Role, error) {
	if err := m.Validate(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	normalized := m.Normalize()

	mu := s.lockFor(roleID)
	mu.Lock()
	defer mu.Unlock()

	var updated *models.Role

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := lockRole(tx, roleID)
		if err != nil {
			return err
		}

		if role.IsSystem {
			return ErrSystemRoleImmutable
		}

		if err = tx.Model(role).Update("permissions", normalized).Error; err != nil {
			return fmt.Errorf("failed to update matrix of role %d: %w", roleID, err)
		}

		role.Permissions = normalized
		updated = role

		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return updated, nil
}

func (s *RoleStore) lockFor(roleID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(roleID, &sync.Mutex{})

	return mu.(*sync.Mutex) //nolint:forcetypeassert
}

// lockRole loads a role inside tx, holding its row lock where the dialect has one.
func lockRole(tx *gorm.DB, roleID uint) (*models.Role, error) {
	var role models.Role

	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", roleID, err)
	}

	return &role, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
