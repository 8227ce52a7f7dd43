package persistence

import (
	"context"
	"strconv"
	"strings"

	"github.com/landmarket/backend/internal/domain/identity"
	"github.com/landmarket/backend/internal/domain/shared"
	"github.com/landmarket/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByPk finds a user by ID
func (r *GormUserRepository) FindByPk(ctx context.Context, id uint64) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by email, ignoring case
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return nil, shared.NotFound("user")
	}
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		First(&model).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return model.ToDomain(), nil
}

// CheckUserExists reports whether an account uses email
func (r *GormUserRepository) CheckUserExists(ctx context.Context, email string) (bool, error) {
	email = identity.NormalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		return false, shared.Storage(err)
	}
	return count > 0, nil
}

// IsAdmin reports whether id belongs to an administrator
func (r *GormUserRepository) IsAdmin(ctx context.Context, id uint64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ? AND role = ?", id, identity.RoleAdmin).
		Count(&count).Error; err != nil {
		return false, shared.Storage(err)
	}
	return count > 0, nil
}

// Create inserts a new user and assigns its ID
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return writeErr(err, "user")
	}
	user.ID = model.ID
	return nil
}

// Update saves an existing user
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	result := updateRow(r.db.WithContext(ctx), model)
	if result.Error != nil {
		return writeErr(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return shared.NotFound("user")
	}
	return nil
}

// Delete removes a user together with the seller profile and logo it owns
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sellerIDs []uint64
		if err := tx.Model(&models.SellerModel{}).Where("user_id = ?", id).Pluck("id", &sellerIDs).Error; err != nil {
			return shared.Storage(err)
		}
		if len(sellerIDs) > 0 {
			if err := tx.Where("entity_type = ? AND entity_id IN ?", shared.EntitySeller, sellerIDs).
				Delete(&models.ImageModel{}).Error; err != nil {
				return shared.Storage(err)
			}
			if err := tx.Where("id IN ?", sellerIDs).Delete(&models.SellerModel{}).Error; err != nil {
				return shared.Storage(err)
			}
		}
		result := tx.Delete(&models.UserModel{}, "id = ?", id)
		if result.Error != nil {
			return shared.Storage(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFound("user")
		}
		return nil
	})
}

// GormAdminRepository lists and filters users for administrators
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetAllUsers returns one page of users ordered by id
func (r *GormAdminRepository) GetAllUsers(ctx context.Context, page shared.Page) (shared.Paginated[*identity.User], error) {
	return r.paginate(ctx, r.db.WithContext(ctx).Model(&models.UserModel{}), page)
}

// FindUsers returns one page of users matching every allow-listed filter.
// name matches first or last name and email matches a substring, both ignoring case.
func (r *GormAdminRepository) FindUsers(ctx context.Context, filters identity.UserFilters, page shared.Page) (shared.Paginated[*identity.User], error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})
	projected := filters.Project()
	for _, key := range identity.UserFilterKeys {
		value, ok := projected[key]
		if !ok {
			continue
		}
		switch key {
		case "name":
			pattern := containsPattern(value)
			query = query.Where(`(LOWER(f_name) LIKE ? ESCAPE '\' OR LOWER(l_name) LIKE ? ESCAPE '\')`, pattern, pattern)
		case "email":
			query = query.Where(`LOWER(email) LIKE ? ESCAPE '\'`, containsPattern(value))
		case "role":
			role, err := strconv.Atoi(value)
			if err != nil {
				return shared.NewPaginated[*identity.User](nil, 0, page), nil
			}
			query = query.Where("role = ?", role)
		}
	}
	return r.paginate(ctx, query, page)
}

// FindUsersByIDs returns the given users ordered by id, or every user when ids is empty
func (r *GormAdminRepository) FindUsersByIDs(ctx context.Context, ids []uint64) ([]*identity.User, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	var rows []models.UserModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, shared.Storage(err)
	}
	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users, nil
}

func (r *GormAdminRepository) paginate(ctx context.Context, query *gorm.DB, page shared.Page) (shared.Paginated[*identity.User], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return shared.Paginated[*identity.User]{}, shared.Storage(err)
	}
	if total == 0 || int64(page.Offset()) >= total {
		return shared.NewPaginated[*identity.User](nil, total, page), nil
	}
	var rows []models.UserModel
	if err := query.Order("id ASC").Offset(page.Offset()).Limit(page.Limit()).Find(&rows).Error; err != nil {
		return shared.Paginated[*identity.User]{}, shared.Storage(err)
	}
	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return shared.NewPaginated(users, total, page), nil
}

var (
	_ identity.UserRepository  = (*GormUserRepository)(nil)
	_ identity.AdminRepository = (*GormAdminRepository)(nil)
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// containsPattern builds a lower-cased LIKE pattern matching value as a
// literal substring; pair it with ESCAPE '\'
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
