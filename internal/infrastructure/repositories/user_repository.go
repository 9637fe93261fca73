package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/you/usersvc/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID           uint    `gorm:"primaryKey"`
	Fullname     string  `gorm:"size:255;not null"`
	Username     string  `gorm:"uniqueIndex;size:64;not null"`
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	Phone        string  `gorm:"uniqueIndex;size:32;not null"`
	Avatar       string  `gorm:"size:1024"`
	Address      string  `gorm:"size:512"`
	PasswordHash string  `gorm:"column:password;not null"`
	RefreshToken *string `gorm:"column:refresh_token;size:1024"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByIdentity implements domain.UserRepository
func (r *UserRepositoryImpl) FindByIdentity(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.IsEmpty() {
		return nil, domain.ErrUserNotFound
	}

	var conditions []string
	var args []interface{}
	if identity.Username != "" {
		conditions = append(conditions, "username = ?")
		args = append(args, strings.ToLower(identity.Username))
	}
	if identity.Email != "" {
		conditions = append(conditions, "email = ?")
		args = append(args, identity.Email)
	}
	if identity.Phone != "" {
		conditions = append(conditions, "phone = ?")
		args = append(args, identity.Phone)
	}

	var dbUser DBUser
	err := r.db.WithContext(ctx).Where(strings.Join(conditions, " OR "), args...).Order("id").First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// UpdatePassword implements domain.UserRepository
func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"password": passwordHash})
}

// UpdateProfile implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateProfile(ctx context.Context, userID uint, update domain.ProfileUpdate) (*domain.User, error) {
	fields := map[string]interface{}{}
	if update.Fullname != "" {
		fields["fullname"] = update.Fullname
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.Address != "" {
		fields["address"] = update.Address
	}

	if len(fields) > 0 {
		if err := r.updateColumns(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, userID)
}

// UpdateAvatar implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateAvatar(ctx context.Context, userID uint, avatarURL string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"avatar": avatarURL})
}

// SetRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) SetRefreshToken(ctx context.Context, userID uint, token string) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"refresh_token": token})
}

// SwapRefreshToken implements domain.UserRepository as a single conditional UPDATE
func (r *UserRepositoryImpl) SwapRefreshToken(ctx context.Context, userID uint, oldToken, newToken string) (bool, error) {
	if oldToken == "" {
		return false, nil
	}
	result := r.db.WithContext(ctx).Model(&DBUser{}).
		Where("id = ? AND refresh_token = ?", userID, oldToken).
		Updates(map[string]interface{}{"refresh_token": newToken, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearRefreshToken implements domain.UserRepository
func (r *UserRepositoryImpl) ClearRefreshToken(ctx context.Context, userID uint) error {
	return r.updateColumns(ctx, userID, map[string]interface{}{"refresh_token": gorm.Expr("NULL")})
}

func (r *UserRepositoryImpl) updateColumns(ctx context.Context, userID uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return domain.ErrUserAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// drivers opened without TranslateError
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	dbUser := &DBUser{
		ID:           user.ID,
		Fullname:     user.Fullname,
		Username:     user.Username,
		Email:        user.Email,
		Phone:        user.Phone,
		Avatar:       user.Avatar,
		Address:      user.Address,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if user.RefreshToken != "" {
		token := user.RefreshToken
		dbUser.RefreshToken = &token
	}
	return dbUser
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	user := &domain.User{
		ID:           dbUser.ID,
		Fullname:     dbUser.Fullname,
		Username:     dbUser.Username,
		Email:        dbUser.Email,
		Phone:        dbUser.Phone,
		Avatar:       dbUser.Avatar,
		Address:      dbUser.Address,
		PasswordHash: dbUser.PasswordHash,
		CreatedAt:    dbUser.CreatedAt,
		UpdatedAt:    dbUser.UpdatedAt,
	}
	if dbUser.RefreshToken != nil {
		user.RefreshToken = *dbUser.RefreshToken
	}
	return user
}
