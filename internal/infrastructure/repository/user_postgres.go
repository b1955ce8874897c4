package repository

import (
	"context"
	"time"

	"zenmindful/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLanguage  = "en"
	defaultFirstName = "New User"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure creates a bare record for id, or only touches updated_at when one
// already exists, then copies the non-empty fields of ident onto it. Both
// steps share one transaction: when ident collides with another user's
// email or phone nothing is written. created is true only for the call
// whose insert landed, so concurrent first calls cannot both report it.
func (r *UserRepository) Ensure(ctx context.Context, id string, ident domain.Identity) (bool, error) {
	now := time.Now().UTC()
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := UserGorm{
			ID:                id,
			FirstName:         defaultFirstName,
			PreferredLanguage: defaultLanguage,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&u)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0

		updates := identityUpdates(ident)
		if created && len(updates) == 0 {
			return nil
		}
		updates["updated_at"] = now
		return tx.Model(&UserGorm{}).Where("id = ?", id).Updates(updates).Error
	})
	if err != nil {
		return false, storageErr(err, nil)
	}
	return created, nil
}

func identityUpdates(ident domain.Identity) map[string]interface{} {
	updates := map[string]interface{}{}
	if ident.Email != "" {
		updates["email"] = ident.Email
	}
	if ident.PhoneNumber != "" {
		updates["phone_number"] = ident.PhoneNumber
	}
	if ident.FirstName != "" {
		updates["first_name"] = ident.FirstName
	}
	if ident.LastName != "" {
		updates["last_name"] = ident.LastName
	}
	if ident.ProfileImageURL != "" {
		updates["profile_image_url"] = ident.ProfileImageURL
	}
	return updates
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u UserGorm
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, storageErr(err, domain.ErrUserNotFound)
	}
	return u.ToDomain(), nil
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	var u UserGorm
	if err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&u).Error; err != nil {
		return nil, storageErr(err, domain.ErrUserNotFound)
	}
	return u.ToDomain(), nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	lang := p.PreferredLanguage
	if lang == "" {
		lang = defaultLanguage
	}
	goals := p.WellnessGoals
	if goals == nil {
		goals = []string{}
	}

	var out *domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&UserGorm{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":               p.Name,
			"age":                p.Age,
			"wellness_goals":     datatypes.JSONSlice[string](goals),
			"preferred_time":     p.PreferredTime,
			"motivation":         p.Motivation,
			"preferred_language": lang,
			"updated_at":         time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var u UserGorm
		if err := tx.Where("id = ?", id).First(&u).Error; err != nil {
			return err
		}
		out = u.ToDomain()
		return nil
	})
	if err != nil {
		return nil, storageErr(err, domain.ErrUserNotFound)
	}
	return out, nil
}

// Delete removes the user together with every enrollment and ledger row.
// The children are deleted explicitly so the reset does not depend on the
// backend enforcing ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&DayFactGorm{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&EnrollmentGorm{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&UserGorm{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return storageErr(err, domain.ErrUserNotFound)
}
