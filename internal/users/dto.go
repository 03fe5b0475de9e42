package users

import (
	"strings"
	"time"

	"github.com/cropwatch/cropwatch-backend/pkg/db/models"
	"github.com/cropwatch/cropwatch-backend/pkg/types"
)

// UserDTO is the public projection of a user. It never carries the password hash.
type UserDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Location  *string   `json:"location"`
	Phone     *string   `json:"phone"`
	CropType  *string   `json:"crop_type"`
	FieldArea *float64  `json:"field_area"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	CropType     *string
}

// UpdateProfileRequest is a partial update. Absent fields are left alone and
// JSON null clears the column.
type UpdateProfileRequest struct {
	FirstName types.NullableString `json:"first_name"`
	LastName  types.NullableString `json:"last_name"`
	Location  types.NullableString `json:"location"`
	Phone     types.NullableString `json:"phone"`
	CropType  types.NullableString `json:"crop_type"`
	FieldArea types.NullableFloat  `json:"field_area"`
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Location:  u.Location,
		Phone:     u.Phone,
		CropType:  u.CropType,
		FieldArea: u.FieldArea,
		CreatedAt: u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		Email:        NormalizeEmail(c.Email),
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		CropType:     c.CropType,
	}
}

// Changes returns the column updates carried by the request, keyed by column name.
func (r UpdateProfileRequest) Changes() map[string]any {
	changes := map[string]any{}
	strs := []struct {
		column string
		value  types.NullableString
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"location", r.Location},
		{"phone", r.Phone},
		{"crop_type", r.CropType},
	}
	for _, s := range strs {
		if s.value.Valid {
			changes[s.column] = s.value.Trimmed()
		}
	}
	if r.FieldArea.Valid {
		changes["field_area"] = r.FieldArea.Value
	}
	return changes
}

// NormalizeEmail trims and lower-cases an address so lookups and uniqueness agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
