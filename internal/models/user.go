package models

// User is the profile stored for a third-party identity on first sign-in.
type User struct {
	ID       string `json:"_id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	UID      string `json:"uid" bson:"uid" gorm:"uniqueIndex;type:varchar(128)" validate:"required"`
	Email    string `json:"email" bson:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Name     string `json:"name" bson:"name" gorm:"type:varchar(255)" validate:"required"`
	PhotoURL string `json:"photoURL,omitempty" bson:"photoURL,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
}

// ProfilePatch carries the mutable profile fields. Nil fields are left alone.
type ProfilePatch struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=1"`
	PhotoURL *string `json:"photoURL,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.PhotoURL == nil && p.Phone == nil && p.Address == nil
}

// Apply copies the set fields onto u.
func (p ProfilePatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.PhotoURL != nil {
		u.PhotoURL = *p.PhotoURL
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
}
