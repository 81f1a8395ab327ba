package models

// User is a registered account. Column names follow the existing camelCase
// schema of the `user` table.
type User struct {
	ID             uint   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email          string `json:"email" gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Password       string `json:"-" gorm:"column:password;type:varchar(255);not null"` // bcrypt hash, never serialized
	FirstName      string `json:"firstName" gorm:"column:firstName;type:varchar(100);not null"`
	LastName       string `json:"lastName" gorm:"column:lastName;type:varchar(100);not null"`
	ProfilePicture []byte `json:"-" gorm:"column:profilePicture"`
}

// TableName overrides GORM's pluralized default.
func (User) TableName() string { return "user" }

// UserProfile is the public view of a user returned by /user-info.
// ProfilePicture is a data URI, or nil when no picture is stored.
type UserProfile struct {
	ID             uint    `json:"id"`
	Email          string  `json:"email"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	ProfilePicture *string `json:"profilePicture"`
}
