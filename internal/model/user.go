package model

// swagger:model User
type User struct {
	UUIDBase
	Name     string `gorm:"size:100;not null" json:"name"`
	Username string `gorm:"size:30;unique;not null" json:"username"`
	Email    string `gorm:"size:100;unique;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	Avatar   string `gorm:"size:255" json:"avatarUrl"`
	Bio      string `gorm:"size:500" json:"bio"`
}

func (User) TableName() string {
	return "users"
}
