package user

import "time"

type User struct {
	ID                  int64      `gorm:"primaryKey"`
	CompanyID           int64      `gorm:"column:company_id;not null;index"`
	FullName            string     `gorm:"column:full_name;not null"`
	Email               string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash        string     `gorm:"column:password_hash;not null"`
	Role                string     `gorm:"column:role;not null"`
	ManagerID           *int64     `gorm:"column:manager_id;index"`
	ResetTokenHash      *string    `gorm:"column:reset_token_hash;index"`
	ResetTokenExpiresAt *time.Time `gorm:"column:reset_token_expires_at"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
