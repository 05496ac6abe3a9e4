package company

import "time"

type Company struct {
	ID              int64     `gorm:"primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	DefaultCurrency string    `gorm:"column:default_currency;size:3;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Company) TableName() string {
	return "companies"
}
