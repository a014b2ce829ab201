package sqlite

import "time"

// accountModel mirrors the 'users' table.
type accountModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(255);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         string `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (accountModel) TableName() string {
	return "users"
}

// accountEventModel mirrors the 'account_events' audit table.
type accountEventModel struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Type       string `gorm:"type:varchar(32);not null;index"`
	AccountID  int64  `gorm:"index"`
	Email      string `gorm:"type:varchar(255)"`
	OccurredAt time.Time
}

func (accountEventModel) TableName() string {
	return "account_events"
}
