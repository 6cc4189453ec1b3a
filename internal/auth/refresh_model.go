package auth

import (
	"time"

	"gorm.io/gorm"
)

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index"`
	Perfil    string `gorm:"size:3"`
	Hash      string `gorm:"uniqueIndex"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RefreshToken{})
}
