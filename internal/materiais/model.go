package materiais

import (
	"gorm.io/gorm"
)

// Material é um documento de apoio disponível para todos os perfis.
type Material struct {
	gorm.Model
	Nome      string `gorm:"size:255" json:"nome"`
	Descricao string `gorm:"size:500" json:"descricao"`
	Arquivo   string `gorm:"size:255" json:"arquivo"`
}

func (Material) TableName() string {
	return "materiais"
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Material{})
}
