package modalidade

import "gorm.io/gorm"

// Tipos de acessório que uma modalidade pode admitir. Equipamentos de
// modalidade "Nenhum" não podem ter acessórios.
const (
	AcessorioNenhum     = "NENHUM"
	AcessorioDetector   = "DETECTOR"
	AcessorioBobina     = "BOBINA"
	AcessorioTransdutor = "TRANSDUTOR"
)

type Modalidade struct {
	gorm.Model
	Nome          string `gorm:"size:100;not null" json:"nome"`
	TipoAcessorio string `gorm:"size:20;not null;default:'NENHUM'" json:"tipoAcessorio"`
}

// TipoAcessorioValido confere se a etiqueta é uma das quatro conhecidas.
func TipoAcessorioValido(t string) bool {
	switch t {
	case AcessorioNenhum, AcessorioDetector, AcessorioBobina, AcessorioTransdutor:
		return true
	}
	return false
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Modalidade{})
}
