package equipamento

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"gorm.io/gorm"
)

// DadosEquipamento são os atributos propostos/canônicos de um equipamento.
// O mesmo bloco é embutido na tabela canônica e na tabela de operações.
type DadosEquipamento struct {
	ModalidadeID    uint   `json:"modalidadeId"`
	Fabricante      string `gorm:"size:100" json:"fabricante"`
	Modelo          string `gorm:"size:100" json:"modelo"`
	NumeroSerie     string `gorm:"size:100;index" json:"numeroSerie"`
	RegistroAnvisa  string `gorm:"size:50" json:"registroAnvisa"`
	FotoEquipamento string `gorm:"size:255" json:"fotoEquipamento"`
	FotoEtiqueta    string `gorm:"size:255" json:"fotoEtiqueta"`
	UnidadeID       *uint  `gorm:"index" json:"unidadeId"`
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (d *DadosEquipamento) Validar() error {
	if d.ModalidadeID == 0 {
		return apperr.NovoCampo(apperr.Validacao, "MODALIDADE_OBRIGATORIA", "equipamento exige modalidade", "modalidadeId")
	}
	if d.NumeroSerie == "" {
		return apperr.NovoCampo(apperr.Validacao, "NUMERO_SERIE_OBRIGATORIO", "equipamento exige número de série", "numeroSerie")
	}
	return nil
}

type Equipamento struct {
	gorm.Model
	DadosEquipamento `gorm:"embedded"`
	Modalidade       modalidade.Modalidade `gorm:"foreignKey:ModalidadeID" json:"modalidade"`
	Acessorios       []Acessorio           `gorm:"foreignKey:EquipamentoID;constraint:OnDelete:CASCADE" json:"acessorios"`
}

// Acessorio pertence a um equipamento cuja modalidade admite acessórios
// (detector, bobina ou transdutor).
type Acessorio struct {
	gorm.Model
	EquipamentoID  uint   `gorm:"not null;index" json:"equipamentoId"`
	Nome           string `gorm:"size:100" json:"nome"`
	Modelo         string `gorm:"size:100" json:"modelo"`
	NumeroSerie    string `gorm:"size:100" json:"numeroSerie"`
	FotoAcessorio  string `gorm:"size:255" json:"fotoAcessorio"`
	FotoEtiqueta   string `gorm:"size:255" json:"fotoEtiqueta"`
}

// Migrate cria as tabelas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Equipamento{}, &Acessorio{})
}
