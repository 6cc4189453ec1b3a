package proposta

import (
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ContratoAnual  = "Anual"
	ContratoMensal = "Mensal"

	StatusPendente  = "Pendente"
	StatusAceita    = "Aceita"
	StatusRejeitada = "Rejeitada"
)

// Proposta é uma oferta comercial para um CNPJ, que não precisa ser um
// cliente cadastrado. Um CNPJ acumula histórico de propostas.
type Proposta struct {
	gorm.Model
	CNPJ            string          `gorm:"size:14;index" json:"cnpj"`
	Cidade          string          `gorm:"size:100" json:"cidade"`
	UF              string          `gorm:"size:2" json:"uf"`
	NomeContato     string          `gorm:"size:100" json:"nomeContato"`
	TelefoneContato string          `gorm:"size:11" json:"telefoneContato"`
	Email           string          `gorm:"size:255" json:"email"`
	Data            time.Time       `gorm:"index" json:"data"`
	Valor           decimal.Decimal `gorm:"type:numeric(12,2)" json:"valor"`
	TipoContrato    string          `gorm:"size:10;index" json:"tipoContrato"`
	Status          string          `gorm:"size:10;index" json:"status"`
	AnexoProposta   string          `gorm:"size:255" json:"anexoProposta"`
	AnexoContrato   string          `gorm:"size:255" json:"anexoContrato"`
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (p *Proposta) Validar() error {
	if !utils.ValidarCNPJ(p.CNPJ) {
		return apperr.NovoCampo(apperr.Validacao, "CNPJ_INVALIDO", "CNPJ inválido", "cnpj")
	}
	if !utils.ValidarUF(p.UF) {
		return apperr.NovoCampo(apperr.Validacao, "UF_INVALIDA", "UF desconhecida", "uf")
	}
	if p.TelefoneContato != "" && !utils.ValidarCelular(p.TelefoneContato) {
		return apperr.NovoCampo(apperr.Validacao, "TELEFONE_INVALIDO", "celular deve ter 11 dígitos com nono dígito", "telefoneContato")
	}
	if p.TipoContrato != ContratoAnual && p.TipoContrato != ContratoMensal {
		return apperr.NovoCampo(apperr.Validacao, "TIPO_CONTRATO_INVALIDO", "tipo de contrato deve ser Anual ou Mensal", "tipoContrato")
	}
	switch p.Status {
	case StatusPendente, StatusAceita, StatusRejeitada:
	default:
		return apperr.NovoCampo(apperr.Validacao, "STATUS_INVALIDO", "status deve ser Pendente, Aceita ou Rejeitada", "status")
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Proposta{})
}
