package agendamento

import (
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"
	"gorm.io/gorm"
)

const (
	StatusPendente     = "Pendente"
	StatusConfirmado   = "Confirmado"
	StatusRealizado    = "Realizado"
	StatusNaoRealizado = "Não Realizado"
	StatusReagendado   = "Reagendado"

	TipoPresencial = "Presencial"
	TipoOnline     = "Online"
)

// Agendamento é uma visita de física médica marcada para uma unidade.
// Realizado nunca é atribuído pela API de agendamentos: só o vínculo de
// uma ordem de serviço marca a visita como realizada.
type Agendamento struct {
	gorm.Model
	UnidadeID       uint      `gorm:"index" json:"unidadeId"`
	Data            time.Time `gorm:"index" json:"data"`
	Tipo            string    `gorm:"size:10" json:"tipo"`
	Status          string    `gorm:"size:15;index" json:"status"`
	NomeContato     string    `gorm:"size:100" json:"nomeContato"`
	TelefoneContato string    `gorm:"size:11" json:"telefoneContato"`
	Justificativa   string    `gorm:"size:255" json:"justificativa"`
	OrdemServicoID  *uint     `gorm:"uniqueIndex" json:"ordemServicoId,omitempty"`
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (a *Agendamento) Validar() error {
	if a.UnidadeID == 0 {
		return apperr.NovoCampo(apperr.Validacao, "UNIDADE_OBRIGATORIA", "agendamento exige uma unidade", "unidadeId")
	}
	if a.Tipo != TipoPresencial && a.Tipo != TipoOnline {
		return apperr.NovoCampo(apperr.Validacao, "TIPO_INVALIDO", "tipo deve ser Presencial ou Online", "tipo")
	}
	switch a.Status {
	case StatusPendente, StatusConfirmado, StatusRealizado, StatusNaoRealizado, StatusReagendado:
	default:
		return apperr.NovoCampo(apperr.Validacao, "STATUS_INVALIDO", "status de agendamento desconhecido", "status")
	}
	if a.TelefoneContato != "" && !utils.ValidarCelular(a.TelefoneContato) {
		return apperr.NovoCampo(apperr.Validacao, "TELEFONE_INVALIDO", "celular deve ter 11 dígitos com nono dígito", "telefoneContato")
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Agendamento{})
}
