package relatorio

import (
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"gorm.io/gorm"
)

// Tipos vinculados a unidade.
const (
	TipoMemorial                 = "MEMORIAL"
	TipoLevantamentoRadiometrico = "LEVANTAMENTO_RADIOMETRICO"
	TipoTesteDeAceite            = "TESTE_DE_ACEITE"
)

// Tipos vinculados a equipamento.
const (
	TipoControleDeQualidade   = "CONTROLE_DE_QUALIDADE"
	TipoTesteEletrico         = "TESTE_ELETRICO"
	TipoTesteDeFugaDeRadiacao = "TESTE_DE_FUGA_DE_RADIACAO"
)

// Status derivados do vencimento; nunca são persistidos.
const (
	StatusVencido           = "VENCIDO"
	StatusProximoVencimento = "PROXIMO_VENCIMENTO"
	StatusEmDia             = "EM_DIA"
)

var tiposDeUnidade = map[string]bool{
	TipoMemorial:                 true,
	TipoLevantamentoRadiometrico: true,
	TipoTesteDeAceite:            true,
}

var tiposDeEquipamento = map[string]bool{
	TipoControleDeQualidade:   true,
	TipoTesteEletrico:         true,
	TipoTesteDeFugaDeRadiacao: true,
}

// Relatorio é um laudo técnico vinculado a uma unidade OU a um
// equipamento, nunca ambos. A exclusão é explícita (ExcluidoEm) em vez
// do soft delete padrão: relatório arquivado continua consultável por
// quem pode ver arquivados, e ExcluidoPorID distingue arquivamento
// manual (usuário) de substituição automática (nulo).
type Relatorio struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Tipo           string     `gorm:"size:30;index" json:"tipo"`
	UnidadeID      *uint      `gorm:"index" json:"unidadeId,omitempty"`
	EquipamentoID  *uint      `gorm:"index" json:"equipamentoId,omitempty"`
	DataConclusao  time.Time  `json:"dataConclusao"`
	DataVencimento time.Time  `gorm:"index" json:"dataVencimento"`
	Arquivo        string     `gorm:"size:255" json:"arquivo"`
	ExcluidoEm     *time.Time `gorm:"index" json:"excluidoEm,omitempty"`
	ExcluidoPorID  *uint      `json:"excluidoPorId,omitempty"`
}

// Validar confere o tipo e o vínculo exclusivo com unidade ou equipamento.
func (r *Relatorio) Validar() error {
	switch {
	case tiposDeUnidade[r.Tipo]:
		if r.UnidadeID == nil || r.EquipamentoID != nil {
			return apperr.NovoCampo(apperr.Validacao, "VINCULO_INVALIDO",
				"relatório do tipo "+r.Tipo+" vincula-se a uma unidade, não a um equipamento", "unidadeId")
		}
	case tiposDeEquipamento[r.Tipo]:
		if r.EquipamentoID == nil || r.UnidadeID != nil {
			return apperr.NovoCampo(apperr.Validacao, "VINCULO_INVALIDO",
				"relatório do tipo "+r.Tipo+" vincula-se a um equipamento, não a uma unidade", "equipamentoId")
		}
	default:
		return apperr.NovoCampo(apperr.Validacao, "TIPO_INVALIDO", "tipo de relatório desconhecido", "tipo")
	}
	if r.DataConclusao.IsZero() {
		return apperr.NovoCampo(apperr.Validacao, "DATA_CONCLUSAO_OBRIGATORIA", "relatório exige data de conclusão", "dataConclusao")
	}
	return nil
}

// CalcularVencimento deriva a validade a partir da conclusão: quatro
// anos para levantamento radiométrico, um ano para o restante.
func CalcularVencimento(tipo string, conclusao time.Time) time.Time {
	if tipo == TipoLevantamentoRadiometrico {
		return conclusao.Add(4 * 365 * 24 * time.Hour)
	}
	return conclusao.Add(365 * 24 * time.Hour)
}

// StatusVencimento classifica o relatório na data de referência.
func (r *Relatorio) StatusVencimento(hoje time.Time) string {
	if r.DataVencimento.Before(hoje) {
		return StatusVencido
	}
	if !r.DataVencimento.After(hoje.AddDate(0, 0, 30)) {
		return StatusProximoVencimento
	}
	return StatusEmDia
}

// Excluido responde se o relatório está arquivado ou substituído.
func (r *Relatorio) Excluido() bool {
	return r.ExcluidoEm != nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Relatorio{})
}
