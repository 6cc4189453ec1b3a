package ordemservico

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"gorm.io/gorm"
)

// OrdemServico registra o trabalho executado em uma visita. Nasce
// vinculada a exatamente um agendamento e o vínculo nunca muda.
type OrdemServico struct {
	gorm.Model
	Assunto      string                    `gorm:"size:255" json:"assunto"`
	Descricao    string                    `gorm:"type:text" json:"descricao"`
	Conclusao    string                    `gorm:"type:text" json:"conclusao"`
	Atualizacoes []string                  `gorm:"serializer:json" json:"atualizacoes"`
	Equipamentos []equipamento.Equipamento `gorm:"many2many:ordem_servico_equipamentos" json:"equipamentos"`
}

func (OrdemServico) TableName() string {
	return "ordens_servico"
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (o *OrdemServico) Validar() error {
	if o.Assunto == "" {
		return apperr.NovoCampo(apperr.Validacao, "ASSUNTO_OBRIGATORIO", "ordem de serviço exige assunto", "assunto")
	}
	return nil
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&OrdemServico{})
}
