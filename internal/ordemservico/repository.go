package ordemservico

import (
	"errors"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"gorm.io/gorm"
)

// ErrAgendamentoJaVinculado sinaliza a corrida entre duas ordens de
// serviço pelo mesmo agendamento: só a primeira vence.
var ErrAgendamentoJaVinculado = errors.New("o agendamento já possui uma ordem de serviço")

// ErrEquipamentoForaDaUnidade sinaliza equipamento que não pertence à
// unidade do agendamento vinculado.
var ErrEquipamentoForaDaUnidade = errors.New("equipamento não pertence à unidade do agendamento")

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*OrdemServico, error)
	Listar(db *gorm.DB) ([]OrdemServico, error)
	CriarVinculada(db *gorm.DB, os *OrdemServico, agendamentoID uint) error
	Atualizar(db *gorm.DB, os *OrdemServico) error
	AgendamentoDe(db *gorm.DB, osID uint) (*agendamento.Agendamento, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*OrdemServico, error) {
	var os OrdemServico
	err := db.Preload("Equipamentos.Modalidade").First(&os, id).Error
	return &os, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]OrdemServico, error) {
	var lista []OrdemServico
	err := db.Preload("Equipamentos").Find(&lista).Error
	return lista, err
}

// CriarVinculada cria a ordem e reivindica o agendamento na mesma
// transação. A reivindicação é um UPDATE condicional: se outra ordem
// chegou primeiro, nenhuma linha é afetada e tudo é desfeito.
func (r *repositoryImpl) CriarVinculada(db *gorm.DB, os *OrdemServico, agendamentoID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var ag agendamento.Agendamento
		if err := tx.First(&ag, agendamentoID).Error; err != nil {
			return err
		}

		// equipamentos devem pertencer à unidade do agendamento
		for _, e := range os.Equipamentos {
			var n int64
			err := tx.Table("equipamentos").
				Where("id = ? AND unidade_id = ? AND deleted_at IS NULL", e.ID, ag.UnidadeID).
				Count(&n).Error
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrEquipamentoForaDaUnidade
			}
		}

		if err := tx.Create(os).Error; err != nil {
			return err
		}

		res := tx.Model(&agendamento.Agendamento{}).
			Where("id = ? AND ordem_servico_id IS NULL", agendamentoID).
			Updates(map[string]interface{}{
				"ordem_servico_id": os.ID,
				"status":           agendamento.StatusRealizado,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAgendamentoJaVinculado
		}
		return nil
	})
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, os *OrdemServico) error {
	return db.Save(os).Error
}

func (r *repositoryImpl) AgendamentoDe(db *gorm.DB, osID uint) (*agendamento.Agendamento, error) {
	var ag agendamento.Agendamento
	err := db.Where("ordem_servico_id = ?", osID).First(&ag).Error
	return &ag, err
}
