package operacao

import (
	"errors"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"gorm.io/gorm"
)

var (
	// ErrReferenciaOriginalAusente sinaliza operação sobre um registro
	// canônico que não existe.
	ErrReferenciaOriginalAusente = errors.New("o registro original da operação não existe")
	// ErrRevisaoEmAndamento impede duas operações em análise sobre o
	// mesmo alvo.
	ErrRevisaoEmAndamento = errors.New("já existe uma operação em análise para este alvo")
	// ErrPerfilSemPermissao sinaliza revisão por quem não é Gerente Prophy.
	ErrPerfilSemPermissao = errors.New("apenas o Gerente Prophy revisa operações")
	// ErrTransicaoInvalida sinaliza revisão de operação que não está em análise.
	ErrTransicaoInvalida = errors.New("a operação não está em análise")
	// ErrCNPJDuplicado impede a inclusão de cliente com CNPJ já cadastrado.
	ErrCNPJDuplicado = errors.New("já existe cliente com este CNPJ")
)

func validarWorkflow(w *Workflow) error {
	switch w.TipoOperacao {
	case TipoAdicionar:
		if w.OriginalID != nil {
			return ErrTransicaoInvalida
		}
	case TipoEditar, TipoExcluir:
		if w.OriginalID == nil {
			return ErrReferenciaOriginalAusente
		}
	default:
		return ErrTransicaoInvalida
	}
	w.StatusOperacao = StatusEmAnalise
	return nil
}

// CriarCliente enfileira uma operação sobre a entidade cliente. A
// checagem de unicidade (uma análise por alvo, um CNPJ por cadastro)
// acontece dentro da transação de criação.
func CriarCliente(db *gorm.DB, op *OperacaoCliente) error {
	if err := validarWorkflow(&op.Workflow); err != nil {
		return err
	}
	if op.TipoOperacao != TipoExcluir {
		if err := op.DadosCliente.Validar(); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if op.OriginalID != nil {
			var n int64
			if err := tx.Model(&cliente.Cliente{}).Where("id = ?", *op.OriginalID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrReferenciaOriginalAusente
			}
			var pendentes int64
			err := tx.Model(&OperacaoCliente{}).
				Where("original_id = ? AND status_operacao = ?", *op.OriginalID, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		} else {
			var cadastrados int64
			if err := tx.Model(&cliente.Cliente{}).Where("cnpj = ?", op.CNPJ).Count(&cadastrados).Error; err != nil {
				return err
			}
			if cadastrados > 0 {
				return ErrCNPJDuplicado
			}
			var pendentes int64
			err := tx.Model(&OperacaoCliente{}).
				Where("cnpj = ? AND tipo_operacao = ? AND status_operacao = ?", op.CNPJ, TipoAdicionar, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		}
		return tx.Create(op).Error
	})
}

// CriarUnidade enfileira uma operação sobre a entidade unidade.
func CriarUnidade(db *gorm.DB, op *OperacaoUnidade) error {
	if err := validarWorkflow(&op.Workflow); err != nil {
		return err
	}
	if op.TipoOperacao != TipoExcluir {
		if err := op.DadosUnidade.Validar(); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if op.OriginalID != nil {
			var n int64
			if err := tx.Model(&unidade.Unidade{}).Where("id = ?", *op.OriginalID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrReferenciaOriginalAusente
			}
			var pendentes int64
			err := tx.Model(&OperacaoUnidade{}).
				Where("original_id = ? AND status_operacao = ?", *op.OriginalID, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		} else {
			if op.ClienteID == nil {
				return ErrReferenciaOriginalAusente
			}
			var donos int64
			if err := tx.Model(&cliente.Cliente{}).Where("id = ?", *op.ClienteID).Count(&donos).Error; err != nil {
				return err
			}
			if donos == 0 {
				return ErrReferenciaOriginalAusente
			}
			var pendentes int64
			err := tx.Model(&OperacaoUnidade{}).
				Where("cnpj = ? AND nome = ? AND tipo_operacao = ? AND status_operacao = ?",
					op.CNPJ, op.Nome, TipoAdicionar, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		}
		return tx.Create(op).Error
	})
}

// CriarEquipamento enfileira uma operação sobre a entidade equipamento.
func CriarEquipamento(db *gorm.DB, op *OperacaoEquipamento) error {
	if err := validarWorkflow(&op.Workflow); err != nil {
		return err
	}
	if op.TipoOperacao != TipoExcluir {
		if err := op.DadosEquipamento.Validar(); err != nil {
			return err
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if op.OriginalID != nil {
			var n int64
			if err := tx.Model(&equipamento.Equipamento{}).Where("id = ?", *op.OriginalID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrReferenciaOriginalAusente
			}
			var pendentes int64
			err := tx.Model(&OperacaoEquipamento{}).
				Where("original_id = ? AND status_operacao = ?", *op.OriginalID, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		} else {
			if op.UnidadeID == nil {
				return ErrReferenciaOriginalAusente
			}
			var donas int64
			if err := tx.Model(&unidade.Unidade{}).Where("id = ?", *op.UnidadeID).Count(&donas).Error; err != nil {
				return err
			}
			if donas == 0 {
				return ErrReferenciaOriginalAusente
			}
			var pendentes int64
			err := tx.Model(&OperacaoEquipamento{}).
				Where("numero_serie = ? AND fabricante = ? AND modelo = ? AND tipo_operacao = ? AND status_operacao = ?",
					op.NumeroSerie, op.Fabricante, op.Modelo, TipoAdicionar, StatusEmAnalise).
				Count(&pendentes).Error
			if err != nil {
				return err
			}
			if pendentes > 0 {
				return ErrRevisaoEmAndamento
			}
		}
		return tx.Create(op).Error
	})
}

// RevisarCliente decide uma operação de cliente em análise. A aplicação
// e o fechamento da operação acontecem na mesma transação.
func RevisarCliente(db *gorm.DB, id uint, perfil string, aprovar bool, comentarios string) (*OperacaoCliente, error) {
	if perfil != permissao.PerfilGerenteProphy {
		return nil, ErrPerfilSemPermissao
	}

	var op OperacaoCliente
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&op, id).Error; err != nil {
			return err
		}
		if op.StatusOperacao != StatusEmAnalise {
			return ErrTransicaoInvalida
		}

		if !aprovar {
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusRejeitada,
				"comentarios":     comentarios,
			}).Error
		}

		switch op.TipoOperacao {
		case TipoAdicionar:
			novo := cliente.Cliente{DadosCliente: op.DadosCliente, Ativo: true}
			if err := tx.Create(&novo).Error; err != nil {
				return err
			}
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"tipo_operacao":   TipoFechada,
				"original_id":     novo.ID,
				"comentarios":     comentarios,
			}).Error

		case TipoEditar:
			var original cliente.Cliente
			if err := tx.First(&original, *op.OriginalID).Error; err != nil {
				return err
			}
			original.DadosCliente = op.DadosCliente
			if err := tx.Save(&original).Error; err != nil {
				return err
			}
			// edição aplicada vira estado canônico; a operação sai da fila
			return tx.Unscoped().Delete(&op).Error

		case TipoExcluir:
			// fecha antes da purga: a operação aceita fica de fora dela
			// e sobrevive como histórico
			err := tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"comentarios":     comentarios,
			}).Error
			if err != nil {
				return err
			}
			return desativarCliente(tx, *op.OriginalID)
		}
		return ErrTransicaoInvalida
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// RevisarUnidade decide uma operação de unidade em análise.
func RevisarUnidade(db *gorm.DB, id uint, perfil string, aprovar bool, comentarios string) (*OperacaoUnidade, error) {
	if perfil != permissao.PerfilGerenteProphy {
		return nil, ErrPerfilSemPermissao
	}

	var op OperacaoUnidade
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&op, id).Error; err != nil {
			return err
		}
		if op.StatusOperacao != StatusEmAnalise {
			return ErrTransicaoInvalida
		}

		if !aprovar {
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusRejeitada,
				"comentarios":     comentarios,
			}).Error
		}

		switch op.TipoOperacao {
		case TipoAdicionar:
			nova := unidade.Unidade{DadosUnidade: op.DadosUnidade}
			if err := tx.Create(&nova).Error; err != nil {
				return err
			}
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"tipo_operacao":   TipoFechada,
				"original_id":     nova.ID,
				"comentarios":     comentarios,
			}).Error

		case TipoEditar:
			var original unidade.Unidade
			if err := tx.First(&original, *op.OriginalID).Error; err != nil {
				return err
			}
			original.DadosUnidade = op.DadosUnidade
			if err := tx.Save(&original).Error; err != nil {
				return err
			}
			return tx.Unscoped().Delete(&op).Error

		case TipoExcluir:
			err := tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"comentarios":     comentarios,
			}).Error
			if err != nil {
				return err
			}
			return excluirUnidade(tx, *op.OriginalID)
		}
		return ErrTransicaoInvalida
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

// RevisarEquipamento decide uma operação de equipamento em análise.
func RevisarEquipamento(db *gorm.DB, id uint, perfil string, aprovar bool, comentarios string) (*OperacaoEquipamento, error) {
	if perfil != permissao.PerfilGerenteProphy {
		return nil, ErrPerfilSemPermissao
	}

	var op OperacaoEquipamento
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&op, id).Error; err != nil {
			return err
		}
		if op.StatusOperacao != StatusEmAnalise {
			return ErrTransicaoInvalida
		}

		if !aprovar {
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusRejeitada,
				"comentarios":     comentarios,
			}).Error
		}

		switch op.TipoOperacao {
		case TipoAdicionar:
			novo := equipamento.Equipamento{DadosEquipamento: op.DadosEquipamento}
			if err := tx.Create(&novo).Error; err != nil {
				return err
			}
			return tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"tipo_operacao":   TipoFechada,
				"original_id":     novo.ID,
				"comentarios":     comentarios,
			}).Error

		case TipoEditar:
			var original equipamento.Equipamento
			if err := tx.First(&original, *op.OriginalID).Error; err != nil {
				return err
			}
			original.DadosEquipamento = op.DadosEquipamento
			if err := tx.Save(&original).Error; err != nil {
				return err
			}
			return tx.Unscoped().Delete(&op).Error

		case TipoExcluir:
			err := tx.Model(&op).Updates(map[string]interface{}{
				"status_operacao": StatusAceita,
				"comentarios":     comentarios,
			}).Error
			if err != nil {
				return err
			}
			return excluirEquipamento(tx, *op.OriginalID)
		}
		return ErrTransicaoInvalida
	})
	if err != nil {
		return nil, err
	}
	return &op, nil
}

var statusPurga = []string{StatusEmAnalise, StatusRejeitada}

// desativarCliente aplica a exclusão aceita: o cadastro permanece, mas
// desativado, e toda a fila pendente ligada a ele é descartada.
func desativarCliente(tx *gorm.DB, clienteID uint) error {
	res := tx.Model(&cliente.Cliente{}).Where("id = ?", clienteID).Update("ativo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReferenciaOriginalAusente
	}

	unidadesDoCliente := tx.Model(&unidade.Unidade{}).Select("id").Where("cliente_id = ?", clienteID)
	equipamentosDoCliente := tx.Model(&equipamento.Equipamento{}).Select("id").
		Where("unidade_id IN (?)", tx.Model(&unidade.Unidade{}).Select("id").Where("cliente_id = ?", clienteID))

	err := tx.Unscoped().
		Where("original_id = ? AND status_operacao IN ?", clienteID, statusPurga).
		Delete(&OperacaoCliente{}).Error
	if err != nil {
		return err
	}
	err = tx.Unscoped().
		Where("(original_id IN (?) OR cliente_id = ?) AND status_operacao IN ?",
			unidadesDoCliente, clienteID, statusPurga).
		Delete(&OperacaoUnidade{}).Error
	if err != nil {
		return err
	}
	return tx.Unscoped().
		Where("(original_id IN (?) OR unidade_id IN (?)) AND status_operacao IN ?",
			equipamentosDoCliente,
			tx.Model(&unidade.Unidade{}).Select("id").Where("cliente_id = ?", clienteID),
			statusPurga).
		Delete(&OperacaoEquipamento{}).Error
}

// excluirUnidade remove a unidade e tudo que depende dela: relatórios
// ficam arquivados sem vínculo, agendamentos e equipamentos caem junto.
func excluirUnidade(tx *gorm.DB, unidadeID uint) error {
	var equipamentos []equipamento.Equipamento
	if err := tx.Where("unidade_id = ?", unidadeID).Find(&equipamentos).Error; err != nil {
		return err
	}
	for _, e := range equipamentos {
		if err := excluirEquipamento(tx, e.ID); err != nil {
			return err
		}
	}

	err := tx.Table("relatorios").
		Where("unidade_id = ? AND excluido_em IS NULL", unidadeID).
		Update("excluido_em", time.Now()).Error
	if err != nil {
		return err
	}
	err = tx.Table("relatorios").
		Where("unidade_id = ?", unidadeID).
		Update("unidade_id", nil).Error
	if err != nil {
		return err
	}

	err = tx.Unscoped().Where("unidade_id = ?", unidadeID).Delete(&agendamento.Agendamento{}).Error
	if err != nil {
		return err
	}

	err = tx.Unscoped().
		Where("(original_id = ? OR unidade_id = ?) AND status_operacao IN ?",
			unidadeID, unidadeID, statusPurga).
		Delete(&OperacaoEquipamento{}).Error
	if err != nil {
		return err
	}
	err = tx.Unscoped().
		Where("original_id = ? AND status_operacao IN ?", unidadeID, statusPurga).
		Delete(&OperacaoUnidade{}).Error
	if err != nil {
		return err
	}

	return tx.Unscoped().Delete(&unidade.Unidade{}, unidadeID).Error
}

// excluirEquipamento remove o equipamento, seus acessórios e vínculos.
// Relatórios do equipamento ficam arquivados sem vínculo.
func excluirEquipamento(tx *gorm.DB, equipamentoID uint) error {
	err := tx.Table("relatorios").
		Where("equipamento_id = ? AND excluido_em IS NULL", equipamentoID).
		Update("excluido_em", time.Now()).Error
	if err != nil {
		return err
	}
	err = tx.Table("relatorios").
		Where("equipamento_id = ?", equipamentoID).
		Update("equipamento_id", nil).Error
	if err != nil {
		return err
	}

	err = tx.Unscoped().Where("equipamento_id = ?", equipamentoID).Delete(&equipamento.Acessorio{}).Error
	if err != nil {
		return err
	}
	err = tx.Exec("DELETE FROM ordem_servico_equipamentos WHERE equipamento_id = ?", equipamentoID).Error
	if err != nil {
		return err
	}

	err = tx.Unscoped().
		Where("original_id = ? AND status_operacao IN ?", equipamentoID, statusPurga).
		Delete(&OperacaoEquipamento{}).Error
	if err != nil {
		return err
	}

	return tx.Unscoped().Delete(&equipamento.Equipamento{}, equipamentoID).Error
}
