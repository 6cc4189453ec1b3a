package relatorio

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNaoArquivado impede a exclusão definitiva de relatório ainda ativo.
var ErrNaoArquivado = errors.New("apenas relatórios arquivados podem ser excluídos definitivamente")

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint, incluirExcluidos bool) (*Relatorio, error)
	Listar(db *gorm.DB, incluirExcluidos bool) ([]Relatorio, error)
	CriarSubstituindo(db *gorm.DB, r *Relatorio, criadorID uint) error
	Arquivar(db *gorm.DB, id uint, porID uint, quando time.Time) error
	ExcluirDefinitivo(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func ativos(db *gorm.DB) *gorm.DB {
	return db.Where("relatorios.excluido_em IS NULL")
}

func (repo *repositoryImpl) BuscarPorID(db *gorm.DB, id uint, incluirExcluidos bool) (*Relatorio, error) {
	var r Relatorio
	consulta := db
	if !incluirExcluidos {
		consulta = ativos(consulta)
	}
	err := consulta.First(&r, "relatorios.id = ?", id).Error
	return &r, err
}

func (repo *repositoryImpl) Listar(db *gorm.DB, incluirExcluidos bool) ([]Relatorio, error) {
	var lista []Relatorio
	consulta := db
	if !incluirExcluidos {
		consulta = ativos(consulta)
	}
	err := consulta.Order("relatorios.data_vencimento ASC").Find(&lista).Error
	return lista, err
}

// CriarSubstituindo insere o relatório e arquiva os ativos de mesmo tipo
// e mesmo vínculo na mesma transação, registrando o criador como autor
// do arquivamento.
func (repo *repositoryImpl) CriarSubstituindo(db *gorm.DB, r *Relatorio, criadorID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		anteriores := tx.Model(&Relatorio{}).
			Where("tipo = ? AND excluido_em IS NULL", r.Tipo)
		if r.UnidadeID != nil {
			anteriores = anteriores.Where("unidade_id = ?", *r.UnidadeID)
		} else {
			anteriores = anteriores.Where("equipamento_id = ?", *r.EquipamentoID)
		}
		err := anteriores.Updates(map[string]interface{}{
			"excluido_em":     time.Now(),
			"excluido_por_id": criadorID,
		}).Error
		if err != nil {
			return err
		}
		return tx.Create(r).Error
	})
}

func (repo *repositoryImpl) Arquivar(db *gorm.DB, id uint, porID uint, quando time.Time) error {
	var r Relatorio
	if err := ativos(db).First(&r, "relatorios.id = ?", id).Error; err != nil {
		return err
	}
	return db.Model(&r).Updates(map[string]interface{}{
		"excluido_em":     quando,
		"excluido_por_id": porID,
	}).Error
}

func (repo *repositoryImpl) ExcluirDefinitivo(db *gorm.DB, id uint) error {
	var r Relatorio
	if err := db.First(&r, id).Error; err != nil {
		return err
	}
	if !r.Excluido() {
		return ErrNaoArquivado
	}
	return db.Delete(&r).Error
}
