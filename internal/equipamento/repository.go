package equipamento

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Equipamento, error)
	Listar(db *gorm.DB, escopos ...func(*gorm.DB) *gorm.DB) ([]Equipamento, error)
	ListarPorUnidade(db *gorm.DB, unidadeID uint) ([]Equipamento, error)
	CriarAcessorio(db *gorm.DB, a *Acessorio) error
	DeletarAcessorio(db *gorm.DB, id uint) error
	AdmiteAcessorios(db *gorm.DB, equipamentoID uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Equipamento, error) {
	var e Equipamento
	err := db.Preload("Modalidade").Preload("Acessorios").First(&e, id).Error
	return &e, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, escopos ...func(*gorm.DB) *gorm.DB) ([]Equipamento, error) {
	var lista []Equipamento
	err := db.Scopes(escopos...).
		Preload("Modalidade").
		Preload("Acessorios").
		Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorUnidade(db *gorm.DB, unidadeID uint) ([]Equipamento, error) {
	var lista []Equipamento
	err := db.Where("unidade_id = ?", unidadeID).
		Preload("Modalidade").
		Preload("Acessorios").
		Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) CriarAcessorio(db *gorm.DB, a *Acessorio) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) DeletarAcessorio(db *gorm.DB, id uint) error {
	return db.Delete(&Acessorio{}, id).Error
}

// AdmiteAcessorios responde se a modalidade do equipamento aceita acessórios.
func (r *repositoryImpl) AdmiteAcessorios(db *gorm.DB, equipamentoID uint) (bool, error) {
	var e Equipamento
	if err := db.Preload("Modalidade").First(&e, equipamentoID).Error; err != nil {
		return false, err
	}
	return e.Modalidade.TipoAcessorio != modalidade.AcessorioNenhum, nil
}
