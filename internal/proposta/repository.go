package proposta

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Proposta, error)
	Listar(db *gorm.DB) ([]Proposta, error)
	ExistePorCNPJ(db *gorm.DB, cnpj string) (bool, error)
	Salvar(db *gorm.DB, p *Proposta) error
	Atualizar(db *gorm.DB, p *Proposta) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Proposta, error) {
	var p Proposta
	err := db.First(&p, id).Error
	return &p, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Proposta, error) {
	var lista []Proposta
	err := db.Order("data DESC").Order("id DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ExistePorCNPJ(db *gorm.DB, cnpj string) (bool, error) {
	var n int64
	err := db.Model(&Proposta{}).Where("cnpj = ?", cnpj).Count(&n).Error
	return n > 0, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Proposta) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, p *Proposta) error {
	return db.Save(p).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Proposta{}, id).Error
}
