package agendamento

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Agendamento, error)
	Listar(db *gorm.DB) ([]Agendamento, error)
	Salvar(db *gorm.DB, a *Agendamento) error
	Atualizar(db *gorm.DB, a *Agendamento) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Agendamento, error) {
	var a Agendamento
	err := db.First(&a, id).Error
	return &a, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Agendamento, error) {
	var lista []Agendamento
	err := db.Order("data DESC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, a *Agendamento) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, a *Agendamento) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Agendamento{}, id).Error
}
