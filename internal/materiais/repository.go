package materiais

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Material, error)
	Listar(db *gorm.DB) ([]Material, error)
	Salvar(db *gorm.DB, m *Material) error
	Atualizar(db *gorm.DB, m *Material) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Material, error) {
	var m Material
	err := db.First(&m, id).Error
	return &m, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Material, error) {
	var lista []Material
	err := db.Order("nome ASC").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, m *Material) error {
	return db.Create(m).Error
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, m *Material) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Material{}, id).Error
}
