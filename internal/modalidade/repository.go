package modalidade

import "gorm.io/gorm"

type Repository interface {
	Criar(db *gorm.DB, m *Modalidade) error
	BuscarPorID(db *gorm.DB, id uint) (*Modalidade, error)
	ListarTodas(db *gorm.DB) ([]Modalidade, error)
	Atualizar(db *gorm.DB, m *Modalidade) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, m *Modalidade) error {
	return db.Create(m).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Modalidade, error) {
	var m Modalidade
	err := db.First(&m, id).Error
	return &m, err
}

func (r *repositoryImpl) ListarTodas(db *gorm.DB) ([]Modalidade, error) {
	var lista []Modalidade
	err := db.Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, m *Modalidade) error {
	return db.Save(m).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Modalidade{}, id).Error
}
