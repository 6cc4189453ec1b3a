package unidade

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Unidade, error)
	Listar(db *gorm.DB) ([]Unidade, error)
	ListarPorCliente(db *gorm.DB, clienteID uint) ([]Unidade, error)
	AtribuirGerente(db *gorm.DB, unidadeID uint, usuarioID *uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Unidade, error) {
	var u Unidade
	err := db.Preload("Equipamentos.Modalidade").
		Preload("Equipamentos.Acessorios").
		First(&u, id).Error
	return &u, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Unidade, error) {
	var lista []Unidade
	err := db.Preload("Equipamentos.Modalidade").Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) ListarPorCliente(db *gorm.DB, clienteID uint) ([]Unidade, error) {
	var lista []Unidade
	err := db.Where("cliente_id = ?", clienteID).
		Preload("Equipamentos.Modalidade").
		Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) AtribuirGerente(db *gorm.DB, unidadeID uint, usuarioID *uint) error {
	return db.Model(&Unidade{}).Where("id = ?", unidadeID).
		Update("usuario_id", usuarioID).Error
}
