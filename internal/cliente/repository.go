package cliente

import (
	"errors"

	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"gorm.io/gorm"
)

// ErrGerenteGeralJaAtribuido sinaliza a tentativa de um segundo GGC no mesmo cliente.
var ErrGerenteGeralJaAtribuido = errors.New("o cliente já possui um gerente geral")

type Repository interface {
	BuscarPorID(db *gorm.DB, id uint) (*Cliente, error)
	BuscarPorCNPJ(db *gorm.DB, cnpj string) (*Cliente, error)
	Listar(db *gorm.DB) ([]Cliente, error)
	AtribuirResponsavel(db *gorm.DB, clienteID, usuarioID uint) error
	RemoverResponsavel(db *gorm.DB, clienteID, usuarioID uint) error
	Responsaveis(db *gorm.DB, clienteID uint) ([]usuario.Usuario, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Cliente, error) {
	var c Cliente
	err := db.Preload("Responsaveis").
		Preload("Unidades.Equipamentos.Modalidade").
		First(&c, id).Error
	return &c, err
}

func (r *repositoryImpl) BuscarPorCNPJ(db *gorm.DB, cnpj string) (*Cliente, error) {
	var c Cliente
	err := db.Where("cnpj = ?", cnpj).First(&c).Error
	return &c, err
}

func (r *repositoryImpl) Listar(db *gorm.DB) ([]Cliente, error) {
	var lista []Cliente
	err := db.Preload("Responsaveis").
		Preload("Unidades").
		Find(&lista).Error
	return lista, err
}

func (r *repositoryImpl) AtribuirResponsavel(db *gorm.DB, clienteID, usuarioID uint) error {
	var c Cliente
	if err := db.First(&c, clienteID).Error; err != nil {
		return err
	}
	var u usuario.Usuario
	if err := db.First(&u, usuarioID).Error; err != nil {
		return err
	}
	// no máximo um gerente geral por cliente
	if u.Perfil == permissao.PerfilGerenteGeralCliente {
		var n int64
		err := db.Table("cliente_responsaveis").
			Joins("JOIN usuarios ON usuarios.id = cliente_responsaveis.usuario_id").
			Where("cliente_responsaveis.cliente_id = ? AND usuarios.perfil = ?", clienteID, permissao.PerfilGerenteGeralCliente).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrGerenteGeralJaAtribuido
		}
	}
	return db.Model(&c).Association("Responsaveis").Append(&u)
}

func (r *repositoryImpl) RemoverResponsavel(db *gorm.DB, clienteID, usuarioID uint) error {
	var c Cliente
	if err := db.First(&c, clienteID).Error; err != nil {
		return err
	}
	return db.Model(&c).Association("Responsaveis").Delete(&usuario.Usuario{Model: gorm.Model{ID: usuarioID}})
}

func (r *repositoryImpl) Responsaveis(db *gorm.DB, clienteID uint) ([]usuario.Usuario, error) {
	var c Cliente
	if err := db.Preload("Responsaveis").First(&c, clienteID).Error; err != nil {
		return nil, err
	}
	return c.Responsaveis, nil
}
