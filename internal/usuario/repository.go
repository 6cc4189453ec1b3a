package usuario

import (
	"gorm.io/gorm"
)

type Repository interface {
	BuscarPorEmailOuCPF(db *gorm.DB, valor string) (*Usuario, error)
	BuscarPorID(db *gorm.DB, id uint) (*Usuario, error)
	Salvar(db *gorm.DB, u *Usuario) error
	ListarTodos(db *gorm.DB) ([]Usuario, error)
	ListarPorPerfis(db *gorm.DB, perfis []string) ([]Usuario, error)
	Atualizar(db *gorm.DB, u *Usuario) error
	Deletar(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

// Busca primeiro por e-mail, depois por CPF, para evitar ambiguidade
func (r *repositoryImpl) BuscarPorEmailOuCPF(db *gorm.DB, valor string) (*Usuario, error) {
	var u Usuario

	if err := db.Where("email = ?", valor).First(&u).Error; err == nil {
		return &u, nil
	}
	if err := db.Where("cpf = ?", valor).First(&u).Error; err == nil {
		return &u, nil
	}

	return nil, gorm.ErrRecordNotFound
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id uint) (*Usuario, error) {
	var u Usuario
	err := db.First(&u, id).Error
	return &u, err
}

func (r *repositoryImpl) Salvar(db *gorm.DB, u *Usuario) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB) ([]Usuario, error) {
	var usuarios []Usuario
	err := db.Find(&usuarios).Error
	return usuarios, err
}

func (r *repositoryImpl) ListarPorPerfis(db *gorm.DB, perfis []string) ([]Usuario, error) {
	var usuarios []Usuario
	err := db.Where("perfil IN ?", perfis).Find(&usuarios).Error
	return usuarios, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, u *Usuario) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id uint) error {
	return db.Delete(&Usuario{}, id).Error
}
