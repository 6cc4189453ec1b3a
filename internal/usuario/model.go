package usuario

import (
	"gorm.io/gorm"
)

// Usuario cobre os sete perfis de acesso: equipe Prophy (GP, C, FMI),
// pessoal do cliente (GGC, GU), físicos externos (FME) e a conta de
// serviço do agendador (SA).
type Usuario struct {
	gorm.Model
	Nome                  string `gorm:"size:100" json:"nome"`
	Sobrenome             string `gorm:"size:100" json:"sobrenome"`
	CPF                   string `gorm:"size:11;uniqueIndex" json:"cpf"`
	Email                 string `gorm:"size:255;index" json:"email"`
	Telefone              string `gorm:"size:11" json:"telefone"`
	Senha                 string `json:"-"`
	PrecisaRedefinirSenha bool   `json:"-"`
	Perfil                string `gorm:"size:4;index" json:"perfil"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Usuario{})
}
