package unidade

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"
	"gorm.io/gorm"
)

// DadosUnidade são os atributos propostos/canônicos de uma unidade.
// O mesmo bloco é embutido na tabela canônica e na tabela de operações.
type DadosUnidade struct {
	Nome     string `gorm:"size:255" json:"nome"`
	CNPJ     string `gorm:"size:14;index" json:"cnpj"`
	Email    string `gorm:"size:255" json:"email"`
	Telefone string `gorm:"size:11" json:"telefone"`
	Endereco string `gorm:"size:255" json:"endereco"`
	UF       string `gorm:"size:2" json:"uf"`
	Cidade   string `gorm:"size:100" json:"cidade"`
	// nulo quando o cliente dono foi desativado
	ClienteID *uint `gorm:"index" json:"clienteId"`
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (d *DadosUnidade) Validar() error {
	if !utils.ValidarCNPJ(d.CNPJ) {
		return apperr.NovoCampo(apperr.Validacao, "CNPJ_INVALIDO", "CNPJ inválido", "cnpj")
	}
	if !utils.ValidarUF(d.UF) {
		return apperr.NovoCampo(apperr.Validacao, "UF_INVALIDA", "UF desconhecida", "uf")
	}
	if d.Telefone != "" && !utils.ValidarCelular(d.Telefone) {
		return apperr.NovoCampo(apperr.Validacao, "TELEFONE_INVALIDO", "celular deve ter 11 dígitos com nono dígito", "telefone")
	}
	return nil
}

type Unidade struct {
	gorm.Model
	DadosUnidade `gorm:"embedded"`
	// gerente de unidade (perfil GU), no máximo um por unidade
	UsuarioID    *uint                     `gorm:"index" json:"usuarioId"`
	Equipamentos []equipamento.Equipamento `gorm:"foreignKey:UnidadeID" json:"equipamentos"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Unidade{})
}
