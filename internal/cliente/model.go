package cliente

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"
	"gorm.io/gorm"
)

// DadosCliente são os atributos propostos/canônicos de um cliente.
// O mesmo bloco é embutido na tabela canônica e na tabela de operações,
// por isso a unicidade de CNPJ é validada no motor de operações e não
// por constraint de coluna.
type DadosCliente struct {
	Nome     string `gorm:"size:255" json:"nome"`
	CNPJ     string `gorm:"size:14;index" json:"cnpj"`
	Email    string `gorm:"size:255" json:"email"`
	Telefone string `gorm:"size:11" json:"telefone"`
	Endereco string `gorm:"size:255" json:"endereco"`
	UF       string `gorm:"size:2" json:"uf"`
	Cidade   string `gorm:"size:100" json:"cidade"`
}

// Validar aplica as regras de atributo antes de qualquer escrita.
func (d *DadosCliente) Validar() error {
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

// Cliente nasce por operação de inclusão aceita e nunca é removido do
// banco: exclusão aceita apenas desativa.
type Cliente struct {
	gorm.Model
	DadosCliente `gorm:"embedded"`
	Ativo        bool              `gorm:"index" json:"ativo"`
	Responsaveis []usuario.Usuario `gorm:"many2many:cliente_responsaveis" json:"responsaveis"`
	Unidades     []unidade.Unidade `gorm:"foreignKey:ClienteID;constraint:OnDelete:SET NULL" json:"unidades"`
}

// Migrate cria a tabela no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Cliente{})
}
