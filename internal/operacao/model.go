package operacao

import (
	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"gorm.io/gorm"
)

const (
	TipoAdicionar = "Adicionar"
	TipoEditar    = "Editar"
	TipoExcluir   = "Excluir"
	// TipoFechada marca a operação de inclusão já aplicada, mantida como
	// registro de origem do cadastro.
	TipoFechada = "Fechada"

	StatusEmAnalise = "Em Análise"
	StatusAceita    = "Aceita"
	StatusRejeitada = "Rejeitada"
)

// Workflow é o bloco comum das três filas de operação: quem propôs, o
// que propôs, sobre qual registro canônico, e em que pé está a revisão.
type Workflow struct {
	TipoOperacao   string `gorm:"size:10;index" json:"tipoOperacao"`
	StatusOperacao string `gorm:"size:12;index" json:"statusOperacao"`
	CriadoPorID    uint   `gorm:"index" json:"criadoPorId"`
	OriginalID     *uint  `gorm:"index" json:"originalId,omitempty"`
	Comentarios    string `gorm:"size:500" json:"comentarios"`
}

// OperacaoCliente carrega os dados propostos de um cliente. O mesmo
// bloco DadosCliente da tabela canônica é embutido aqui, por isso a
// fila admite CNPJs repetidos ao longo do histórico.
type OperacaoCliente struct {
	gorm.Model
	Workflow             `gorm:"embedded"`
	cliente.DadosCliente `gorm:"embedded"`
	Ativo                bool `json:"ativo"`
}

func (OperacaoCliente) TableName() string {
	return "operacoes_cliente"
}

// OperacaoUnidade carrega os dados propostos de uma unidade.
type OperacaoUnidade struct {
	gorm.Model
	Workflow             `gorm:"embedded"`
	unidade.DadosUnidade `gorm:"embedded"`
}

func (OperacaoUnidade) TableName() string {
	return "operacoes_unidade"
}

// OperacaoEquipamento carrega os dados propostos de um equipamento.
type OperacaoEquipamento struct {
	gorm.Model
	Workflow                     `gorm:"embedded"`
	equipamento.DadosEquipamento `gorm:"embedded"`
}

func (OperacaoEquipamento) TableName() string {
	return "operacoes_equipamento"
}

// Migrate cria as tabelas das filas no banco de dados.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&OperacaoCliente{}, &OperacaoUnidade{}, &OperacaoEquipamento{})
}
