package operacao

import (
	"testing"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/ordemservico"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/relatorio"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func novoBanco(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&usuario.Usuario{},
		&modalidade.Modalidade{},
		&cliente.Cliente{},
		&unidade.Unidade{},
		&equipamento.Equipamento{},
		&equipamento.Acessorio{},
		&agendamento.Agendamento{},
		&ordemservico.OrdemServico{},
		&relatorio.Relatorio{},
		&OperacaoCliente{},
		&OperacaoUnidade{},
		&OperacaoEquipamento{},
	))
	return db
}

func dadosClienteValidos(cnpj string) cliente.DadosCliente {
	return cliente.DadosCliente{
		Nome:   "Hospital Santa Clara",
		CNPJ:   cnpj,
		Email:  "contato@santaclara.example",
		UF:     "SP",
		Cidade: "Campinas",
	}
}

func criarClienteCanonico(t *testing.T, db *gorm.DB, cnpj string) *cliente.Cliente {
	t.Helper()
	c := cliente.Cliente{DadosCliente: dadosClienteValidos(cnpj), Ativo: true}
	require.NoError(t, db.Create(&c).Error)
	return &c
}

func TestInclusaoDeClienteAceita(t *testing.T) {
	db := novoBanco(t)

	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosCliente: dadosClienteValidos("90217758000179"),
	}
	require.NoError(t, CriarCliente(db, &op))
	assert.Equal(t, StatusEmAnalise, op.StatusOperacao)

	decidida, err := RevisarCliente(db, op.ID, permissao.PerfilGerenteProphy, true, "cadastro conferido")
	require.NoError(t, err)

	var criado cliente.Cliente
	require.NoError(t, db.Where("cnpj = ?", "90217758000179").First(&criado).Error)
	assert.True(t, criado.Ativo)
	assert.Equal(t, "Hospital Santa Clara", criado.Nome)

	// a operação fecha mas permanece como registro de origem
	var fechada OperacaoCliente
	require.NoError(t, db.First(&fechada, decidida.ID).Error)
	assert.Equal(t, StatusAceita, fechada.StatusOperacao)
	assert.Equal(t, TipoFechada, fechada.TipoOperacao)
	require.NotNil(t, fechada.OriginalID)
	assert.Equal(t, criado.ID, *fechada.OriginalID)

	// decidir de novo não é permitido
	_, err = RevisarCliente(db, op.ID, permissao.PerfilGerenteProphy, false, "")
	assert.ErrorIs(t, err, ErrTransicaoInvalida)
}

func TestRejeicaoMantemRegistro(t *testing.T) {
	db := novoBanco(t)

	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosCliente: dadosClienteValidos("11222333000181"),
	}
	require.NoError(t, CriarCliente(db, &op))

	_, err := RevisarCliente(db, op.ID, permissao.PerfilGerenteProphy, false, "dados inconsistentes")
	require.NoError(t, err)

	var rejeitada OperacaoCliente
	require.NoError(t, db.First(&rejeitada, op.ID).Error)
	assert.Equal(t, StatusRejeitada, rejeitada.StatusOperacao)
	assert.Equal(t, "dados inconsistentes", rejeitada.Comentarios)

	var n int64
	require.NoError(t, db.Model(&cliente.Cliente{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRevisaoExigeGerenteProphy(t *testing.T) {
	db := novoBanco(t)

	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosCliente: dadosClienteValidos("11222333000181"),
	}
	require.NoError(t, CriarCliente(db, &op))

	_, err := RevisarCliente(db, op.ID, permissao.PerfilComercial, true, "")
	assert.ErrorIs(t, err, ErrPerfilSemPermissao)
}

func TestUmaAnalisePorAlvo(t *testing.T) {
	db := novoBanco(t)
	c := criarClienteCanonico(t, db, "90217758000179")

	primeira := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoEditar, CriadoPorID: 1, OriginalID: &c.ID},
		DadosCliente: dadosClienteValidos("90217758000179"),
	}
	require.NoError(t, CriarCliente(db, &primeira))

	segunda := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoExcluir, CriadoPorID: 2, OriginalID: &c.ID},
		DadosCliente: dadosClienteValidos("90217758000179"),
	}
	assert.ErrorIs(t, CriarCliente(db, &segunda), ErrRevisaoEmAndamento)

	// inclusões pendentes também travam pelo CNPJ
	adicao := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosCliente: dadosClienteValidos("11222333000181"),
	}
	require.NoError(t, CriarCliente(db, &adicao))
	repetida := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 2},
		DadosCliente: dadosClienteValidos("11222333000181"),
	}
	assert.ErrorIs(t, CriarCliente(db, &repetida), ErrRevisaoEmAndamento)
}

func TestCNPJDuplicadoNaInclusao(t *testing.T) {
	db := novoBanco(t)
	criarClienteCanonico(t, db, "90217758000179")

	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosCliente: dadosClienteValidos("90217758000179"),
	}
	assert.ErrorIs(t, CriarCliente(db, &op), ErrCNPJDuplicado)
}

func TestOperacaoSemOriginal(t *testing.T) {
	db := novoBanco(t)

	inexistente := uint(999)
	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoEditar, CriadoPorID: 1, OriginalID: &inexistente},
		DadosCliente: dadosClienteValidos("90217758000179"),
	}
	assert.ErrorIs(t, CriarCliente(db, &op), ErrReferenciaOriginalAusente)
}

func TestEdicaoAceitaAplicaESomeDaFila(t *testing.T) {
	db := novoBanco(t)
	c := criarClienteCanonico(t, db, "90217758000179")

	dados := dadosClienteValidos("90217758000179")
	dados.Nome = "Hospital Santa Clara - Matriz"
	dados.Cidade = "São Paulo"
	op := OperacaoCliente{
		Workflow:     Workflow{TipoOperacao: TipoEditar, CriadoPorID: 1, OriginalID: &c.ID},
		DadosCliente: dados,
	}
	require.NoError(t, CriarCliente(db, &op))

	_, err := RevisarCliente(db, op.ID, permissao.PerfilGerenteProphy, true, "")
	require.NoError(t, err)

	var atualizado cliente.Cliente
	require.NoError(t, db.First(&atualizado, c.ID).Error)
	assert.Equal(t, "Hospital Santa Clara - Matriz", atualizado.Nome)
	assert.Equal(t, "São Paulo", atualizado.Cidade)

	var n int64
	require.NoError(t, db.Unscoped().Model(&OperacaoCliente{}).Where("id = ?", op.ID).Count(&n).Error)
	assert.Zero(t, n, "edição aplicada não permanece na fila")
}

func TestExclusaoDeClienteDesativaEPurgaFila(t *testing.T) {
	db := novoBanco(t)
	c := criarClienteCanonico(t, db, "90217758000179")

	u := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Centro", CNPJ: "90217758000179", UF: "SP", Cidade: "Campinas", ClienteID: &c.ID,
	}}
	require.NoError(t, db.Create(&u).Error)

	// operação pendente sobre a unidade do cliente
	pendente := OperacaoUnidade{
		Workflow: Workflow{TipoOperacao: TipoEditar, CriadoPorID: 2, OriginalID: &u.ID},
		DadosUnidade: unidade.DadosUnidade{
			Nome: "Unidade Centro Reformada", CNPJ: "90217758000179", UF: "SP", Cidade: "Campinas", ClienteID: &c.ID,
		},
	}
	require.NoError(t, CriarUnidade(db, &pendente))

	exclusao := OperacaoCliente{
		Workflow: Workflow{TipoOperacao: TipoExcluir, CriadoPorID: 1, OriginalID: &c.ID},
	}
	require.NoError(t, CriarCliente(db, &exclusao))

	_, err := RevisarCliente(db, exclusao.ID, permissao.PerfilGerenteProphy, true, "encerramento de contrato")
	require.NoError(t, err)

	var desativado cliente.Cliente
	require.NoError(t, db.First(&desativado, c.ID).Error)
	assert.False(t, desativado.Ativo)

	// a unidade permanece, a fila dela não
	var unidades int64
	require.NoError(t, db.Model(&unidade.Unidade{}).Where("id = ?", u.ID).Count(&unidades).Error)
	assert.EqualValues(t, 1, unidades)
	var pendentes int64
	require.NoError(t, db.Unscoped().Model(&OperacaoUnidade{}).Where("id = ?", pendente.ID).Count(&pendentes).Error)
	assert.Zero(t, pendentes)

	// a exclusão aceita escapa da purga e permanece como histórico
	var aceita OperacaoCliente
	require.NoError(t, db.First(&aceita, exclusao.ID).Error)
	assert.Equal(t, StatusAceita, aceita.StatusOperacao)
	assert.Equal(t, "encerramento de contrato", aceita.Comentarios)
}

func TestExclusaoDeEquipamentoComCascata(t *testing.T) {
	db := novoBanco(t)
	c := criarClienteCanonico(t, db, "90217758000179")

	m := modalidade.Modalidade{Nome: "Ultrassom", TipoAcessorio: modalidade.AcessorioTransdutor}
	require.NoError(t, db.Create(&m).Error)
	u := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Centro", CNPJ: "90217758000179", UF: "SP", Cidade: "Campinas", ClienteID: &c.ID,
	}}
	require.NoError(t, db.Create(&u).Error)
	e := equipamento.Equipamento{DadosEquipamento: equipamento.DadosEquipamento{
		ModalidadeID: m.ID, Fabricante: "GE", Modelo: "LOGIQ", NumeroSerie: "US-001", UnidadeID: &u.ID,
	}}
	require.NoError(t, db.Create(&e).Error)
	require.NoError(t, db.Create(&equipamento.Acessorio{EquipamentoID: e.ID, Nome: "Transdutor linear"}).Error)

	conclusao := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rel := relatorio.Relatorio{
		Tipo:           relatorio.TipoControleDeQualidade,
		EquipamentoID:  &e.ID,
		DataConclusao:  conclusao,
		DataVencimento: relatorio.CalcularVencimento(relatorio.TipoControleDeQualidade, conclusao),
	}
	require.NoError(t, db.Create(&rel).Error)

	exclusao := OperacaoEquipamento{
		Workflow: Workflow{TipoOperacao: TipoExcluir, CriadoPorID: 1, OriginalID: &e.ID},
	}
	require.NoError(t, CriarEquipamento(db, &exclusao))
	_, err := RevisarEquipamento(db, exclusao.ID, permissao.PerfilGerenteProphy, true, "")
	require.NoError(t, err)

	var equipamentos int64
	require.NoError(t, db.Unscoped().Model(&equipamento.Equipamento{}).Where("id = ?", e.ID).Count(&equipamentos).Error)
	assert.Zero(t, equipamentos)

	var acessorios int64
	require.NoError(t, db.Unscoped().Model(&equipamento.Acessorio{}).Where("equipamento_id = ?", e.ID).Count(&acessorios).Error)
	assert.Zero(t, acessorios)

	// o relatório sobrevive arquivado e sem vínculo
	var arquivado relatorio.Relatorio
	require.NoError(t, db.First(&arquivado, rel.ID).Error)
	assert.NotNil(t, arquivado.ExcluidoEm)
	assert.Nil(t, arquivado.ExcluidoPorID)
	assert.Nil(t, arquivado.EquipamentoID)

	// a exclusão aceita permanece como histórico
	var aceita OperacaoEquipamento
	require.NoError(t, db.First(&aceita, exclusao.ID).Error)
	assert.Equal(t, StatusAceita, aceita.StatusOperacao)
}

func TestInclusaoDeUnidadeExigeClienteExistente(t *testing.T) {
	db := novoBanco(t)

	fantasma := uint(42)
	op := OperacaoUnidade{
		Workflow: Workflow{TipoOperacao: TipoAdicionar, CriadoPorID: 1},
		DadosUnidade: unidade.DadosUnidade{
			Nome: "Unidade Órfã", CNPJ: "11222333000181", UF: "RJ", Cidade: "Niterói", ClienteID: &fantasma,
		},
	}
	assert.ErrorIs(t, CriarUnidade(db, &op), ErrReferenciaOriginalAusente)
}
