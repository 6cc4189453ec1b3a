package relatorio

import (
	"testing"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/proposta"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const cnpjVarredura = "90217758000179"

func bancoComDominio(t *testing.T) *gorm.DB {
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
		&proposta.Proposta{},
		&Relatorio{},
	))
	return db
}

type envio struct {
	destinatarios []string
	assunto       string
}

type mailerFalso struct {
	envios []envio
}

func (m *mailerFalso) Enviar(destinatarios []string, assunto, corpo string) error {
	m.envios = append(m.envios, envio{destinatarios: destinatarios, assunto: assunto})
	return nil
}

type cenarioVarredura struct {
	cliente     *cliente.Cliente
	unidade     *unidade.Unidade
	equipamento *equipamento.Equipamento
}

// montarVarredura cria cliente com responsáveis GGC e FME, unidade com
// gerente GU e um equipamento da unidade.
func montarVarredura(t *testing.T, db *gorm.DB) cenarioVarredura {
	t.Helper()
	ggc := usuario.Usuario{Nome: "Gerente Geral", CPF: "52998224725", Email: "ggc@santaclara.example", Perfil: permissao.PerfilGerenteGeralCliente}
	require.NoError(t, db.Create(&ggc).Error)
	fme := usuario.Usuario{Nome: "Físico Externo", CPF: "12345678909", Email: "fme@fisica.example", Perfil: permissao.PerfilFisicoMedicoExterno}
	require.NoError(t, db.Create(&fme).Error)
	gu := usuario.Usuario{Nome: "Gerente Unidade", CPF: "11144477735", Email: "gu@santaclara.example", Perfil: permissao.PerfilGerenteUnidade}
	require.NoError(t, db.Create(&gu).Error)

	c := cliente.Cliente{DadosCliente: cliente.DadosCliente{
		Nome: "Hospital Santa Clara", CNPJ: cnpjVarredura, UF: "SP", Cidade: "Campinas",
	}, Ativo: true}
	require.NoError(t, db.Create(&c).Error)
	require.NoError(t, db.Model(&c).Association("Responsaveis").Append(&ggc, &fme))

	u := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Centro", CNPJ: cnpjVarredura, UF: "SP", Cidade: "Campinas", ClienteID: &c.ID,
	}, UsuarioID: &gu.ID}
	require.NoError(t, db.Create(&u).Error)

	m := modalidade.Modalidade{Nome: "Raios X", TipoAcessorio: modalidade.AcessorioNenhum}
	require.NoError(t, db.Create(&m).Error)
	e := equipamento.Equipamento{DadosEquipamento: equipamento.DadosEquipamento{
		ModalidadeID: m.ID, Fabricante: "Siemens", Modelo: "Ysio", NumeroSerie: "RX-010", UnidadeID: &u.ID,
	}}
	require.NoError(t, db.Create(&e).Error)

	return cenarioVarredura{cliente: &c, unidade: &u, equipamento: &e}
}

func criarContrato(t *testing.T, db *gorm.DB, tipo string) {
	t.Helper()
	p := proposta.Proposta{
		CNPJ:         cnpjVarredura,
		Cidade:       "Campinas",
		UF:           "SP",
		Data:         time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		TipoContrato: tipo,
		Status:       proposta.StatusAceita,
	}
	require.NoError(t, db.Create(&p).Error)
}

func TestNotificarVencimentosJanelaDeTrintaDias(t *testing.T) {
	db := bancoComDominio(t)
	c := montarVarredura(t, db)
	criarContrato(t, db, proposta.ContratoAnual)

	hoje := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	alvo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30)

	naJanela := Relatorio{Tipo: TipoMemorial, UnidadeID: &c.unidade.ID,
		DataConclusao: alvo.AddDate(-1, 0, 0), DataVencimento: alvo}
	require.NoError(t, db.Create(&naJanela).Error)
	cedoDemais := Relatorio{Tipo: TipoTesteDeAceite, UnidadeID: &c.unidade.ID,
		DataConclusao: alvo.AddDate(-1, 0, 0), DataVencimento: alvo.AddDate(0, 0, -1)}
	require.NoError(t, db.Create(&cedoDemais).Error)
	tardeDemais := Relatorio{Tipo: TipoLevantamentoRadiometrico, UnidadeID: &c.unidade.ID,
		DataConclusao: alvo.AddDate(-4, 0, 0), DataVencimento: alvo.AddDate(0, 0, 1)}
	require.NoError(t, db.Create(&tardeDemais).Error)

	mailer := &mailerFalso{}
	require.NoError(t, NewTarefas(db, mailer).NotificarVencimentos(hoje))

	require.Len(t, mailer.envios, 1, "só o relatório a exatos 30 dias entra na janela")
	assert.Contains(t, mailer.envios[0].assunto, "vencimento")
	assert.ElementsMatch(t,
		[]string{"ggc@santaclara.example", "fme@fisica.example", "gu@santaclara.example"},
		mailer.envios[0].destinatarios)
}

func TestNotificarVencimentosContratoMensalExcluiGestores(t *testing.T) {
	db := bancoComDominio(t)
	c := montarVarredura(t, db)
	criarContrato(t, db, proposta.ContratoMensal)

	hoje := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	alvo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30)

	rel := Relatorio{Tipo: TipoMemorial, UnidadeID: &c.unidade.ID,
		DataConclusao: alvo.AddDate(-1, 0, 0), DataVencimento: alvo}
	require.NoError(t, db.Create(&rel).Error)

	mailer := &mailerFalso{}
	require.NoError(t, NewTarefas(db, mailer).NotificarVencimentos(hoje))

	require.Len(t, mailer.envios, 1)
	// sem contrato anual vigente, GGC e GU ficam de fora
	assert.Equal(t, []string{"fme@fisica.example"}, mailer.envios[0].destinatarios)
}

func TestNotificarVencimentosResolveVinculoPorEquipamento(t *testing.T) {
	db := bancoComDominio(t)
	c := montarVarredura(t, db)
	criarContrato(t, db, proposta.ContratoAnual)

	hoje := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	alvo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30)

	rel := Relatorio{Tipo: TipoControleDeQualidade, EquipamentoID: &c.equipamento.ID,
		DataConclusao: alvo.AddDate(-1, 0, 0), DataVencimento: alvo}
	require.NoError(t, db.Create(&rel).Error)

	mailer := &mailerFalso{}
	require.NoError(t, NewTarefas(db, mailer).NotificarVencimentos(hoje))

	require.Len(t, mailer.envios, 1, "o vínculo chega ao cliente pelo equipamento e sua unidade")
	assert.ElementsMatch(t,
		[]string{"ggc@santaclara.example", "fme@fisica.example", "gu@santaclara.example"},
		mailer.envios[0].destinatarios)
}

func TestNotificarVencimentosIgnoraArquivados(t *testing.T) {
	db := bancoComDominio(t)
	c := montarVarredura(t, db)
	criarContrato(t, db, proposta.ContratoAnual)

	hoje := time.Date(2026, 8, 31, 10, 15, 0, 0, time.UTC)
	alvo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 30)

	arquivadoEm := hoje.AddDate(0, 0, -2)
	rel := Relatorio{Tipo: TipoMemorial, UnidadeID: &c.unidade.ID,
		DataConclusao: alvo.AddDate(-1, 0, 0), DataVencimento: alvo, ExcluidoEm: &arquivadoEm}
	require.NoError(t, db.Create(&rel).Error)

	mailer := &mailerFalso{}
	require.NoError(t, NewTarefas(db, mailer).NotificarVencimentos(hoje))
	assert.Empty(t, mailer.envios)
}
