package proposta_test

import (
	"testing"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/proposta"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const cnpjTeste = "90217758000179"

func novoBanco(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&usuario.Usuario{},
		&cliente.Cliente{},
		&unidade.Unidade{},
		&agendamento.Agendamento{},
		&proposta.Proposta{},
	))
	return db
}

func criarPropostaPara(t *testing.T, db *gorm.DB, cnpj string, data time.Time, tipo, status string) *proposta.Proposta {
	t.Helper()
	p := proposta.Proposta{
		CNPJ:         cnpj,
		Cidade:       "Campinas",
		UF:           "SP",
		Data:         data,
		Valor:        decimal.NewFromInt(42000),
		TipoContrato: tipo,
		Status:       status,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func criarProposta(t *testing.T, db *gorm.DB, data time.Time, tipo, status string) *proposta.Proposta {
	return criarPropostaPara(t, db, cnpjTeste, data, tipo, status)
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

func TestUltimaAnualAceita(t *testing.T) {
	db := novoBanco(t)
	data := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	criarProposta(t, db, data.AddDate(-1, 0, 0), proposta.ContratoAnual, proposta.StatusAceita)
	criarProposta(t, db, data, proposta.ContratoMensal, proposta.StatusAceita)
	criarProposta(t, db, data, proposta.ContratoAnual, proposta.StatusRejeitada)
	primeira := criarProposta(t, db, data, proposta.ContratoAnual, proposta.StatusAceita)
	segunda := criarProposta(t, db, data, proposta.ContratoAnual, proposta.StatusAceita)

	ultima, err := proposta.UltimaAnualAceita(db, cnpjTeste)
	require.NoError(t, err)
	require.NotNil(t, ultima)
	// empate de data resolve pela inserção mais recente
	assert.Equal(t, segunda.ID, ultima.ID)
	assert.NotEqual(t, primeira.ID, ultima.ID)

	nenhuma, err := proposta.UltimaAnualAceita(db, "11222333000181")
	require.NoError(t, err)
	assert.Nil(t, nenhuma)
}

func TestDentroDaJanelaDeRenovacao(t *testing.T) {
	hoje := time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	assert.True(t, proposta.DentroDaJanelaDeRenovacao(ancora, hoje))
	assert.True(t, proposta.DentroDaJanelaDeRenovacao(ancora.AddDate(0, -2, 0), hoje))
	assert.False(t, proposta.DentroDaJanelaDeRenovacao(ancora.AddDate(0, 0, 1), hoje))
	assert.False(t, proposta.DentroDaJanelaDeRenovacao(hoje, hoje))
}

func TestPrecisaAgendamento(t *testing.T) {
	db := novoBanco(t)
	dataProposta := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	c := cliente.Cliente{DadosCliente: cliente.DadosCliente{
		Nome: "Hospital Santa Clara", CNPJ: cnpjTeste, UF: "SP", Cidade: "Campinas",
	}, Ativo: true}
	require.NoError(t, db.Create(&c).Error)
	u := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Centro", CNPJ: cnpjTeste, UF: "SP", Cidade: "Campinas", ClienteID: &c.ID,
	}}
	require.NoError(t, db.Create(&u).Error)

	// sem contrato anual aceito não há o que agendar
	precisa, err := proposta.PrecisaAgendamento(db, c.ID, cnpjTeste)
	require.NoError(t, err)
	assert.False(t, precisa)

	criarProposta(t, db, dataProposta, proposta.ContratoAnual, proposta.StatusAceita)
	precisa, err = proposta.PrecisaAgendamento(db, c.ID, cnpjTeste)
	require.NoError(t, err)
	assert.True(t, precisa)

	// qualquer visita posterior à proposta encerra a pendência
	a := agendamento.Agendamento{
		UnidadeID: u.ID,
		Data:      dataProposta.AddDate(0, 0, 10),
		Tipo:      agendamento.TipoPresencial,
		Status:    agendamento.StatusPendente,
	}
	require.NoError(t, db.Create(&a).Error)

	precisa, err = proposta.PrecisaAgendamento(db, c.ID, cnpjTeste)
	require.NoError(t, err)
	assert.False(t, precisa)
}

func criarUsuario(t *testing.T, db *gorm.DB, nome, cpf, email, perfil string) *usuario.Usuario {
	t.Helper()
	u := usuario.Usuario{Nome: nome, CPF: cpf, Email: email, Perfil: perfil}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func criarClienteComResponsaveis(t *testing.T, db *gorm.DB, nome, cnpj string, responsaveis ...*usuario.Usuario) *cliente.Cliente {
	t.Helper()
	c := cliente.Cliente{DadosCliente: cliente.DadosCliente{
		Nome: nome, CNPJ: cnpj, UF: "SP", Cidade: "Campinas",
	}, Ativo: true}
	require.NoError(t, db.Create(&c).Error)
	for _, u := range responsaveis {
		require.NoError(t, db.Model(&c).Association("Responsaveis").Append(u))
	}
	return &c
}

func TestNotificarRenovacao(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	gp := criarUsuario(t, db, "Gerente", "52998224725", "gp@prophy.example", permissao.PerfilGerenteProphy)
	comercial := criarUsuario(t, db, "Comercial", "12345678909", "c@prophy.example", permissao.PerfilComercial)
	gerenteGeral := criarUsuario(t, db, "Gerente Geral", "11144477735", "ggc@santaclara.example", permissao.PerfilGerenteGeralCliente)
	criarClienteComResponsaveis(t, db, "Hospital Santa Clara", cnpjTeste, gp, comercial, gerenteGeral)

	criarProposta(t, db, ancora, proposta.ContratoAnual, proposta.StatusAceita)

	mailer := &mailerFalso{}
	tarefas := proposta.NewTarefas(db, mailer)
	require.NoError(t, tarefas.NotificarContratos(hoje))

	require.Len(t, mailer.envios, 1)
	assert.Contains(t, mailer.envios[0].assunto, "renovação")
	assert.ElementsMatch(t,
		[]string{gp.Email, comercial.Email, gerenteGeral.Email},
		mailer.envios[0].destinatarios)
}

func TestNotificarRenovacaoIgnoraContratoSubstituido(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	comercial := criarUsuario(t, db, "Comercial", "12345678909", "c@prophy.example", permissao.PerfilComercial)
	criarClienteComResponsaveis(t, db, "Hospital Santa Clara", cnpjTeste, comercial)

	criarProposta(t, db, ancora, proposta.ContratoAnual, proposta.StatusAceita)
	// contrato mais novo já firmado: a âncora não é mais a vigente
	criarProposta(t, db, ancora.AddDate(0, 3, 0), proposta.ContratoAnual, proposta.StatusAceita)

	mailer := &mailerFalso{}
	require.NoError(t, proposta.NewTarefas(db, mailer).NotificarContratos(hoje))
	assert.Empty(t, mailer.envios)
}

func TestNotificarResgate(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	comercial := criarUsuario(t, db, "Comercial", "12345678909", "c@prophy.example", permissao.PerfilComercial)
	criarClienteComResponsaveis(t, db, "Hospital Santa Clara", cnpjTeste, comercial)

	criarProposta(t, db, ancora, proposta.ContratoAnual, proposta.StatusRejeitada)

	mailer := &mailerFalso{}
	require.NoError(t, proposta.NewTarefas(db, mailer).NotificarContratos(hoje))

	require.Len(t, mailer.envios, 1)
	assert.Contains(t, mailer.envios[0].assunto, "resgate")
	assert.Equal(t, []string{comercial.Email}, mailer.envios[0].destinatarios)
}

func TestNotificarResgateIgnoraTentativaPosterior(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	comercial := criarUsuario(t, db, "Comercial", "12345678909", "c@prophy.example", permissao.PerfilComercial)
	criarClienteComResponsaveis(t, db, "Hospital Santa Clara", cnpjTeste, comercial)

	criarProposta(t, db, ancora, proposta.ContratoAnual, proposta.StatusRejeitada)
	criarProposta(t, db, ancora.AddDate(0, 1, 0), proposta.ContratoMensal, proposta.StatusPendente)

	mailer := &mailerFalso{}
	require.NoError(t, proposta.NewTarefas(db, mailer).NotificarContratos(hoje))
	assert.Empty(t, mailer.envios)
}

func TestNotificacoesNaoCruzamClientes(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	ancora := hoje.AddDate(0, -11, 0)

	const cnpjOutro = "11222333000181"
	comercialA := criarUsuario(t, db, "Comercial A", "52998224725", "c@santaclara.example", permissao.PerfilComercial)
	comercialB := criarUsuario(t, db, "Comercial B", "12345678909", "c@saojorge.example", permissao.PerfilComercial)
	criarClienteComResponsaveis(t, db, "Hospital Santa Clara", cnpjTeste, comercialA)
	criarClienteComResponsaveis(t, db, "Hospital São Jorge", cnpjOutro, comercialB)

	criarPropostaPara(t, db, cnpjTeste, ancora, proposta.ContratoAnual, proposta.StatusAceita)
	criarPropostaPara(t, db, cnpjOutro, ancora, proposta.ContratoAnual, proposta.StatusRejeitada)

	mailer := &mailerFalso{}
	require.NoError(t, proposta.NewTarefas(db, mailer).NotificarContratos(hoje))

	require.Len(t, mailer.envios, 2)
	for _, e := range mailer.envios {
		switch {
		case e.assunto == "Contrato anual próximo da renovação":
			assert.Equal(t, []string{comercialA.Email}, e.destinatarios, "renovação só fala com o cliente dono do contrato")
		case e.assunto == "Oportunidade de resgate de proposta":
			assert.Equal(t, []string{comercialB.Email}, e.destinatarios, "resgate só fala com o cliente da proposta rejeitada")
		default:
			t.Fatalf("assunto inesperado: %s", e.assunto)
		}
	}
}
