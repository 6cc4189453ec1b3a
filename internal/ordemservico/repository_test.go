package ordemservico

import (
	"testing"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"

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
		&modalidade.Modalidade{},
		&unidade.Unidade{},
		&equipamento.Equipamento{},
		&agendamento.Agendamento{},
		&OrdemServico{},
	))
	return db
}

type cenario struct {
	unidade     *unidade.Unidade
	equipamento *equipamento.Equipamento
	agendamento *agendamento.Agendamento
}

func montarCenario(t *testing.T, db *gorm.DB) cenario {
	t.Helper()
	m := modalidade.Modalidade{Nome: "Raios X", TipoAcessorio: modalidade.AcessorioNenhum}
	require.NoError(t, db.Create(&m).Error)
	u := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Centro", CNPJ: "90217758000179", UF: "SP", Cidade: "Campinas",
	}}
	require.NoError(t, db.Create(&u).Error)
	e := equipamento.Equipamento{DadosEquipamento: equipamento.DadosEquipamento{
		ModalidadeID: m.ID, Fabricante: "Siemens", Modelo: "Ysio", NumeroSerie: "RX-010", UnidadeID: &u.ID,
	}}
	require.NoError(t, db.Create(&e).Error)
	a := agendamento.Agendamento{
		UnidadeID: u.ID,
		Data:      time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC),
		Tipo:      agendamento.TipoPresencial,
		Status:    agendamento.StatusConfirmado,
	}
	require.NoError(t, db.Create(&a).Error)
	return cenario{unidade: &u, equipamento: &e, agendamento: &a}
}

func TestCriarVinculadaMarcaRealizado(t *testing.T) {
	db := novoBanco(t)
	c := montarCenario(t, db)
	repo := NewRepository()

	os := OrdemServico{
		Assunto:      "Controle de qualidade semestral",
		Equipamentos: []equipamento.Equipamento{*c.equipamento},
	}
	require.NoError(t, repo.CriarVinculada(db, &os, c.agendamento.ID))

	var ag agendamento.Agendamento
	require.NoError(t, db.First(&ag, c.agendamento.ID).Error)
	assert.Equal(t, agendamento.StatusRealizado, ag.Status)
	require.NotNil(t, ag.OrdemServicoID)
	assert.Equal(t, os.ID, *ag.OrdemServicoID)
}

func TestCriarVinculadaSoUmaVence(t *testing.T) {
	db := novoBanco(t)
	c := montarCenario(t, db)
	repo := NewRepository()

	primeira := OrdemServico{Assunto: "Primeira visita"}
	require.NoError(t, repo.CriarVinculada(db, &primeira, c.agendamento.ID))

	segunda := OrdemServico{Assunto: "Segunda visita"}
	err := repo.CriarVinculada(db, &segunda, c.agendamento.ID)
	assert.ErrorIs(t, err, ErrAgendamentoJaVinculado)

	// a perdedora não deixa rastro
	var n int64
	require.NoError(t, db.Model(&OrdemServico{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCriarVinculadaRejeitaEquipamentoDeOutraUnidade(t *testing.T) {
	db := novoBanco(t)
	c := montarCenario(t, db)
	repo := NewRepository()

	outra := unidade.Unidade{DadosUnidade: unidade.DadosUnidade{
		Nome: "Unidade Norte", CNPJ: "11222333000181", UF: "SP", Cidade: "Jundiaí",
	}}
	require.NoError(t, db.Create(&outra).Error)
	intruso := equipamento.Equipamento{DadosEquipamento: equipamento.DadosEquipamento{
		ModalidadeID: c.equipamento.ModalidadeID, Fabricante: "GE", Modelo: "Optima",
		NumeroSerie: "RX-099", UnidadeID: &outra.ID,
	}}
	require.NoError(t, db.Create(&intruso).Error)

	os := OrdemServico{
		Assunto:      "Visita",
		Equipamentos: []equipamento.Equipamento{intruso},
	}
	err := repo.CriarVinculada(db, &os, c.agendamento.ID)
	assert.ErrorIs(t, err, ErrEquipamentoForaDaUnidade)

	// nada foi criado nem vinculado
	var ag agendamento.Agendamento
	require.NoError(t, db.First(&ag, c.agendamento.ID).Error)
	assert.Nil(t, ag.OrdemServicoID)
	assert.Equal(t, agendamento.StatusConfirmado, ag.Status)
}

func TestAgendamentoDe(t *testing.T) {
	db := novoBanco(t)
	c := montarCenario(t, db)
	repo := NewRepository()

	os := OrdemServico{Assunto: "Visita"}
	require.NoError(t, repo.CriarVinculada(db, &os, c.agendamento.ID))

	ag, err := repo.AgendamentoDe(db, os.ID)
	require.NoError(t, err)
	assert.Equal(t, c.agendamento.ID, ag.ID)
}
