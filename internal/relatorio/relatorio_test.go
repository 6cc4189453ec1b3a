package relatorio

import (
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&Relatorio{}))
	return db
}

func TestValidarVinculoExclusivo(t *testing.T) {
	unidadeID := uint(1)
	equipamentoID := uint(2)
	conclusao := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	// tipo de unidade com equipamento
	r := Relatorio{Tipo: TipoMemorial, EquipamentoID: &equipamentoID, DataConclusao: conclusao}
	assert.Error(t, r.Validar())

	// tipo de equipamento com unidade
	r = Relatorio{Tipo: TipoTesteEletrico, UnidadeID: &unidadeID, DataConclusao: conclusao}
	assert.Error(t, r.Validar())

	// tipo desconhecido
	r = Relatorio{Tipo: "AUDITORIA", UnidadeID: &unidadeID, DataConclusao: conclusao}
	assert.Error(t, r.Validar())

	// sem data de conclusão
	r = Relatorio{Tipo: TipoMemorial, UnidadeID: &unidadeID}
	assert.Error(t, r.Validar())

	r = Relatorio{Tipo: TipoMemorial, UnidadeID: &unidadeID, DataConclusao: conclusao}
	assert.NoError(t, r.Validar())
	r = Relatorio{Tipo: TipoControleDeQualidade, EquipamentoID: &equipamentoID, DataConclusao: conclusao}
	assert.NoError(t, r.Validar())
}

func TestCalcularVencimento(t *testing.T) {
	conclusao := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	anual := CalcularVencimento(TipoControleDeQualidade, conclusao)
	assert.Equal(t, conclusao.Add(365*24*time.Hour), anual)

	radiometrico := CalcularVencimento(TipoLevantamentoRadiometrico, conclusao)
	assert.Equal(t, conclusao.Add(4*365*24*time.Hour), radiometrico)
}

func TestStatusVencimento(t *testing.T) {
	hoje := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	vencido := Relatorio{DataVencimento: hoje.AddDate(0, 0, -1)}
	assert.Equal(t, StatusVencido, vencido.StatusVencimento(hoje))

	proximo := Relatorio{DataVencimento: hoje.AddDate(0, 0, 15)}
	assert.Equal(t, StatusProximoVencimento, proximo.StatusVencimento(hoje))

	limite := Relatorio{DataVencimento: hoje.AddDate(0, 0, 30)}
	assert.Equal(t, StatusProximoVencimento, limite.StatusVencimento(hoje))

	emDia := Relatorio{DataVencimento: hoje.AddDate(0, 0, 31)}
	assert.Equal(t, StatusEmDia, emDia.StatusVencimento(hoje))
}

func TestCriarSubstituindoArquivaAnterior(t *testing.T) {
	db := novoBanco(t)
	repo := NewRepository()
	unidadeID := uint(7)
	conclusao := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	antigo := Relatorio{
		Tipo:           TipoMemorial,
		UnidadeID:      &unidadeID,
		DataConclusao:  conclusao,
		DataVencimento: CalcularVencimento(TipoMemorial, conclusao),
	}
	require.NoError(t, repo.CriarSubstituindo(db, &antigo, 4))

	novaConclusao := conclusao.AddDate(0, 6, 0)
	novo := Relatorio{
		Tipo:           TipoMemorial,
		UnidadeID:      &unidadeID,
		DataConclusao:  novaConclusao,
		DataVencimento: CalcularVencimento(TipoMemorial, novaConclusao),
	}
	require.NoError(t, repo.CriarSubstituindo(db, &novo, 5))

	var substituido Relatorio
	require.NoError(t, db.First(&substituido, antigo.ID).Error)
	require.NotNil(t, substituido.ExcluidoEm)
	require.NotNil(t, substituido.ExcluidoPorID)
	assert.EqualValues(t, 5, *substituido.ExcluidoPorID, "quem cria o substituto assina o arquivamento")

	// só o novo aparece na listagem ativa
	ativos, err := repo.Listar(db, false)
	require.NoError(t, err)
	require.Len(t, ativos, 1)
	assert.Equal(t, novo.ID, ativos[0].ID)

	// o histórico completo continua acessível
	todos, err := repo.Listar(db, true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestSubstituicaoNaoCruzaVinculo(t *testing.T) {
	db := novoBanco(t)
	repo := NewRepository()
	unidadeA := uint(1)
	unidadeB := uint(2)
	conclusao := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	a := Relatorio{Tipo: TipoMemorial, UnidadeID: &unidadeA, DataConclusao: conclusao,
		DataVencimento: CalcularVencimento(TipoMemorial, conclusao)}
	require.NoError(t, repo.CriarSubstituindo(db, &a, 4))

	b := Relatorio{Tipo: TipoMemorial, UnidadeID: &unidadeB, DataConclusao: conclusao,
		DataVencimento: CalcularVencimento(TipoMemorial, conclusao)}
	require.NoError(t, repo.CriarSubstituindo(db, &b, 4))

	ativos, err := repo.Listar(db, false)
	require.NoError(t, err)
	assert.Len(t, ativos, 2, "unidades diferentes não se substituem")
}

func TestArquivarEExcluirDefinitivo(t *testing.T) {
	db := novoBanco(t)
	repo := NewRepository()
	unidadeID := uint(3)
	conclusao := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	rel := Relatorio{Tipo: TipoTesteDeAceite, UnidadeID: &unidadeID, DataConclusao: conclusao,
		DataVencimento: CalcularVencimento(TipoTesteDeAceite, conclusao)}
	require.NoError(t, repo.CriarSubstituindo(db, &rel, 4))

	// ativo não pode ser excluído definitivamente
	assert.ErrorIs(t, repo.ExcluirDefinitivo(db, rel.ID), ErrNaoArquivado)

	require.NoError(t, repo.Arquivar(db, rel.ID, 9, time.Now()))
	arquivado, err := repo.BuscarPorID(db, rel.ID, true)
	require.NoError(t, err)
	require.NotNil(t, arquivado.ExcluidoEm)
	require.NotNil(t, arquivado.ExcluidoPorID)
	assert.EqualValues(t, 9, *arquivado.ExcluidoPorID)

	// arquivado some da leitura padrão
	_, err = repo.BuscarPorID(db, rel.ID, false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// arquivar duas vezes não acha o registro
	assert.ErrorIs(t, repo.Arquivar(db, rel.ID, 9, time.Now()), gorm.ErrRecordNotFound)

	require.NoError(t, repo.ExcluirDefinitivo(db, rel.ID))
	var n int64
	require.NoError(t, db.Model(&Relatorio{}).Where("id = ?", rel.ID).Count(&n).Error)
	assert.Zero(t, n)
}
