package agendamento

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
	require.NoError(t, db.AutoMigrate(&Agendamento{}))
	return db
}

func criarAgendamento(t *testing.T, db *gorm.DB, data time.Time, status string) *Agendamento {
	t.Helper()
	a := Agendamento{UnidadeID: 1, Data: data, Tipo: TipoPresencial, Status: status}
	require.NoError(t, db.Create(&a).Error)
	return &a
}

func TestAtualizarVencidos(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	ontem := hoje.AddDate(0, 0, -1)
	amanha := hoje.AddDate(0, 0, 1)

	pendenteVencido := criarAgendamento(t, db, ontem, StatusPendente)
	confirmadoVencido := criarAgendamento(t, db, ontem, StatusConfirmado)
	reagendadoVencido := criarAgendamento(t, db, ontem, StatusReagendado)
	realizadoVencido := criarAgendamento(t, db, ontem, StatusRealizado)
	pendenteFuturo := criarAgendamento(t, db, amanha, StatusPendente)
	// visita de hoje ainda não venceu
	pendenteHoje := criarAgendamento(t, db, hoje.Add(-2*time.Hour), StatusPendente)

	tarefas := NewTarefas(db)
	afetados, err := tarefas.AtualizarVencidos(hoje)
	require.NoError(t, err)
	assert.EqualValues(t, 3, afetados)

	esperados := map[uint]string{
		pendenteVencido.ID:   StatusNaoRealizado,
		confirmadoVencido.ID: StatusNaoRealizado,
		reagendadoVencido.ID: StatusNaoRealizado,
		realizadoVencido.ID:  StatusRealizado,
		pendenteFuturo.ID:    StatusPendente,
		pendenteHoje.ID:      StatusPendente,
	}
	for id, status := range esperados {
		var a Agendamento
		require.NoError(t, db.First(&a, id).Error)
		assert.Equal(t, status, a.Status, "agendamento %d", id)
	}
}

func TestAtualizarVencidosIdempotente(t *testing.T) {
	db := novoBanco(t)
	hoje := time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	criarAgendamento(t, db, hoje.AddDate(0, 0, -3), StatusPendente)

	tarefas := NewTarefas(db)
	afetados, err := tarefas.AtualizarVencidos(hoje)
	require.NoError(t, err)
	assert.EqualValues(t, 1, afetados)

	afetados, err = tarefas.AtualizarVencidos(hoje)
	require.NoError(t, err)
	assert.Zero(t, afetados, "segunda varredura não reprocessa")
}

func TestValidar(t *testing.T) {
	a := Agendamento{UnidadeID: 1, Tipo: TipoOnline, Status: StatusPendente}
	assert.NoError(t, a.Validar())

	semUnidade := Agendamento{Tipo: TipoOnline, Status: StatusPendente}
	assert.Error(t, semUnidade.Validar())

	tipoErrado := Agendamento{UnidadeID: 1, Tipo: "Híbrido", Status: StatusPendente}
	assert.Error(t, tipoErrado.Validar())

	statusErrado := Agendamento{UnidadeID: 1, Tipo: TipoOnline, Status: "Adiado"}
	assert.Error(t, statusErrado.Validar())

	telefoneErrado := Agendamento{UnidadeID: 1, Tipo: TipoOnline, Status: StatusPendente, TelefoneContato: "123"}
	assert.Error(t, telefoneErrado.Validar())
}
