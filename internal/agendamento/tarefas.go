package agendamento

import (
	"net/http"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"gorm.io/gorm"
)

// Tarefas agrupa as rotinas de agendamento disparadas pela conta de
// serviço.
type Tarefas struct {
	DB *gorm.DB
}

func NewTarefas(db *gorm.DB) *Tarefas {
	return &Tarefas{DB: db}
}

// AtualizarVencidos marca como Não Realizado todo agendamento cuja data
// já passou e que nunca chegou a Realizado. A varredura é idempotente.
func (t *Tarefas) AtualizarVencidos(hoje time.Time) (int64, error) {
	meiaNoite := time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, hoje.Location())

	res := t.DB.Model(&Agendamento{}).
		Where("data < ? AND status IN ?", meiaNoite,
			[]string{StatusPendente, StatusConfirmado, StatusReagendado}).
		Update("status", StatusNaoRealizado)
	return res.RowsAffected, res.Error
}

// HandlerAtualizarVencidos expõe a varredura para o agendador externo
// (conta de serviço).
func (t *Tarefas) HandlerAtualizarVencidos(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoTarefa, permissao.AcaoExecutar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	if _, err := t.AtualizarVencidos(time.Now()); err != nil {
		http.Error(w, "erro ao atualizar agendamentos vencidos", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("agendamentos vencidos atualizados"))
}
