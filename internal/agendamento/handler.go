package agendamento

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// unidadeNoEscopo confirma que a unidade alvo pertence ao escopo do ator.
func (h *Handler) unidadeNoEscopo(perfil string, atorID, unidadeID uint) (bool, error) {
	var n int64
	err := h.DB.Table("unidades").
		Scopes(permissao.EscopoUnidades(perfil, atorID)).
		Where("unidades.id = ? AND unidades.deleted_at IS NULL", unidadeID).
		Count(&n).Error
	return n > 0, err
}

// Criar marca uma visita (GP, C, FMI) em uma unidade do escopo do ator.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoAgendamento, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var a Agendamento
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if a.Status == "" {
		a.Status = StatusPendente
	}
	if a.Status == StatusRealizado {
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "STATUS_RESERVADO",
			"Realizado só é atribuído pelo vínculo de uma ordem de serviço"))
		return
	}
	a.OrdemServicoID = nil
	if err := a.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	ok, err := h.unidadeNoEscopo(perfil, atorID, a.UnidadeID)
	if err != nil {
		http.Error(w, "erro ao validar unidade", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "unidade não encontrada", http.StatusNotFound)
		return
	}

	if err := h.Repository.Salvar(h.DB, &a); err != nil {
		http.Error(w, "erro ao criar agendamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(a)
}

// Listar devolve os agendamentos no escopo do ator, com filtros por
// unidade e status.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoAgendamento, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Model(&Agendamento{}).
		Scopes(permissao.EscopoAgendamentos(perfil, atorID), permissao.Paginar(r))
	if unidadeID := r.URL.Query().Get("unidade_id"); unidadeID != "" {
		consulta = consulta.Where("agendamentos.unidade_id = ?", unidadeID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		consulta = consulta.Where("agendamentos.status = ?", status)
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar agendamentos", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um agendamento pelo ID, dentro do escopo do ator.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var a Agendamento
	err := h.DB.Scopes(permissao.EscopoAgendamentos(perfil, atorID)).
		First(&a, "agendamentos.id = ?", id).Error
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

// Atualizar edita um agendamento (GP, C, FMI). Reagendamento exige
// justificativa e Realizado nunca entra por aqui.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoAgendamento, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var existente Agendamento
	err := h.DB.Scopes(permissao.EscopoAgendamentos(perfil, atorID)).
		First(&existente, "agendamentos.id = ?", id).Error
	if err != nil {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}

	var a Agendamento
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	a.ID = existente.ID
	a.CreatedAt = existente.CreatedAt
	a.OrdemServicoID = existente.OrdemServicoID

	if a.Status == StatusRealizado && existente.Status != StatusRealizado {
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "STATUS_RESERVADO",
			"Realizado só é atribuído pelo vínculo de uma ordem de serviço"))
		return
	}
	if a.Status == StatusReagendado && a.Justificativa == "" {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "JUSTIFICATIVA_OBRIGATORIA",
			"reagendamento exige justificativa", "justificativa"))
		return
	}
	if err := a.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	if err := h.Repository.Atualizar(h.DB, &a); err != nil {
		http.Error(w, "erro ao atualizar agendamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(a)
}

// Deletar remove um agendamento (GP).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoAgendamento, permissao.AcaoExcluir) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao deletar agendamento", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
