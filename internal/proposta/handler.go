package proposta

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/notificacao"
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

// Criar registra uma nova proposta (GP/C). Se o CNPJ já tem histórico,
// dispara o webhook de alerta para a equipe comercial.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoProposta, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var p Proposta
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if p.Status == "" {
		p.Status = StatusPendente
	}
	if err := p.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	jaExiste, err := h.Repository.ExistePorCNPJ(h.DB, p.CNPJ)
	if err != nil {
		http.Error(w, "erro ao consultar propostas", http.StatusInternalServerError)
		return
	}

	if err := h.Repository.Salvar(h.DB, &p); err != nil {
		http.Error(w, "erro ao criar proposta", http.StatusInternalServerError)
		return
	}
	if jaExiste {
		go notificacao.EnviarWebhookAlerta(p.CNPJ)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(p)
}

// Listar devolve as propostas (GP/C), com filtros por CNPJ, tipo de
// contrato e status.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoProposta, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Scopes(permissao.Paginar(r))
	if cnpj := r.URL.Query().Get("cnpj"); cnpj != "" {
		consulta = consulta.Where("cnpj = ?", cnpj)
	}
	if tipo := r.URL.Query().Get("tipo_contrato"); tipo != "" {
		consulta = consulta.Where("tipo_contrato = ?", tipo)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		consulta = consulta.Where("status = ?", status)
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar propostas", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna uma proposta pelo ID (GP/C).
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoProposta, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	p, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proposta não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Atualizar edita uma proposta existente (GP/C), inclusive a transição
// de status Pendente para Aceita ou Rejeitada.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoProposta, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "proposta não encontrada", http.StatusNotFound)
		return
	}

	var p Proposta
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	p.ID = existente.ID
	p.CreatedAt = existente.CreatedAt
	if err := p.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	if err := h.Repository.Atualizar(h.DB, &p); err != nil {
		http.Error(w, "erro ao atualizar proposta", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p)
}

// Deletar remove uma proposta (GP/C).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoProposta, permissao.AcaoExcluir) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao deletar proposta", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
