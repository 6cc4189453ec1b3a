package ordemservico

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarRequest struct {
	AgendamentoID  uint   `json:"agendamentoId"`
	Assunto        string `json:"assunto"`
	Descricao      string `json:"descricao"`
	EquipamentoIDs []uint `json:"equipamentoIds"`
}

type andamentoRequest struct {
	Texto string `json:"texto"`
}

// Handler encapsula DB e repository
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// escopo restringe a consulta às ordens cujos agendamentos o ator enxerga.
func (h *Handler) escopo(db *gorm.DB, perfil string, atorID uint) *gorm.DB {
	return db.Joins("JOIN agendamentos ON agendamentos.ordem_servico_id = ordens_servico.id").
		Scopes(permissao.EscopoAgendamentos(perfil, atorID))
}

// Criar abre uma ordem de serviço vinculada a um agendamento (GP, FMI,
// FME). O vínculo marca o agendamento como Realizado; se outra ordem já
// reivindicou o agendamento, a criação falha inteira.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoOrdemServico, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var req criarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	// o agendamento precisa estar no escopo do ator
	var n int64
	err := h.DB.Table("agendamentos").
		Scopes(permissao.EscopoAgendamentos(perfil, atorID)).
		Where("agendamentos.id = ? AND agendamentos.deleted_at IS NULL", req.AgendamentoID).
		Count(&n).Error
	if err != nil {
		http.Error(w, "erro ao validar agendamento", http.StatusInternalServerError)
		return
	}
	if n == 0 {
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	}

	os := OrdemServico{
		Assunto:      req.Assunto,
		Descricao:    req.Descricao,
		Atualizacoes: []string{},
	}
	for _, id := range req.EquipamentoIDs {
		os.Equipamentos = append(os.Equipamentos, equipamento.Equipamento{Model: gorm.Model{ID: id}})
	}
	if err := os.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	err = h.Repository.CriarVinculada(h.DB, &os, req.AgendamentoID)
	switch {
	case errors.Is(err, ErrAgendamentoJaVinculado):
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "AGENDAMENTO_JA_VINCULADO", err.Error()))
		return
	case errors.Is(err, ErrEquipamentoForaDaUnidade):
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "EQUIPAMENTO_FORA_DA_UNIDADE", err.Error(), "equipamentoIds"))
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "agendamento não encontrado", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "erro ao criar ordem de serviço", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(os)
}

// Listar devolve as ordens de serviço no escopo do ator.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoOrdemServico, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.escopo(h.DB.Model(&OrdemServico{}), perfil, atorID).
		Scopes(permissao.Paginar(r))
	if unidadeID := r.URL.Query().Get("unidade_id"); unidadeID != "" {
		consulta = consulta.Where("agendamentos.unidade_id = ?", unidadeID)
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar ordens de serviço", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna uma ordem de serviço pelo ID, dentro do escopo.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var os OrdemServico
	err := h.escopo(h.DB, perfil, atorID).
		Preload("Equipamentos.Modalidade").
		First(&os, "ordens_servico.id = ?", id).Error
	if err != nil {
		http.Error(w, "ordem de serviço não encontrada", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(os)
}

// Atualizar edita assunto, descrição e conclusão (GP). O vínculo com o
// agendamento e o histórico de andamentos não mudam por aqui.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoOrdemServico, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "ordem de serviço não encontrada", http.StatusNotFound)
		return
	}

	var os OrdemServico
	if err := json.NewDecoder(r.Body).Decode(&os); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	existente.Assunto = os.Assunto
	existente.Descricao = os.Descricao
	existente.Conclusao = os.Conclusao
	if err := existente.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	if err := h.Repository.Atualizar(h.DB, existente); err != nil {
		http.Error(w, "erro ao atualizar ordem de serviço", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(existente)
}

// AdicionarAndamento anexa uma atualização ao histórico (FMI, FME). O
// histórico só cresce.
func (h *Handler) AdicionarAndamento(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoOrdemServico, permissao.AcaoAtualizarAndamento) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var os OrdemServico
	err := h.escopo(h.DB, perfil, atorID).
		First(&os, "ordens_servico.id = ?", id).Error
	if err != nil {
		http.Error(w, "ordem de serviço não encontrada", http.StatusNotFound)
		return
	}

	var req andamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if req.Texto == "" {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "TEXTO_OBRIGATORIO", "andamento exige texto", "texto"))
		return
	}

	os.Atualizacoes = append(os.Atualizacoes, req.Texto)
	if err := h.DB.Model(&os).Update("atualizacoes", os.Atualizacoes).Error; err != nil {
		http.Error(w, "erro ao registrar andamento", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(os)
}
