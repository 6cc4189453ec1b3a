package equipamento

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar devolve os equipamentos dentro do escopo do ator, paginados.
// Mutação de equipamento entra pela fila de operações, não por aqui.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoEquipamento, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Model(&Equipamento{}).
		Scopes(permissao.EscopoEquipamentos(perfil, atorID), permissao.Paginar(r))
	if serie := r.URL.Query().Get("numero_serie"); serie != "" {
		consulta = consulta.Where("equipamentos.numero_serie = ?", serie)
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar equipamentos", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um equipamento pelo ID, dentro do escopo do ator.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var e Equipamento
	err := h.DB.Scopes(permissao.EscopoEquipamentos(perfil, atorID)).
		Preload("Modalidade").Preload("Acessorios").
		First(&e, "equipamentos.id = ?", id).Error
	if err != nil {
		// fora do escopo e inexistente são indistinguíveis
		http.Error(w, "equipamento não encontrado", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(e)
}

// CriarAcessorio adiciona um acessório a um equipamento cuja modalidade admite.
func (h *Handler) CriarAcessorio(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoEquipamento, permissao.AcaoMutarViaOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	eqID, _ := strconv.Atoi(mux.Vars(r)["id"])
	admite, err := h.Repository.AdmiteAcessorios(h.DB, uint(eqID))
	if err != nil {
		http.Error(w, "equipamento não encontrado", http.StatusNotFound)
		return
	}
	if !admite {
		apperr.Escrever(w, apperr.Novo(apperr.Validacao, "MODALIDADE_SEM_ACESSORIO", "a modalidade deste equipamento não admite acessórios"))
		return
	}

	var a Acessorio
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	a.EquipamentoID = uint(eqID)
	if err := h.Repository.CriarAcessorio(h.DB, &a); err != nil {
		http.Error(w, "erro ao salvar acessório", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(a)
}

// DeletarAcessorio remove um acessório.
func (h *Handler) DeletarAcessorio(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoEquipamento, permissao.AcaoMutarViaOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.DeletarAcessorio(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir acessório", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
