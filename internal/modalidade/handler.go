package modalidade

import (
	"encoding/json"
	"net/http"
	"strconv"

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

// Criar cadastra uma modalidade (GP).
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if perfil != permissao.PerfilGerenteProphy {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}

	var m Modalidade
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if m.TipoAcessorio == "" {
		m.TipoAcessorio = AcessorioNenhum
	}
	if !TipoAcessorioValido(m.TipoAcessorio) {
		http.Error(w, "tipo de acessório inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Criar(h.DB, &m); err != nil {
		http.Error(w, "erro ao salvar modalidade", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(m)
}

// Listar devolve todas as modalidades.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	lista, err := h.Repository.ListarTodas(h.DB)
	if err != nil {
		http.Error(w, "erro ao listar modalidades", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna uma modalidade pelo ID
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	m, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "modalidade não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

// Atualizar altera nome ou tipo de acessório (GP).
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if perfil != permissao.PerfilGerenteProphy {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	m, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "modalidade não encontrada", http.StatusNotFound)
		return
	}

	var dados Modalidade
	if err := json.NewDecoder(r.Body).Decode(&dados); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if dados.TipoAcessorio != "" && !TipoAcessorioValido(dados.TipoAcessorio) {
		http.Error(w, "tipo de acessório inválido", http.StatusBadRequest)
		return
	}
	if dados.Nome != "" {
		m.Nome = dados.Nome
	}
	if dados.TipoAcessorio != "" {
		m.TipoAcessorio = dados.TipoAcessorio
	}
	if err := h.Repository.Atualizar(h.DB, m); err != nil {
		http.Error(w, "erro ao atualizar modalidade", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

// Deletar remove uma modalidade (GP).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if perfil != permissao.PerfilGerenteProphy {
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir modalidade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
