package materiais

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

// Criar cadastra um material de apoio (GP).
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoMaterial, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var m Material
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if m.Nome == "" {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "NOME_OBRIGATORIO", "material exige nome", "nome"))
		return
	}

	if err := h.Repository.Salvar(h.DB, &m); err != nil {
		http.Error(w, "erro ao criar material", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(m)
}

// Listar devolve os materiais para qualquer perfil humano.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoMaterial, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	lista, err := h.Repository.Listar(h.DB.Scopes(permissao.Paginar(r)))
	if err != nil {
		http.Error(w, "erro ao listar materiais", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna um material pelo ID.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoMaterial, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	m, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "material não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

// Atualizar edita um material (GP).
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoMaterial, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "material não encontrado", http.StatusNotFound)
		return
	}

	var m Material
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	m.ID = existente.ID
	m.CreatedAt = existente.CreatedAt

	if err := h.Repository.Atualizar(h.DB, &m); err != nil {
		http.Error(w, "erro ao atualizar material", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m)
}

// Deletar remove um material (GP).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoMaterial, permissao.AcaoExcluir) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao deletar material", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
