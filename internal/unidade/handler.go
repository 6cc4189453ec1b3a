package unidade

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type atribuirGerenteRequest struct {
	UsuarioID *uint `json:"usuarioId"`
}

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository()}
}

// Listar devolve as unidades dentro do escopo do ator, paginadas.
// Mutação de unidade entra pela fila de operações, não por aqui.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUnidade, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Model(&Unidade{}).
		Scopes(permissao.EscopoUnidades(perfil, atorID), permissao.Paginar(r))
	if cnpj := r.URL.Query().Get("cnpj"); cnpj != "" {
		consulta = consulta.Where("unidades.cnpj = ?", cnpj)
	}
	if nome := r.URL.Query().Get("nome"); nome != "" {
		consulta = consulta.Where("unidades.nome ILIKE ?", "%"+nome+"%")
	}
	if cidade := r.URL.Query().Get("cidade"); cidade != "" {
		consulta = consulta.Where("unidades.cidade = ?", cidade)
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar unidades", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// BuscarPorID retorna uma unidade pelo ID, dentro do escopo do ator.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var u Unidade
	err := h.DB.Scopes(permissao.EscopoUnidades(perfil, atorID)).
		Preload("Equipamentos.Modalidade").
		Preload("Equipamentos.Acessorios").
		First(&u, "unidades.id = ?", id).Error
	if err != nil {
		http.Error(w, "unidade não encontrada", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// AtribuirGerente vincula (ou desvincula, com usuarioId nulo) o gerente de
// unidade. O usuário precisa ter perfil GU; cada unidade aceita no máximo um.
func (h *Handler) AtribuirGerente(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if _, err := h.Repository.BuscarPorID(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "unidade não encontrada", http.StatusNotFound)
			return
		}
		http.Error(w, "erro ao buscar unidade", http.StatusInternalServerError)
		return
	}

	var req atribuirGerenteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if req.UsuarioID != nil {
		var u usuario.Usuario
		if err := h.DB.First(&u, *req.UsuarioID).Error; err != nil {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}
		if u.Perfil != permissao.PerfilGerenteUnidade {
			apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "PERFIL_INCOMPATIVEL", "o gerente de unidade precisa ter perfil GU", "usuarioId"))
			return
		}
	}

	if err := h.Repository.AtribuirGerente(h.DB, uint(id), req.UsuarioID); err != nil {
		http.Error(w, "erro ao atribuir gerente", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("gerente atualizado com sucesso"))
}
