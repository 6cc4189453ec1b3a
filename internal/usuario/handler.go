package usuario

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type criarUsuarioRequest struct {
	Nome      string `json:"nome"`
	Sobrenome string `json:"sobrenome"`
	CPF       string `json:"cpf"`
	Email     string `json:"email"`
	Telefone  string `json:"telefone"`
	Senha     string `json:"senha"`
	Perfil    string `json:"perfil"`
}

type atualizarUsuarioRequest struct {
	Nome      *string `json:"nome"`
	Sobrenome *string `json:"sobrenome"`
	Email     *string `json:"email"`
	Telefone  *string `json:"telefone"`
	Perfil    *string `json:"perfil"`
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

func perfilGerenciavel(ator string, alvo string) bool {
	for _, p := range permissao.PerfisGerenciaveisPor(ator) {
		if p == alvo {
			return true
		}
	}
	return false
}

// Criar cadastra um usuário. GP cria qualquer perfil; Comercial só GGC e GU.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var req criarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	if !perfilGerenciavel(perfil, req.Perfil) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "PERFIL_FORA_DO_ALCANCE", "acesso negado"))
		return
	}
	if !utils.ValidarCPF(req.CPF) {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "CPF_INVALIDO", "CPF inválido", "cpf"))
		return
	}
	if req.Telefone != "" && !utils.ValidarCelular(req.Telefone) {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "TELEFONE_INVALIDO", "celular deve ter 11 dígitos com nono dígito", "telefone"))
		return
	}

	senha := req.Senha
	precisaRedefinir := false
	if senha == "" {
		temporaria, err := utils.GerarSenhaTemporaria()
		if err != nil {
			http.Error(w, "erro ao gerar senha temporária", http.StatusInternalServerError)
			return
		}
		senha = temporaria
		precisaRedefinir = true
	}
	hash, err := utils.HashSenha(senha)
	if err != nil {
		http.Error(w, "erro ao processar senha", http.StatusInternalServerError)
		return
	}

	u := Usuario{
		Nome:                  req.Nome,
		Sobrenome:             req.Sobrenome,
		CPF:                   req.CPF,
		Email:                 req.Email,
		Telefone:              req.Telefone,
		Senha:                 hash,
		PrecisaRedefinirSenha: precisaRedefinir,
		Perfil:                req.Perfil,
	}
	if err := h.Repository.Salvar(h.DB, &u); err != nil {
		apperr.Escrever(w, apperr.NovoCampo(apperr.Integridade, "CPF_DUPLICADO", "já existe usuário com este CPF", "cpf"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(u)
}

// Listar devolve os usuários ao alcance do ator.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var (
		usuarios []Usuario
		err      error
	)
	if perfil == permissao.PerfilGerenteProphy {
		usuarios, err = h.Repository.ListarTodos(h.DB)
	} else {
		usuarios, err = h.Repository.ListarPorPerfis(h.DB, permissao.PerfisGerenciaveisPor(perfil))
	}
	if err != nil {
		http.Error(w, "erro ao listar usuários", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(usuarios)
}

// BuscarPorID retorna um usuário pelo ID
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}

	u, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}

	// fora GP/C, cada um enxerga apenas o próprio cadastro
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoListar) && uint(id) != atorID {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// Atualizar altera dados de um usuário existente.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	u, err := h.Repository.BuscarPorID(h.DB, uint(id))
	if err != nil {
		http.Error(w, "usuário não encontrado", http.StatusNotFound)
		return
	}
	if !perfilGerenciavel(perfil, u.Perfil) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "PERFIL_FORA_DO_ALCANCE", "acesso negado"))
		return
	}

	var req atualizarUsuarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if req.Nome != nil {
		u.Nome = *req.Nome
	}
	if req.Sobrenome != nil {
		u.Sobrenome = *req.Sobrenome
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Telefone != nil {
		if !utils.ValidarCelular(*req.Telefone) {
			apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "TELEFONE_INVALIDO", "celular deve ter 11 dígitos com nono dígito", "telefone"))
			return
		}
		u.Telefone = *req.Telefone
	}
	if req.Perfil != nil {
		if !perfilGerenciavel(perfil, *req.Perfil) {
			apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "PERFIL_FORA_DO_ALCANCE", "acesso negado"))
			return
		}
		u.Perfil = *req.Perfil
	}

	if err := h.Repository.Atualizar(h.DB, u); err != nil {
		http.Error(w, "erro ao atualizar usuário", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(u)
}

// Deletar remove um usuário (somente GP).
func (h *Handler) Deletar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoExcluir) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "ID inválido", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Deletar(h.DB, uint(id)); err != nil {
		http.Error(w, "erro ao excluir usuário", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("usuário excluído com sucesso"))
}
