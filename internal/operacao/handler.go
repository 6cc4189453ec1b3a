package operacao

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type revisarRequest struct {
	Aprovar     bool   `json:"aprovar"`
	Comentarios string `json:"comentarios"`
}

// Handler encapsula o banco para as três filas de operação.
type Handler struct {
	DB *gorm.DB
}

// NewHandler retorna um handler inicializado
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db}
}

func escreverErroDeOperacao(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReferenciaOriginalAusente):
		apperr.Escrever(w, apperr.Novo(apperr.NaoEncontrado, "ORIGINAL_AUSENTE", err.Error()))
	case errors.Is(err, ErrRevisaoEmAndamento):
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "REVISAO_EM_ANDAMENTO", err.Error()))
	case errors.Is(err, ErrCNPJDuplicado):
		apperr.Escrever(w, apperr.NovoCampo(apperr.Integridade, "CNPJ_DUPLICADO", err.Error(), "cnpj"))
	case errors.Is(err, ErrTransicaoInvalida):
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "TRANSICAO_INVALIDA", err.Error()))
	case errors.Is(err, ErrPerfilSemPermissao):
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "operação não encontrada", http.StatusNotFound)
	default:
		var e *apperr.Erro
		if errors.As(err, &e) {
			apperr.Escrever(w, err)
			return
		}
		http.Error(w, "erro ao processar operação", http.StatusInternalServerError)
	}
}

func (h *Handler) podeListar(w http.ResponseWriter, r *http.Request, recurso permissao.Recurso) (uint, string, bool) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, recurso, permissao.AcaoMutarViaOperacao) &&
		!permissao.Permitido(perfil, recurso, permissao.AcaoRevisarOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return 0, "", false
	}
	return atorID, perfil, true
}

// CriarCliente enfileira uma operação de cliente.
func (h *Handler) CriarCliente(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoCliente, permissao.AcaoMutarViaOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var op OperacaoCliente
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	op.CriadoPorID = atorID

	if err := CriarCliente(h.DB, &op); err != nil {
		escreverErroDeOperacao(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(op)
}

// ListarClientes devolve a fila de operações de cliente. Quem não é o
// revisor enxerga apenas as próprias operações.
func (h *Handler) ListarClientes(w http.ResponseWriter, r *http.Request) {
	atorID, perfil, ok := h.podeListar(w, r, permissao.RecursoCliente)
	if !ok {
		return
	}

	consulta := h.DB.Scopes(permissao.Paginar(r)).Order("id DESC")
	if !permissao.Permitido(perfil, permissao.RecursoCliente, permissao.AcaoRevisarOperacao) {
		consulta = consulta.Where("criado_por_id = ?", atorID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		consulta = consulta.Where("status_operacao = ?", status)
	}

	var lista []OperacaoCliente
	if err := consulta.Find(&lista).Error; err != nil {
		http.Error(w, "erro ao listar operações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// RevisarCliente aceita ou rejeita uma operação de cliente (GP).
func (h *Handler) RevisarCliente(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req revisarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	op, err := RevisarCliente(h.DB, uint(id), perfil, req.Aprovar, req.Comentarios)
	if err != nil {
		escreverErroDeOperacao(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(op)
}

// CriarUnidade enfileira uma operação de unidade.
func (h *Handler) CriarUnidade(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUnidade, permissao.AcaoMutarViaOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var op OperacaoUnidade
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	op.CriadoPorID = atorID

	if err := CriarUnidade(h.DB, &op); err != nil {
		escreverErroDeOperacao(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(op)
}

// ListarUnidades devolve a fila de operações de unidade.
func (h *Handler) ListarUnidades(w http.ResponseWriter, r *http.Request) {
	atorID, perfil, ok := h.podeListar(w, r, permissao.RecursoUnidade)
	if !ok {
		return
	}

	consulta := h.DB.Scopes(permissao.Paginar(r)).Order("id DESC")
	if !permissao.Permitido(perfil, permissao.RecursoUnidade, permissao.AcaoRevisarOperacao) {
		consulta = consulta.Where("criado_por_id = ?", atorID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		consulta = consulta.Where("status_operacao = ?", status)
	}

	var lista []OperacaoUnidade
	if err := consulta.Find(&lista).Error; err != nil {
		http.Error(w, "erro ao listar operações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// RevisarUnidade aceita ou rejeita uma operação de unidade (GP).
func (h *Handler) RevisarUnidade(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req revisarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	op, err := RevisarUnidade(h.DB, uint(id), perfil, req.Aprovar, req.Comentarios)
	if err != nil {
		escreverErroDeOperacao(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(op)
}

// CriarEquipamento enfileira uma operação de equipamento.
func (h *Handler) CriarEquipamento(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoEquipamento, permissao.AcaoMutarViaOperacao) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var op OperacaoEquipamento
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	op.CriadoPorID = atorID

	if err := CriarEquipamento(h.DB, &op); err != nil {
		escreverErroDeOperacao(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(op)
}

// ListarEquipamentos devolve a fila de operações de equipamento.
func (h *Handler) ListarEquipamentos(w http.ResponseWriter, r *http.Request) {
	atorID, perfil, ok := h.podeListar(w, r, permissao.RecursoEquipamento)
	if !ok {
		return
	}

	consulta := h.DB.Scopes(permissao.Paginar(r)).Order("id DESC")
	if !permissao.Permitido(perfil, permissao.RecursoEquipamento, permissao.AcaoRevisarOperacao) {
		consulta = consulta.Where("criado_por_id = ?", atorID)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		consulta = consulta.Where("status_operacao = ?", status)
	}

	var lista []OperacaoEquipamento
	if err := consulta.Find(&lista).Error; err != nil {
		http.Error(w, "erro ao listar operações", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(lista)
}

// RevisarEquipamento aceita ou rejeita uma operação de equipamento (GP).
func (h *Handler) RevisarEquipamento(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req revisarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	op, err := RevisarEquipamento(h.DB, uint(id), perfil, req.Aprovar, req.Comentarios)
	if err != nil {
		escreverErroDeOperacao(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(op)
}
