package cliente

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/proposta"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type atribuirResponsavelRequest struct {
	UsuarioID uint `json:"usuarioId"`
}

// clienteDTO anexa as derivações temporais calculadas na leitura.
type clienteDTO struct {
	Cliente
	PrecisaAgendamento  bool       `json:"precisaAgendamento"`
	ContratoRenovavel   bool       `json:"contratoRenovavel"`
	UltimaPropostaAnual *time.Time `json:"ultimaPropostaAnual,omitempty"`
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

func (h *Handler) montarDTO(c Cliente, hoje time.Time) clienteDTO {
	dto := clienteDTO{Cliente: c}

	ultima, err := proposta.UltimaAnualAceita(h.DB, c.CNPJ)
	if err != nil || ultima == nil {
		return dto
	}
	dto.UltimaPropostaAnual = &ultima.Data
	dto.ContratoRenovavel = proposta.DentroDaJanelaDeRenovacao(ultima.Data, hoje)

	precisa, err := proposta.PrecisaAgendamento(h.DB, c.ID, c.CNPJ)
	if err == nil {
		dto.PrecisaAgendamento = precisa
	}
	return dto
}

// Listar devolve os clientes no escopo do ator, paginados e anotados com
// as derivações de vigência. Mutação entra pela fila de operações.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoCliente, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Model(&Cliente{}).
		Scopes(permissao.EscopoClientes(perfil, atorID), permissao.Paginar(r))
	if cnpj := r.URL.Query().Get("cnpj"); cnpj != "" {
		consulta = consulta.Where("clientes.cnpj = ?", cnpj)
	}
	if nome := r.URL.Query().Get("nome"); nome != "" {
		consulta = consulta.Where("clientes.nome ILIKE ?", "%"+nome+"%")
	}
	if cidade := r.URL.Query().Get("cidade"); cidade != "" {
		consulta = consulta.Where("clientes.cidade = ?", cidade)
	}
	if ativo := r.URL.Query().Get("ativo"); ativo != "" {
		consulta = consulta.Where("clientes.ativo = ?", ativo == "true")
	}

	lista, err := h.Repository.Listar(consulta)
	if err != nil {
		http.Error(w, "erro ao listar clientes", http.StatusInternalServerError)
		return
	}

	hoje := time.Now()
	dtos := make([]clienteDTO, 0, len(lista))
	for _, c := range lista {
		dtos = append(dtos, h.montarDTO(c, hoje))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dtos)
}

// BuscarPorID retorna um cliente pelo ID, dentro do escopo do ator.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var c Cliente
	err := h.DB.Scopes(permissao.EscopoClientes(perfil, atorID)).
		Preload("Responsaveis").
		Preload("Unidades.Equipamentos.Modalidade").
		First(&c, "clientes.id = ?", id).Error
	if err != nil {
		// fora do escopo e inexistente são indistinguíveis
		http.Error(w, "cliente não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.montarDTO(c, time.Now()))
}

// AtribuirResponsavel vincula um usuário ao cliente (GP/C). No máximo um
// GGC por cliente.
func (h *Handler) AtribuirResponsavel(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req atribuirResponsavelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}

	err := h.Repository.AtribuirResponsavel(h.DB, uint(id), req.UsuarioID)
	switch {
	case errors.Is(err, ErrGerenteGeralJaAtribuido):
		apperr.Escrever(w, apperr.NovoCampo(apperr.Validacao, "GGC_DUPLICADO", err.Error(), "usuarioId"))
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "cliente ou usuário não encontrado", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "erro ao atribuir responsável", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("responsável atribuído com sucesso"))
}

// RemoverResponsavel desvincula um usuário do cliente (GP/C).
func (h *Handler) RemoverResponsavel(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoUsuario, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	vars := mux.Vars(r)
	id, _ := strconv.Atoi(vars["id"])
	usuarioID, _ := strconv.Atoi(vars["usuarioId"])
	if err := h.Repository.RemoverResponsavel(h.DB, uint(id), uint(usuarioID)); err != nil {
		http.Error(w, "erro ao remover responsável", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
