package relatorio

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// relatorioDTO anexa o status de vencimento calculado na leitura.
type relatorioDTO struct {
	Relatorio
	Status string `json:"status"`
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

func montarDTO(r Relatorio, hoje time.Time) relatorioDTO {
	return relatorioDTO{Relatorio: r, Status: r.StatusVencimento(hoje)}
}

// incluirExcluidos honra o parâmetro apenas para quem pode ver arquivados.
func incluirExcluidos(r *http.Request, perfil string) bool {
	if r.URL.Query().Get("incluir_excluidos") != "true" {
		return false
	}
	return permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoVerArquivados)
}

// vinculoNoEscopo confirma que a unidade ou o equipamento alvo existe e
// pertence ao escopo do ator.
func (h *Handler) vinculoNoEscopo(perfil string, atorID uint, rel *Relatorio) (bool, error) {
	var n int64
	if rel.UnidadeID != nil {
		err := h.DB.Table("unidades").
			Scopes(permissao.EscopoUnidades(perfil, atorID)).
			Where("unidades.id = ? AND unidades.deleted_at IS NULL", *rel.UnidadeID).
			Count(&n).Error
		return n > 0, err
	}
	err := h.DB.Table("equipamentos").
		Scopes(permissao.EscopoEquipamentos(perfil, atorID)).
		Where("equipamentos.id = ? AND equipamentos.deleted_at IS NULL", *rel.EquipamentoID).
		Count(&n).Error
	return n > 0, err
}

// Criar registra um relatório (GP, FMI, FME). Relatórios ativos de mesmo
// tipo e mesmo vínculo são substituídos na mesma transação.
func (h *Handler) Criar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoCriar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	var rel Relatorio
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	rel.ExcluidoEm = nil
	rel.ExcluidoPorID = nil
	if err := rel.Validar(); err != nil {
		apperr.Escrever(w, err)
		return
	}

	ok, err := h.vinculoNoEscopo(perfil, atorID, &rel)
	if err != nil {
		http.Error(w, "erro ao validar vínculo", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "unidade ou equipamento não encontrado", http.StatusNotFound)
		return
	}

	rel.DataVencimento = CalcularVencimento(rel.Tipo, rel.DataConclusao)
	if err := h.Repository.CriarSubstituindo(h.DB, &rel, atorID); err != nil {
		http.Error(w, "erro ao criar relatório", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(montarDTO(rel, time.Now()))
}

// Listar devolve os relatórios no escopo do ator, anotados com o status
// de vencimento. Arquivados entram só a pedido e para quem pode vê-los.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoListar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	consulta := h.DB.Model(&Relatorio{}).
		Scopes(permissao.EscopoRelatorios(perfil, atorID), permissao.Paginar(r))
	if tipo := r.URL.Query().Get("tipo"); tipo != "" {
		consulta = consulta.Where("relatorios.tipo = ?", tipo)
	}
	if unidadeID := r.URL.Query().Get("unidade_id"); unidadeID != "" {
		consulta = consulta.Where("relatorios.unidade_id = ?", unidadeID)
	}
	if equipamentoID := r.URL.Query().Get("equipamento_id"); equipamentoID != "" {
		consulta = consulta.Where("relatorios.equipamento_id = ?", equipamentoID)
	}

	lista, err := h.Repository.Listar(consulta, incluirExcluidos(r, perfil))
	if err != nil {
		http.Error(w, "erro ao listar relatórios", http.StatusInternalServerError)
		return
	}

	hoje := time.Now()
	dtos := make([]relatorioDTO, 0, len(lista))
	for _, rel := range lista {
		dtos = append(dtos, montarDTO(rel, hoje))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(dtos)
}

// BuscarPorID retorna um relatório pelo ID, dentro do escopo do ator.
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	consulta := h.DB.Scopes(permissao.EscopoRelatorios(perfil, atorID))
	rel, err := h.Repository.BuscarPorID(consulta.Where("relatorios.id = ?", id), uint(id), incluirExcluidos(r, perfil))
	if err != nil {
		http.Error(w, "relatório não encontrado", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(montarDTO(*rel, time.Now()))
}

// Atualizar edita o arquivo e a data de conclusão (GP, FMI, FME). A
// validade é recalculada; tipo e vínculo não mudam.
func (h *Handler) Atualizar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoAtualizar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	existente, err := h.Repository.BuscarPorID(h.DB, uint(id), false)
	if err != nil {
		http.Error(w, "relatório não encontrado", http.StatusNotFound)
		return
	}

	var rel Relatorio
	if err := json.NewDecoder(r.Body).Decode(&rel); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if rel.Arquivo != "" {
		existente.Arquivo = rel.Arquivo
	}
	if !rel.DataConclusao.IsZero() {
		existente.DataConclusao = rel.DataConclusao
		existente.DataVencimento = CalcularVencimento(existente.Tipo, rel.DataConclusao)
	}

	if err := h.DB.Save(existente).Error; err != nil {
		http.Error(w, "erro ao atualizar relatório", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(montarDTO(*existente, time.Now()))
}

// Arquivar marca o relatório como excluído pelo ator (GP).
func (h *Handler) Arquivar(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoArquivar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	err := h.Repository.Arquivar(h.DB, uint(id), atorID, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "relatório não encontrado", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "erro ao arquivar relatório", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("relatório arquivado"))
}

// ExcluirDefinitivo remove do banco um relatório já arquivado (GP).
func (h *Handler) ExcluirDefinitivo(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoRelatorio, permissao.AcaoExcluirDefinitivo) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	err := h.Repository.ExcluirDefinitivo(h.DB, uint(id))
	switch {
	case errors.Is(err, ErrNaoArquivado):
		apperr.Escrever(w, apperr.Novo(apperr.Fluxo, "RELATORIO_ATIVO", err.Error()))
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		http.Error(w, "relatório não encontrado", http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, "erro ao excluir relatório", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
