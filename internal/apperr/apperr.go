// Package apperr concentra a taxonomia de erros exposta pela API.
package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Tipo string

const (
	Validacao     Tipo = "VALIDACAO"
	Autorizacao   Tipo = "AUTORIZACAO"
	Fluxo         Tipo = "FLUXO"
	NaoEncontrado Tipo = "NAO_ENCONTRADO"
	Integridade   Tipo = "INTEGRIDADE"
	Integracao    Tipo = "INTEGRACAO"
)

// Erro carrega o tipo, um código estável e a mensagem em português.
type Erro struct {
	Tipo     Tipo   `json:"tipo"`
	Codigo   string `json:"codigo"`
	Mensagem string `json:"mensagem"`
	Campo    string `json:"campo,omitempty"`
}

func (e *Erro) Error() string { return e.Mensagem }

func Novo(tipo Tipo, codigo, mensagem string) *Erro {
	return &Erro{Tipo: tipo, Codigo: codigo, Mensagem: mensagem}
}

func NovoCampo(tipo Tipo, codigo, mensagem, campo string) *Erro {
	return &Erro{Tipo: tipo, Codigo: codigo, Mensagem: mensagem, Campo: campo}
}

// Escrever serializa o erro com o status HTTP do seu tipo. Erros de
// autorização nunca revelam se o recurso existe.
func Escrever(w http.ResponseWriter, err error) {
	var e *Erro
	if !errors.As(err, &e) {
		http.Error(w, "erro interno", http.StatusInternalServerError)
		return
	}

	status := http.StatusInternalServerError
	switch e.Tipo {
	case Validacao, Fluxo:
		status = http.StatusBadRequest
	case Autorizacao:
		// mensagem genérica, sem vazar existência do recurso
		http.Error(w, "acesso negado", http.StatusForbidden)
		return
	case NaoEncontrado:
		status = http.StatusNotFound
	case Integridade:
		status = http.StatusConflict
	case Integracao:
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
