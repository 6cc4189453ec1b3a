package permissao

import (
	"net/http"
	"strconv"

	"gorm.io/gorm"
)

const (
	tamanhoPaginaPadrao = 10
	tamanhoPaginaMaximo = 100
)

// Paginar lê page e page_size da query string e devolve um scope de
// paginação. Página começa em 1.
func Paginar(r *http.Request) func(*gorm.DB) *gorm.DB {
	pagina, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if pagina < 1 {
		pagina = 1
	}
	tamanho, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if tamanho < 1 {
		tamanho = tamanhoPaginaPadrao
	}
	if tamanho > tamanhoPaginaMaximo {
		tamanho = tamanhoPaginaMaximo
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((pagina - 1) * tamanho).Limit(tamanho)
	}
}
