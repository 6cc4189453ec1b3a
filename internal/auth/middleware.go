package auth

import (
	"net/http"
	"strings"

	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
)

// MiddlewareAutenticacao aceita o access token no cookie ou no header
// Authorization e injeta o ator no contexto.
func MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		raw := ""
		if c, err := r.Cookie(AccessCookie); err == nil {
			raw = c.Value
		}
		if raw == "" {
			h := r.Header.Get("Authorization")
			if strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if raw == "" {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}

		claims, err := ParseAndValidate(raw)
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}

		ctx := permissao.ComAtor(r.Context(), claims.UserID, claims.Perfil)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
