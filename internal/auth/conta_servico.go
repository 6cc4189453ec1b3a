package auth

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

type googleClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var googleJWKS *keyfunc.JWKS

func ensureGoogleJWKS() error {
	if googleJWKS != nil {
		return nil
	}
	var err error
	googleJWKS, err = keyfunc.Get(googleJWKSURL, keyfunc.Options{
		RefreshInterval: time.Hour,
	})
	return err
}

func issuerValido(iss string) bool {
	return iss == "accounts.google.com" || iss == "https://accounts.google.com"
}

// MiddlewareContaServico autentica o agendador externo por ID token do
// Google e injeta no contexto o usuário de serviço correspondente,
// criado sob demanda no primeiro acesso.
func MiddlewareContaServico(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "Token ausente", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(h, "Bearer ")

			if err := ensureGoogleJWKS(); err != nil {
				http.Error(w, "JWKS indisponível", http.StatusInternalServerError)
				return
			}

			var claims googleClaims
			tok, err := jwt.ParseWithClaims(raw, &claims, googleJWKS.Keyfunc,
				jwt.WithAudience(os.Getenv("SA_AUDIENCE")),
			)
			if err != nil || !tok.Valid || !issuerValido(claims.Issuer) {
				http.Error(w, "Token inválido", http.StatusUnauthorized)
				return
			}

			sa, err := contaDeServico(db, claims.Email)
			if err != nil {
				http.Error(w, "erro ao resolver conta de serviço", http.StatusInternalServerError)
				return
			}

			ctx := permissao.ComAtor(r.Context(), sa.ID, permissao.PerfilContaServico)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// contaDeServico busca ou cria o usuário SA do e-mail autenticado. O CPF
// sintético só existe para satisfazer a unicidade do cadastro.
func contaDeServico(db *gorm.DB, email string) (*usuario.Usuario, error) {
	var sa usuario.Usuario
	err := db.Where("email = ? AND perfil = ?", email, permissao.PerfilContaServico).
		First(&sa).Error
	if err == nil {
		return &sa, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sa = usuario.Usuario{
		Nome:   "Conta de Serviço",
		CPF:    utils.CPFSintetico(email),
		Email:  email,
		Perfil: permissao.PerfilContaServico,
	}
	if err := db.Create(&sa).Error; err != nil {
		return nil, err
	}
	return &sa, nil
}
