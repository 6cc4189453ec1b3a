package auth

import (
	"encoding/json"
	"net/http"

	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"gorm.io/gorm"
)

type loginRequest struct {
	EmailOuCPF string `json:"emailOuCpf"`
	Senha      string `json:"senha"`
}

type loginResponse struct {
	AccessToken           string `json:"access_token"`
	TokenType             string `json:"token_type"`
	ExpiresIn             int    `json:"expires_in"`
	Perfil                string `json:"perfil"`
	PrecisaRedefinirSenha bool   `json:"precisaRedefinirSenha"`
}

// POST /auth/login
func LoginHandler(db *gorm.DB) http.HandlerFunc {
	repo := usuario.NewRepository()
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}

		u, err := repo.BuscarPorEmailOuCPF(db, req.EmailOuCPF)
		if err != nil || !utils.VerificarSenha(u.Senha, req.Senha) {
			// credencial errada e usuário inexistente respondem igual
			http.Error(w, "credenciais inválidas", http.StatusUnauthorized)
			return
		}

		access, err := IssueTokensOnLogin(db, w, u.ID, u.Perfil)
		if err != nil {
			http.Error(w, "erro ao iniciar sessão", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(loginResponse{
			AccessToken:           access,
			TokenType:             "Bearer",
			ExpiresIn:             int(AccessTTL.Seconds()),
			Perfil:                u.Perfil,
			PrecisaRedefinirSenha: u.PrecisaRedefinirSenha,
		})
	}
}

type redefinirSenhaRequest struct {
	NovaSenha string `json:"novaSenha"`
}

// POST /auth/redefinir-senha — troca a senha do próprio ator e encerra o
// ciclo da senha temporária.
func RedefinirSenhaHandler(db *gorm.DB) http.HandlerFunc {
	repo := usuario.NewRepository()
	return func(w http.ResponseWriter, r *http.Request) {
		atorID, _ := permissao.Ator(r)

		var req redefinirSenhaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
		if len(req.NovaSenha) < 8 {
			http.Error(w, "a senha deve ter ao menos 8 caracteres", http.StatusBadRequest)
			return
		}

		u, err := repo.BuscarPorID(db, atorID)
		if err != nil {
			http.Error(w, "usuário não encontrado", http.StatusNotFound)
			return
		}

		hash, err := utils.HashSenha(req.NovaSenha)
		if err != nil {
			http.Error(w, "erro ao redefinir senha", http.StatusInternalServerError)
			return
		}
		u.Senha = hash
		u.PrecisaRedefinirSenha = false
		if err := db.Save(u).Error; err != nil {
			http.Error(w, "erro ao redefinir senha", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("senha redefinida com sucesso"))
	}
}
