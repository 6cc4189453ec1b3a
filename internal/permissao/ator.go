package permissao

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	CtxUsuarioID ctxKey = "usuarioID"
	CtxPerfil    ctxKey = "perfil"
)

// ComAtor grava a identidade autenticada no contexto da requisição.
func ComAtor(ctx context.Context, usuarioID uint, perfil string) context.Context {
	ctx = context.WithValue(ctx, CtxUsuarioID, usuarioID)
	return context.WithValue(ctx, CtxPerfil, perfil)
}

// Ator devolve (usuarioID, perfil) do contexto; perfil vazio se não autenticado.
func Ator(r *http.Request) (uint, string) {
	id, _ := r.Context().Value(CtxUsuarioID).(uint)
	perfil, _ := r.Context().Value(CtxPerfil).(string)
	return id, perfil
}
