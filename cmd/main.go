package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ProphyFisicaMedica/api-gestao/internal/agendamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/auth"
	"github.com/ProphyFisicaMedica/api-gestao/internal/cliente"
	"github.com/ProphyFisicaMedica/api-gestao/internal/equipamento"
	"github.com/ProphyFisicaMedica/api-gestao/internal/materiais"
	"github.com/ProphyFisicaMedica/api-gestao/internal/modalidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/notificacao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/operacao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/ordemservico"
	"github.com/ProphyFisicaMedica/api-gestao/internal/proposta"
	"github.com/ProphyFisicaMedica/api-gestao/internal/relatorio"
	"github.com/ProphyFisicaMedica/api-gestao/internal/unidade"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils/db"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Arquivo .env não encontrado, usando variáveis do ambiente")
	}

	conexao, err := db.GetDB()
	if err != nil {
		log.Fatal("Erro ao conectar no banco:", err)
	}

	// AutoMigrate para todos os modelos
	if err := conexao.AutoMigrate(
		&usuario.Usuario{},
		&modalidade.Modalidade{},
		&cliente.Cliente{},
		&unidade.Unidade{},
		&equipamento.Equipamento{},
		&equipamento.Acessorio{},
		&proposta.Proposta{},
		&agendamento.Agendamento{},
		&ordemservico.OrdemServico{},
		&relatorio.Relatorio{},
		&operacao.OperacaoCliente{},
		&operacao.OperacaoUnidade{},
		&operacao.OperacaoEquipamento{},
		&materiais.Material{},
		&auth.RefreshToken{},
	); err != nil {
		log.Fatal("Erro no AutoMigrate:", err)
	}

	mailer := notificacao.NewSMTPMailer()

	// Handlers
	usuarioHandler := usuario.NewHandler(conexao)
	modalidadeHandler := modalidade.NewHandler(conexao)
	clienteHandler := cliente.NewHandler(conexao)
	unidadeHandler := unidade.NewHandler(conexao)
	equipamentoHandler := equipamento.NewHandler(conexao)
	propostaHandler := proposta.NewHandler(conexao)
	agendamentoHandler := agendamento.NewHandler(conexao)
	ordemHandler := ordemservico.NewHandler(conexao)
	relatorioHandler := relatorio.NewHandler(conexao)
	operacaoHandler := operacao.NewHandler(conexao)
	materiaisHandler := materiais.NewHandler(conexao)

	tarefasAgendamento := agendamento.NewTarefas(conexao)
	tarefasRelatorio := relatorio.NewTarefas(conexao, mailer)
	tarefasProposta := proposta.NewTarefas(conexao, mailer)

	// Router
	r := mux.NewRouter()

	// Rotas públicas de autenticação
	r.HandleFunc("/auth/login", auth.LoginHandler(conexao)).Methods("POST")
	r.HandleFunc("/auth/refresh", auth.RefreshHTTPHandler(conexao)).Methods("POST")
	r.HandleFunc("/auth/logout", auth.LogoutHTTPHandler(conexao)).Methods("POST")

	// Rotas autenticadas
	api := r.NewRoute().Subrouter()
	api.Use(auth.MiddlewareAutenticacao)

	api.HandleFunc("/auth/redefinir-senha", auth.RedefinirSenhaHandler(conexao)).Methods("POST")

	// Rotas de usuários
	api.HandleFunc("/usuarios", usuarioHandler.Criar).Methods("POST")
	api.HandleFunc("/usuarios", usuarioHandler.Listar).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/usuarios/{id}", usuarioHandler.Deletar).Methods("DELETE")

	// Rotas de modalidades
	api.HandleFunc("/modalidades", modalidadeHandler.Criar).Methods("POST")
	api.HandleFunc("/modalidades", modalidadeHandler.Listar).Methods("GET")
	api.HandleFunc("/modalidades/{id}", modalidadeHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/modalidades/{id}", modalidadeHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/modalidades/{id}", modalidadeHandler.Deletar).Methods("DELETE")

	// Rotas de clientes: leitura direta, mutação pela fila de operações
	api.HandleFunc("/clientes", clienteHandler.Listar).Methods("GET")
	api.HandleFunc("/clientes/operacoes", operacaoHandler.CriarCliente).Methods("POST")
	api.HandleFunc("/clientes/operacoes", operacaoHandler.ListarClientes).Methods("GET")
	api.HandleFunc("/clientes/operacoes/{id}/status", operacaoHandler.RevisarCliente).Methods("PATCH")
	api.HandleFunc("/clientes/{id}", clienteHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/clientes/{id}/responsaveis", clienteHandler.AtribuirResponsavel).Methods("POST")
	api.HandleFunc("/clientes/{id}/responsaveis/{usuarioId}", clienteHandler.RemoverResponsavel).Methods("DELETE")

	// Rotas de unidades
	api.HandleFunc("/unidades", unidadeHandler.Listar).Methods("GET")
	api.HandleFunc("/unidades/operacoes", operacaoHandler.CriarUnidade).Methods("POST")
	api.HandleFunc("/unidades/operacoes", operacaoHandler.ListarUnidades).Methods("GET")
	api.HandleFunc("/unidades/operacoes/{id}/status", operacaoHandler.RevisarUnidade).Methods("PATCH")
	api.HandleFunc("/unidades/{id}", unidadeHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/unidades/{id}/gerente", unidadeHandler.AtribuirGerente).Methods("POST")

	// Rotas de equipamentos
	api.HandleFunc("/equipamentos", equipamentoHandler.Listar).Methods("GET")
	api.HandleFunc("/equipamentos/operacoes", operacaoHandler.CriarEquipamento).Methods("POST")
	api.HandleFunc("/equipamentos/operacoes", operacaoHandler.ListarEquipamentos).Methods("GET")
	api.HandleFunc("/equipamentos/operacoes/{id}/status", operacaoHandler.RevisarEquipamento).Methods("PATCH")
	api.HandleFunc("/equipamentos/{id}", equipamentoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/equipamentos/{id}/acessorios", equipamentoHandler.CriarAcessorio).Methods("POST")
	api.HandleFunc("/equipamentos/{id}/acessorios/{acessorioId}", equipamentoHandler.DeletarAcessorio).Methods("DELETE")

	// Rotas de propostas
	api.HandleFunc("/propostas", propostaHandler.Criar).Methods("POST")
	api.HandleFunc("/propostas", propostaHandler.Listar).Methods("GET")
	api.HandleFunc("/propostas/{id}", propostaHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/propostas/{id}", propostaHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/propostas/{id}", propostaHandler.Deletar).Methods("DELETE")

	// Rotas de agendamentos
	api.HandleFunc("/agendamentos", agendamentoHandler.Criar).Methods("POST")
	api.HandleFunc("/agendamentos", agendamentoHandler.Listar).Methods("GET")
	api.HandleFunc("/agendamentos/{id}", agendamentoHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/agendamentos/{id}", agendamentoHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/agendamentos/{id}", agendamentoHandler.Deletar).Methods("DELETE")

	// Rotas de ordens de serviço
	api.HandleFunc("/ordens-servico", ordemHandler.Criar).Methods("POST")
	api.HandleFunc("/ordens-servico", ordemHandler.Listar).Methods("GET")
	api.HandleFunc("/ordens-servico/{id}", ordemHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/ordens-servico/{id}", ordemHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/ordens-servico/{id}/andamentos", ordemHandler.AdicionarAndamento).Methods("POST")
	api.HandleFunc("/ordens-servico/{id}/pdf", ordemHandler.BaixarPDF).Methods("GET")

	// Rotas de relatórios
	api.HandleFunc("/relatorios", relatorioHandler.Criar).Methods("POST")
	api.HandleFunc("/relatorios", relatorioHandler.Listar).Methods("GET")
	api.HandleFunc("/relatorios/{id}", relatorioHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/relatorios/{id}", relatorioHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/relatorios/{id}/arquivar", relatorioHandler.Arquivar).Methods("POST")
	api.HandleFunc("/relatorios/{id}", relatorioHandler.ExcluirDefinitivo).Methods("DELETE")

	// Rotas de materiais
	api.HandleFunc("/materiais", materiaisHandler.Criar).Methods("POST")
	api.HandleFunc("/materiais", materiaisHandler.Listar).Methods("GET")
	api.HandleFunc("/materiais/{id}", materiaisHandler.BuscarPorID).Methods("GET")
	api.HandleFunc("/materiais/{id}", materiaisHandler.Atualizar).Methods("PUT")
	api.HandleFunc("/materiais/{id}", materiaisHandler.Deletar).Methods("DELETE")

	// Rotas de tarefas: só a conta de serviço do agendador externo
	tarefas := r.NewRoute().Subrouter()
	tarefas.Use(auth.MiddlewareContaServico(conexao))
	tarefas.HandleFunc("/agendamentos/tarefas/atualizar-vencidos", tarefasAgendamento.HandlerAtualizarVencidos).Methods("POST")
	tarefas.HandleFunc("/relatorios/tarefas/notificar-vencimentos", tarefasRelatorio.HandlerNotificar).Methods("POST")
	tarefas.HandleFunc("/propostas/tarefas/notificar-contratos", tarefasProposta.HandlerNotificar).Methods("POST")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{os.Getenv("CORS_ORIGIN")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	porta := os.Getenv("PORT")
	if porta == "" {
		porta = "8080"
	}

	// Inicia servidor
	fmt.Println("Servidor rodando em http://localhost:" + porta)
	log.Fatal(http.ListenAndServe(":"+porta, c.Handler(r)))
}
