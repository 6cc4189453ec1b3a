package permissao

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermitido(t *testing.T) {
	casos := []struct {
		perfil  string
		recurso Recurso
		acao    Acao
		espera  bool
	}{
		// mutação de cadastro passa pela fila, e só GP revisa
		{PerfilGerenteProphy, RecursoCliente, AcaoMutarViaOperacao, true},
		{PerfilComercial, RecursoCliente, AcaoMutarViaOperacao, true},
		{PerfilGerenteGeralCliente, RecursoCliente, AcaoMutarViaOperacao, false},
		{PerfilGerenteProphy, RecursoCliente, AcaoRevisarOperacao, true},
		{PerfilComercial, RecursoCliente, AcaoRevisarOperacao, false},

		// propostas são assunto interno
		{PerfilComercial, RecursoProposta, AcaoCriar, true},
		{PerfilGerenteUnidade, RecursoProposta, AcaoListar, false},
		{PerfilFisicoMedicoExterno, RecursoProposta, AcaoCriar, false},

		// agendamentos: FMI marca, só GP apaga
		{PerfilFisicoMedicoInterno, RecursoAgendamento, AcaoCriar, true},
		{PerfilFisicoMedicoExterno, RecursoAgendamento, AcaoCriar, false},
		{PerfilComercial, RecursoAgendamento, AcaoExcluir, false},
		{PerfilGerenteProphy, RecursoAgendamento, AcaoExcluir, true},

		// ordens de serviço: físicos só anexam andamento
		{PerfilFisicoMedicoExterno, RecursoOrdemServico, AcaoCriar, true},
		{PerfilFisicoMedicoExterno, RecursoOrdemServico, AcaoAtualizar, false},
		{PerfilFisicoMedicoExterno, RecursoOrdemServico, AcaoAtualizarAndamento, true},
		{PerfilGerenteProphy, RecursoOrdemServico, AcaoAtualizarAndamento, false},

		// relatórios: arquivar e excluir definitivo são exclusivos do GP
		{PerfilFisicoMedicoInterno, RecursoRelatorio, AcaoArquivar, false},
		{PerfilGerenteProphy, RecursoRelatorio, AcaoArquivar, true},
		{PerfilGerenteProphy, RecursoRelatorio, AcaoExcluirDefinitivo, true},
		{PerfilGerenteGeralCliente, RecursoRelatorio, AcaoVerArquivados, false},
		{PerfilFisicoMedicoExterno, RecursoRelatorio, AcaoVerArquivados, true},

		// tarefas agendadas: só a conta de serviço
		{PerfilContaServico, RecursoTarefa, AcaoExecutar, true},
		{PerfilGerenteProphy, RecursoTarefa, AcaoExecutar, false},
		{PerfilContaServico, RecursoCliente, AcaoListar, false},
	}

	for _, c := range casos {
		assert.Equal(t, c.espera, Permitido(c.perfil, c.recurso, c.acao),
			"%s %s %s", c.perfil, c.recurso, c.acao)
	}
}

func TestPermitidoRecursoDesconhecido(t *testing.T) {
	assert.False(t, Permitido(PerfilGerenteProphy, Recurso("inexistente"), AcaoListar))
}

func TestPerfisGerenciaveisPor(t *testing.T) {
	assert.Len(t, PerfisGerenciaveisPor(PerfilGerenteProphy), 6)
	assert.ElementsMatch(t,
		[]string{PerfilGerenteGeralCliente, PerfilGerenteUnidade},
		PerfisGerenciaveisPor(PerfilComercial))
	assert.Nil(t, PerfisGerenciaveisPor(PerfilGerenteUnidade))
}
