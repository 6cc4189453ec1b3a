package permissao

type Recurso string
type Acao string

const (
	RecursoCliente      Recurso = "cliente"
	RecursoUnidade      Recurso = "unidade"
	RecursoEquipamento  Recurso = "equipamento"
	RecursoProposta     Recurso = "proposta"
	RecursoAgendamento  Recurso = "agendamento"
	RecursoOrdemServico Recurso = "ordem-servico"
	RecursoRelatorio    Recurso = "relatorio"
	RecursoMaterial     Recurso = "material"
	RecursoUsuario      Recurso = "usuario"
	RecursoTarefa       Recurso = "tarefa"
)

const (
	AcaoListar             Acao = "listar"
	AcaoCriar              Acao = "criar"
	AcaoAtualizar          Acao = "atualizar"
	AcaoExcluir            Acao = "excluir"
	AcaoMutarViaOperacao   Acao = "mutar-via-operacao"
	AcaoRevisarOperacao    Acao = "revisar-operacao"
	AcaoAtualizarAndamento Acao = "atualizar-andamento"
	AcaoArquivar           Acao = "arquivar"
	AcaoExcluirDefinitivo  Acao = "excluir-definitivo"
	AcaoVerArquivados      Acao = "ver-arquivados"
	AcaoExecutar           Acao = "executar"
)

var todosHumanos = []string{
	PerfilGerenteProphy, PerfilComercial, PerfilGerenteGeralCliente,
	PerfilGerenteUnidade, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno,
}

// matriz é a tabela de capacidades. Escopo de visibilidade ("próprios")
// é responsabilidade dos escopos em escopo.go, não desta tabela.
var matriz = map[Recurso]map[Acao][]string{
	RecursoCliente: {
		AcaoListar:           todosHumanos,
		AcaoMutarViaOperacao: {PerfilGerenteProphy, PerfilComercial},
		AcaoRevisarOperacao:  {PerfilGerenteProphy},
	},
	RecursoUnidade: {
		AcaoListar:           todosHumanos,
		AcaoMutarViaOperacao: {PerfilGerenteProphy, PerfilComercial},
		AcaoRevisarOperacao:  {PerfilGerenteProphy},
	},
	RecursoEquipamento: {
		AcaoListar:           todosHumanos,
		AcaoMutarViaOperacao: {PerfilGerenteProphy, PerfilComercial},
		AcaoRevisarOperacao:  {PerfilGerenteProphy},
	},
	RecursoProposta: {
		AcaoListar:    {PerfilGerenteProphy, PerfilComercial},
		AcaoCriar:     {PerfilGerenteProphy, PerfilComercial},
		AcaoAtualizar: {PerfilGerenteProphy, PerfilComercial},
		AcaoExcluir:   {PerfilGerenteProphy, PerfilComercial},
	},
	RecursoAgendamento: {
		AcaoListar:    todosHumanos,
		AcaoCriar:     {PerfilGerenteProphy, PerfilComercial, PerfilFisicoMedicoInterno},
		AcaoAtualizar: {PerfilGerenteProphy, PerfilComercial, PerfilFisicoMedicoInterno},
		AcaoExcluir:   {PerfilGerenteProphy},
	},
	RecursoOrdemServico: {
		AcaoListar:             todosHumanos,
		AcaoCriar:              {PerfilGerenteProphy, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno},
		AcaoAtualizar:          {PerfilGerenteProphy},
		AcaoAtualizarAndamento: {PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno},
	},
	RecursoRelatorio: {
		AcaoListar:            todosHumanos,
		AcaoCriar:             {PerfilGerenteProphy, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno},
		AcaoAtualizar:         {PerfilGerenteProphy, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno},
		AcaoArquivar:          {PerfilGerenteProphy},
		AcaoExcluirDefinitivo: {PerfilGerenteProphy},
		AcaoVerArquivados:     {PerfilGerenteProphy, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno},
	},
	RecursoMaterial: {
		AcaoListar:    todosHumanos,
		AcaoCriar:     {PerfilGerenteProphy},
		AcaoAtualizar: {PerfilGerenteProphy},
		AcaoExcluir:   {PerfilGerenteProphy},
	},
	RecursoUsuario: {
		AcaoListar:    {PerfilGerenteProphy, PerfilComercial},
		AcaoCriar:     {PerfilGerenteProphy, PerfilComercial},
		AcaoAtualizar: {PerfilGerenteProphy, PerfilComercial},
		AcaoExcluir:   {PerfilGerenteProphy},
	},
	RecursoTarefa: {
		AcaoExecutar: {PerfilContaServico},
	},
}

// Permitido responde se o perfil pode executar a ação sobre o recurso.
func Permitido(perfil string, r Recurso, a Acao) bool {
	acoes, ok := matriz[r]
	if !ok {
		return false
	}
	for _, p := range acoes[a] {
		if p == perfil {
			return true
		}
	}
	return false
}

// PerfisGerenciaveisPor lista quais perfis o ator pode criar/atualizar na
// gestão de usuários: GP gerencia todos, Comercial só GGC e GU.
func PerfisGerenciaveisPor(perfil string) []string {
	switch perfil {
	case PerfilGerenteProphy:
		return []string{
			PerfilGerenteProphy, PerfilComercial, PerfilGerenteGeralCliente,
			PerfilGerenteUnidade, PerfilFisicoMedicoInterno, PerfilFisicoMedicoExterno,
		}
	case PerfilComercial:
		return []string{PerfilGerenteGeralCliente, PerfilGerenteUnidade}
	}
	return nil
}
