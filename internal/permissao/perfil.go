// Package permissao centraliza os perfis de acesso, a tabela de capacidades
// e os escopos de visibilidade aplicados às consultas.
package permissao

// Perfis de acesso.
const (
	PerfilGerenteProphy       = "GP"  // Gerente Prophy
	PerfilComercial           = "C"   // Comercial
	PerfilGerenteGeralCliente = "GGC" // Gerente Geral de Cliente
	PerfilGerenteUnidade      = "GU"  // Gerente de Unidade
	PerfilFisicoMedicoInterno = "FMI" // Físico Médico Interno
	PerfilFisicoMedicoExterno = "FME" // Físico Médico Externo
	PerfilContaServico        = "SA"  // Conta de serviço (agendador externo)
)

// PerfilValido confere se a sigla é um dos sete perfis.
func PerfilValido(p string) bool {
	switch p {
	case PerfilGerenteProphy, PerfilComercial, PerfilGerenteGeralCliente,
		PerfilGerenteUnidade, PerfilFisicoMedicoInterno,
		PerfilFisicoMedicoExterno, PerfilContaServico:
		return true
	}
	return false
}
