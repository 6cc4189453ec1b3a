package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidarCNPJ(t *testing.T) {
	validos := []string{
		"90217758000179",
		"11222333000181",
		"45556667000103",
		"04052375000156",
	}
	for _, cnpj := range validos {
		assert.True(t, ValidarCNPJ(cnpj), cnpj)
	}

	invalidos := []string{
		"",
		"90217758000178",  // dígito verificador errado
		"9021775800017",   // curto
		"902177580001790", // longo
		"9021775800017a",  // não numérico
		"11111111111111",  // todos iguais
	}
	for _, cnpj := range invalidos {
		assert.False(t, ValidarCNPJ(cnpj), cnpj)
	}
}

func TestValidarCPF(t *testing.T) {
	assert.True(t, ValidarCPF("52998224725"))
	assert.True(t, ValidarCPF("12345678909"))
	assert.True(t, ValidarCPF("11144477735"))

	assert.False(t, ValidarCPF("52998224724")) // dígito verificador errado
	assert.False(t, ValidarCPF("5299822472"))
	assert.False(t, ValidarCPF("00000000000"))
	assert.False(t, ValidarCPF("5299822472x"))
}

func TestCPFSintetico(t *testing.T) {
	cpf := CPFSintetico("agendador@prophy.example")
	require.Len(t, cpf, 11)
	assert.True(t, ValidarCPF(cpf))

	// determinístico para a mesma semente
	assert.Equal(t, cpf, CPFSintetico("agendador@prophy.example"))
	assert.NotEqual(t, cpf, CPFSintetico("outro@prophy.example"))
}

func TestValidarCelular(t *testing.T) {
	assert.True(t, ValidarCelular("11987654321"))
	assert.False(t, ValidarCelular("1187654321"))   // sem nono dígito
	assert.False(t, ValidarCelular("119876543210")) // longo
	assert.False(t, ValidarCelular("11887654321"))  // terceiro dígito não é 9
}

func TestFormatarCelular(t *testing.T) {
	assert.Equal(t, "(11) 98765-4321", FormatarCelular("11987654321"))
	// fora do padrão volta intacto
	assert.Equal(t, "1187654321", FormatarCelular("1187654321"))
}
