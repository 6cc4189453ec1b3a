package utils

import (
	"crypto/sha256"
	"regexp"
)

var apenasDigitos = regexp.MustCompile(`^\d+$`)

// ValidarCNPJ confere os 14 dígitos e os dois dígitos verificadores (módulo 11).
func ValidarCNPJ(cnpj string) bool {
	if len(cnpj) != 14 || !apenasDigitos.MatchString(cnpj) {
		return false
	}
	if todosIguais(cnpj) {
		return false
	}

	pesos1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	pesos2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	if digitoModulo11(cnpj[:12], pesos1) != int(cnpj[12]-'0') {
		return false
	}
	return digitoModulo11(cnpj[:13], pesos2) == int(cnpj[13]-'0')
}

// ValidarCPF confere os 11 dígitos e os dois dígitos verificadores (módulo 11).
func ValidarCPF(cpf string) bool {
	if len(cpf) != 11 || !apenasDigitos.MatchString(cpf) {
		return false
	}
	if todosIguais(cpf) {
		return false
	}

	if digitoCPF(cpf[:9]) != int(cpf[9]-'0') {
		return false
	}
	return digitoCPF(cpf[:10]) == int(cpf[10]-'0')
}

// CPFSintetico deriva um CPF válido e determinístico a partir de uma semente
// (e-mail da conta de serviço). Usado só para contas que não pertencem a
// pessoas físicas.
func CPFSintetico(semente string) string {
	h := sha256.Sum256([]byte(semente))
	base := make([]byte, 9)
	for i := 0; i < 9; i++ {
		base[i] = byte('0' + h[i]%10)
	}
	cpf := string(base)
	cpf += string(rune('0' + digitoCPF(cpf)))
	cpf += string(rune('0' + digitoCPF(cpf)))
	return cpf
}

func digitoModulo11(stem string, pesos []int) int {
	soma := 0
	for i, p := range pesos {
		soma += int(stem[i]-'0') * p
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

func digitoCPF(stem string) int {
	soma := 0
	peso := len(stem) + 1
	for i := 0; i < len(stem); i++ {
		soma += int(stem[i]-'0') * peso
		peso--
	}
	resto := (soma * 10) % 11
	if resto == 10 {
		return 0
	}
	return resto
}

func todosIguais(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
