package utils

import (
	"fmt"
	"regexp"
	"time"
)

// Celular brasileiro: DDD + 9 + oito dígitos.
var celularRegex = regexp.MustCompile(`^\d{2}9\d{8}$`)

// ValidarCelular confere o formato de celular brasileiro (11 dígitos).
func ValidarCelular(numero string) bool {
	return celularRegex.MatchString(numero)
}

// FormatarCelular devolve "(DD) 9XXXX-XXXX" para exibição; números fora do
// padrão voltam como chegaram.
func FormatarCelular(numero string) string {
	if !ValidarCelular(numero) {
		return numero
	}
	return fmt.Sprintf("(%s) %s-%s", numero[:2], numero[2:7], numero[7:])
}

// FormatarData devolve a data no padrão brasileiro dd/mm/aaaa.
func FormatarData(t time.Time) string {
	return t.Format("02/01/2006")
}
