package notificacao

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
)

// EnviarWebhookAlerta avisa o canal comercial que um CNPJ com histórico
// recebeu nova proposta. Falha de entrega não bloqueia o fluxo.
func EnviarWebhookAlerta(cnpj string) {
	url := os.Getenv("WEBHOOK_ALERTA_URL")
	if url == "" {
		return
	}

	payload := map[string]string{
		"mensagem": "Alerta: nova proposta registrada para CNPJ já existente",
		"cnpj":     cnpj,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("Erro ao enviar webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}
