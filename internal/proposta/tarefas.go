package proposta

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/notificacao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"gorm.io/gorm"
)

// Tarefas agrupa as rotinas de contrato disparadas pela conta de
// serviço. O agendador externo chama o endpoint uma vez por dia.
type Tarefas struct {
	DB     *gorm.DB
	Mailer notificacao.Mailer
}

func NewTarefas(db *gorm.DB, mailer notificacao.Mailer) *Tarefas {
	return &Tarefas{DB: db, Mailer: mailer}
}

// NotificarContratos varre a âncora de 11 meses e dispara os avisos de
// renovação e de resgate. Falha em um registro não interrompe os demais.
func (t *Tarefas) NotificarContratos(hoje time.Time) error {
	ancora := AncoraDeContrato(hoje)
	inicio := time.Date(ancora.Year(), ancora.Month(), ancora.Day(), 0, 0, 0, 0, ancora.Location())
	fim := inicio.AddDate(0, 0, 1)

	if err := t.notificarRenovacoes(inicio, fim); err != nil {
		return err
	}
	return t.notificarResgates(inicio, fim)
}

// notificarRenovacoes avisa sobre contratos anuais que completam 11
// meses hoje: a proposta aceita da âncora precisa ainda ser a vigente.
func (t *Tarefas) notificarRenovacoes(inicio, fim time.Time) error {
	var candidatas []Proposta
	err := t.DB.Where("status = ? AND tipo_contrato = ? AND data >= ? AND data < ?",
		StatusAceita, ContratoAnual, inicio, fim).
		Find(&candidatas).Error
	if err != nil {
		return err
	}

	for _, p := range candidatas {
		vigente, err := UltimaAnualAceita(t.DB, p.CNPJ)
		if err != nil {
			log.Printf("renovação: erro ao consultar vigência do CNPJ %s: %v", p.CNPJ, err)
			continue
		}
		if vigente == nil || vigente.ID != p.ID {
			continue
		}

		destinatarios, err := t.emailsDoCliente(p.CNPJ, []string{
			permissao.PerfilGerenteProphy, permissao.PerfilComercial, permissao.PerfilGerenteGeralCliente,
		})
		if err != nil {
			log.Printf("renovação: erro ao resolver destinatários do CNPJ %s: %v", p.CNPJ, err)
			continue
		}
		if len(destinatarios) == 0 {
			continue
		}

		assunto := "Contrato anual próximo da renovação"
		corpo := fmt.Sprintf(
			"O contrato anual do CNPJ %s, firmado em %s, completa 11 meses hoje. Inicie a renovação.",
			p.CNPJ, utils.FormatarData(p.Data))
		if err := t.Mailer.Enviar(destinatarios, assunto, corpo); err != nil {
			log.Printf("renovação: erro ao notificar CNPJ %s: %v", p.CNPJ, err)
		}
	}
	return nil
}

// notificarResgates avisa os responsáveis comerciais do cliente sobre
// propostas rejeitadas há 11 meses sem tentativa posterior em aberto ou
// aceita.
func (t *Tarefas) notificarResgates(inicio, fim time.Time) error {
	var rejeitadas []Proposta
	err := t.DB.Where("status = ? AND data >= ? AND data < ?", StatusRejeitada, inicio, fim).
		Find(&rejeitadas).Error
	if err != nil {
		return err
	}

	for _, p := range rejeitadas {
		var posteriores int64
		err := t.DB.Model(&Proposta{}).
			Where("cnpj = ? AND data > ? AND status IN ?", p.CNPJ, p.Data,
				[]string{StatusPendente, StatusAceita}).
			Count(&posteriores).Error
		if err != nil {
			log.Printf("resgate: erro ao consultar histórico do CNPJ %s: %v", p.CNPJ, err)
			continue
		}
		if posteriores > 0 {
			continue
		}

		destinatarios, err := t.emailsDoCliente(p.CNPJ, []string{permissao.PerfilComercial})
		if err != nil {
			log.Printf("resgate: erro ao resolver destinatários do CNPJ %s: %v", p.CNPJ, err)
			continue
		}
		if len(destinatarios) == 0 {
			continue
		}

		assunto := "Oportunidade de resgate de proposta"
		corpo := fmt.Sprintf(
			"A proposta do CNPJ %s foi rejeitada em %s e não houve nova tentativa desde então. Considere um novo contato.",
			p.CNPJ, utils.FormatarData(p.Data))
		if err := t.Mailer.Enviar(destinatarios, assunto, corpo); err != nil {
			log.Printf("resgate: erro ao notificar CNPJ %s: %v", p.CNPJ, err)
		}
	}
	return nil
}

// emailsDoCliente resolve os responsáveis do cliente do CNPJ com os
// perfis dados. Proposta de CNPJ sem cliente cadastrado não tem a quem
// avisar.
func (t *Tarefas) emailsDoCliente(cnpj string, perfis []string) ([]string, error) {
	var usuarios []usuario.Usuario
	err := t.DB.Table("usuarios").
		Joins("JOIN cliente_responsaveis ON cliente_responsaveis.usuario_id = usuarios.id").
		Joins("JOIN clientes ON clientes.id = cliente_responsaveis.cliente_id").
		Where("clientes.cnpj = ? AND usuarios.perfil IN ? AND usuarios.deleted_at IS NULL", cnpj, perfis).
		Find(&usuarios).Error
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(usuarios))
	for _, u := range usuarios {
		if u.Email == "" {
			log.Printf("usuário %d sem e-mail cadastrado, notificação ignorada", u.ID)
			continue
		}
		emails = append(emails, u.Email)
	}
	return emails, nil
}

// HandlerNotificar expõe a varredura para o agendador externo (conta de
// serviço).
func (t *Tarefas) HandlerNotificar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoTarefa, permissao.AcaoExecutar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	if err := t.NotificarContratos(time.Now()); err != nil {
		http.Error(w, "erro ao executar varredura de contratos", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("varredura de contratos concluída"))
}
