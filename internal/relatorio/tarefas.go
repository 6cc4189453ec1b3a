package relatorio

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/apperr"
	"github.com/ProphyFisicaMedica/api-gestao/internal/notificacao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/proposta"
	"github.com/ProphyFisicaMedica/api-gestao/internal/usuario"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"gorm.io/gorm"
)

// Tarefas agrupa as rotinas de relatório disparadas pela conta de
// serviço.
type Tarefas struct {
	DB     *gorm.DB
	Mailer notificacao.Mailer
}

func NewTarefas(db *gorm.DB, mailer notificacao.Mailer) *Tarefas {
	return &Tarefas{DB: db, Mailer: mailer}
}

type vinculoRelatorio struct {
	ClienteID   uint
	ClienteCNPJ string
	UnidadeID   uint
	UnidadeNome string
}

// NotificarVencimentos avisa sobre relatórios que vencem em exatamente
// trinta dias. Falha em um registro não interrompe os demais.
func (t *Tarefas) NotificarVencimentos(hoje time.Time) error {
	alvo := time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, hoje.Location()).
		AddDate(0, 0, 30)
	fim := alvo.AddDate(0, 0, 1)

	var vencendo []Relatorio
	err := t.DB.Where("excluido_em IS NULL AND data_vencimento >= ? AND data_vencimento < ?", alvo, fim).
		Find(&vencendo).Error
	if err != nil {
		return err
	}

	for _, rel := range vencendo {
		vinculo, err := t.resolverVinculo(&rel)
		if err != nil {
			log.Printf("vencimento: erro ao resolver vínculo do relatório %d: %v", rel.ID, err)
			continue
		}

		destinatarios, err := t.destinatarios(vinculo)
		if err != nil {
			log.Printf("vencimento: erro ao resolver destinatários do relatório %d: %v", rel.ID, err)
			continue
		}
		if len(destinatarios) == 0 {
			continue
		}

		assunto := "Relatório próximo do vencimento"
		corpo := fmt.Sprintf(
			"O relatório %s da unidade %s vence em %s. Providencie a renovação.",
			rel.Tipo, vinculo.UnidadeNome, utils.FormatarData(rel.DataVencimento))
		if err := t.Mailer.Enviar(destinatarios, assunto, corpo); err != nil {
			log.Printf("vencimento: erro ao notificar relatório %d: %v", rel.ID, err)
		}
	}
	return nil
}

// resolverVinculo chega ao cliente e à unidade do relatório, direto ou
// através do equipamento.
func (t *Tarefas) resolverVinculo(rel *Relatorio) (*vinculoRelatorio, error) {
	var v vinculoRelatorio
	consulta := t.DB.Table("unidades").
		Select("clientes.id AS cliente_id, clientes.cnpj AS cliente_cnpj, " +
			"unidades.id AS unidade_id, unidades.nome AS unidade_nome").
		Joins("JOIN clientes ON clientes.id = unidades.cliente_id")
	if rel.UnidadeID != nil {
		consulta = consulta.Where("unidades.id = ?", *rel.UnidadeID)
	} else {
		consulta = consulta.
			Joins("JOIN equipamentos ON equipamentos.unidade_id = unidades.id").
			Where("equipamentos.id = ?", *rel.EquipamentoID)
	}
	err := consulta.Scan(&v).Error
	if err != nil {
		return nil, err
	}
	if v.ClienteID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &v, nil
}

// destinatarios reúne os responsáveis do cliente do relatório. Gestores
// do cliente (GGC e GU) só recebem cobrança de vencimento se o contrato
// vigente do cliente é anual.
func (t *Tarefas) destinatarios(v *vinculoRelatorio) ([]string, error) {
	anualVigente, err := contratoAnualVigente(t.DB, v.ClienteCNPJ)
	if err != nil {
		return nil, err
	}

	doCliente := t.DB.Table("usuarios").
		Joins("JOIN cliente_responsaveis ON cliente_responsaveis.usuario_id = usuarios.id").
		Where("cliente_responsaveis.cliente_id = ? AND usuarios.deleted_at IS NULL", v.ClienteID)
	if !anualVigente {
		doCliente = doCliente.Where("usuarios.perfil NOT IN ?",
			[]string{permissao.PerfilGerenteGeralCliente, permissao.PerfilGerenteUnidade})
	}
	var responsaveis []usuario.Usuario
	if err := doCliente.Find(&responsaveis).Error; err != nil {
		return nil, err
	}
	emails := coletarEmails(responsaveis)

	if anualVigente {
		var gerentesUnidade []usuario.Usuario
		err = t.DB.Table("usuarios").
			Joins("JOIN unidades ON unidades.usuario_id = usuarios.id").
			Where("unidades.id = ? AND usuarios.deleted_at IS NULL", v.UnidadeID).
			Find(&gerentesUnidade).Error
		if err != nil {
			return nil, err
		}
		emails = append(emails, coletarEmails(gerentesUnidade)...)
	}

	return emails, nil
}

// contratoAnualVigente responde se a proposta aceita mais recente do
// CNPJ é anual.
func contratoAnualVigente(db *gorm.DB, cnpj string) (bool, error) {
	vigente, err := proposta.UltimaAceita(db, cnpj)
	if err != nil {
		return false, err
	}
	return vigente != nil && vigente.TipoContrato == proposta.ContratoAnual, nil
}

func coletarEmails(usuarios []usuario.Usuario) []string {
	emails := make([]string, 0, len(usuarios))
	for _, u := range usuarios {
		if u.Email == "" {
			log.Printf("usuário %d sem e-mail cadastrado, notificação ignorada", u.ID)
			continue
		}
		emails = append(emails, u.Email)
	}
	return emails
}

// HandlerNotificar expõe a varredura para o agendador externo (conta de
// serviço).
func (t *Tarefas) HandlerNotificar(w http.ResponseWriter, r *http.Request) {
	_, perfil := permissao.Ator(r)
	if !permissao.Permitido(perfil, permissao.RecursoTarefa, permissao.AcaoExecutar) {
		apperr.Escrever(w, apperr.Novo(apperr.Autorizacao, "SEM_PERMISSAO", "acesso negado"))
		return
	}

	if err := t.NotificarVencimentos(time.Now()); err != nil {
		http.Error(w, "erro ao executar varredura de vencimentos", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("varredura de vencimentos concluída"))
}
