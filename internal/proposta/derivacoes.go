package proposta

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Derivações temporais calculadas na leitura; nada é materializado.

// UltimaAnualAceita devolve a proposta ANUAL aceita mais recente do CNPJ,
// ou nil se não houver. Empate de data resolve pelo maior id (ordem de
// inserção).
func UltimaAnualAceita(db *gorm.DB, cnpj string) (*Proposta, error) {
	var p Proposta
	err := db.Where("cnpj = ? AND status = ? AND tipo_contrato = ?", cnpj, StatusAceita, ContratoAnual).
		Order("data DESC").
		Order("id DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UltimaAceita devolve a proposta aceita mais recente do CNPJ, de qualquer
// tipo de contrato, ou nil se não houver.
func UltimaAceita(db *gorm.DB, cnpj string) (*Proposta, error) {
	var p Proposta
	err := db.Where("cnpj = ? AND status = ?", cnpj, StatusAceita).
		Order("data DESC").
		Order("id DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PrecisaAgendamento responde se o cliente tem contrato anual vigente sem
// nenhum agendamento posterior à proposta (qualquer status conta).
func PrecisaAgendamento(db *gorm.DB, clienteID uint, cnpj string) (bool, error) {
	ultima, err := UltimaAnualAceita(db, cnpj)
	if err != nil {
		return false, err
	}
	if ultima == nil {
		return false, nil
	}

	var n int64
	err = db.Table("agendamentos").
		Joins("JOIN unidades ON unidades.id = agendamentos.unidade_id").
		Where("unidades.cliente_id = ? AND agendamentos.data > ? AND agendamentos.deleted_at IS NULL", clienteID, ultima.Data).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// DentroDaJanelaDeRenovacao responde se a data da proposta já alcançou a
// âncora de 11 meses (aritmética de calendário, não 330 dias).
func DentroDaJanelaDeRenovacao(dataProposta, hoje time.Time) bool {
	ancora := hoje.AddDate(0, -11, 0)
	return dataProposta.Before(ancora) || mesmaData(dataProposta, ancora)
}

// AncoraDeContrato devolve a data exata de 11 meses atrás.
func AncoraDeContrato(hoje time.Time) time.Time {
	return hoje.AddDate(0, -11, 0)
}

func mesmaData(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
