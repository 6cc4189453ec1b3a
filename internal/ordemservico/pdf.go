package ordemservico

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ProphyFisicaMedica/api-gestao/internal/permissao"
	"github.com/ProphyFisicaMedica/api-gestao/internal/utils"

	"github.com/gorilla/mux"
	"github.com/jung-kurt/gofpdf"
)

// dadosImpressao reúne tudo que o documento exibe além da própria ordem.
type dadosImpressao struct {
	ClienteNome     string
	ClienteCNPJ     string
	UnidadeNome     string
	UnidadeEndereco string
	UnidadeCidade   string
	UnidadeUF       string
	DataVisita      time.Time
	NomeContato     string
	TelefoneContato string
}

type linhaEquipamento struct {
	Modalidade  string
	Fabricante  string
	Modelo      string
	NumeroSerie string
}

// GerarPDF monta o comprovante da visita em A4 e escreve no writer.
func GerarPDF(w io.Writer, os *OrdemServico, dados dadosImpressao, equipamentos []linhaEquipamento) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 8, tr("Prophy Física Médica"), "", 1, "R", false, 0, "")
		pdf.Line(10, 18, 200, 18)
		pdf.Ln(4)
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Ordem de Serviço nº ")+strconv.Itoa(int(os.ID)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	linha := func(rotulo, valor string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(45, 7, tr(rotulo), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(145, 7, tr(valor), "1", 1, "L", false, 0, "")
	}
	linha("Cliente", dados.ClienteNome)
	linha("CNPJ", dados.ClienteCNPJ)
	linha("Unidade", dados.UnidadeNome)
	linha("Endereço", dados.UnidadeEndereco+" - "+dados.UnidadeCidade+"/"+dados.UnidadeUF)
	linha("Data da visita", utils.FormatarData(dados.DataVisita))
	linha("Contato", dados.NomeContato+" "+utils.FormatarCelular(dados.TelefoneContato))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, tr("Assunto"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, tr(os.Assunto), "", "L", false)
	pdf.Ln(2)

	if len(equipamentos) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Equipamentos atendidos"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(50, 7, tr("Modalidade"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, tr("Fabricante"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, tr("Modelo"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, tr("Nº de série"), "1", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, e := range equipamentos {
			pdf.CellFormat(50, 7, tr(e.Modalidade), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 7, tr(e.Fabricante), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 7, tr(e.Modelo), "1", 0, "L", false, 0, "")
			pdf.CellFormat(45, 7, tr(e.NumeroSerie), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if os.Descricao != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Descrição"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(os.Descricao), "", "L", false)
		pdf.Ln(2)
	}

	if len(os.Atualizacoes) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Andamentos"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for i, a := range os.Atualizacoes {
			pdf.MultiCell(0, 6, tr(strconv.Itoa(i+1)+". "+a), "", "L", false)
		}
		pdf.Ln(2)
	}

	if os.Conclusao != "" {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, tr("Conclusão"), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(os.Conclusao), "", "L", false)
	}

	return pdf.Output(w)
}

// BaixarPDF devolve o comprovante da ordem em PDF, dentro do escopo.
func (h *Handler) BaixarPDF(w http.ResponseWriter, r *http.Request) {
	atorID, perfil := permissao.Ator(r)
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var os OrdemServico
	err := h.escopo(h.DB, perfil, atorID).
		Preload("Equipamentos.Modalidade").
		First(&os, "ordens_servico.id = ?", id).Error
	if err != nil {
		http.Error(w, "ordem de serviço não encontrada", http.StatusNotFound)
		return
	}

	ag, err := h.Repository.AgendamentoDe(h.DB, os.ID)
	if err != nil {
		http.Error(w, "agendamento da ordem não encontrado", http.StatusInternalServerError)
		return
	}

	var dados dadosImpressao
	err = h.DB.Table("unidades").
		Select("clientes.nome AS cliente_nome, clientes.cnpj AS cliente_cnpj, "+
			"unidades.nome AS unidade_nome, unidades.endereco AS unidade_endereco, "+
			"unidades.cidade AS unidade_cidade, unidades.uf AS unidade_uf").
		Joins("JOIN clientes ON clientes.id = unidades.cliente_id").
		Where("unidades.id = ?", ag.UnidadeID).
		Scan(&dados).Error
	if err != nil {
		http.Error(w, "erro ao montar documento", http.StatusInternalServerError)
		return
	}
	dados.DataVisita = ag.Data
	dados.NomeContato = ag.NomeContato
	dados.TelefoneContato = ag.TelefoneContato

	equipamentos := make([]linhaEquipamento, 0, len(os.Equipamentos))
	for _, e := range os.Equipamentos {
		equipamentos = append(equipamentos, linhaEquipamento{
			Modalidade:  e.Modalidade.Nome,
			Fabricante:  e.Fabricante,
			Modelo:      e.Modelo,
			NumeroSerie: e.NumeroSerie,
		})
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=ordem-servico-"+strconv.Itoa(id)+".pdf")
	if err := GerarPDF(w, &os, dados, equipamentos); err != nil {
		http.Error(w, "erro ao gerar PDF", http.StatusInternalServerError)
	}
}
