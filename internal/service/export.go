package service

import (
	"fmt"

	"viveiro/internal/model"

	"github.com/xuri/excelize/v2"
)

const abaVendas = "Vendas"

var cabecalhoVendas = []any{"Número", "Data", "Status", "Cliente", "Forma de Pagamento", "Itens", "Total (R$)"}

// planilhaVendas renders one row per sale plus a total row at the bottom.
func planilhaVendas(vendas []model.Venda) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", abaVendas); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(abaVendas, "A1", &cabecalhoVendas); err != nil {
		return nil, err
	}
	negrito, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(abaVendas, "A1", "G1", negrito); err != nil {
		return nil, err
	}

	total := 0.0
	for i, v := range vendas {
		cliente := "-"
		if v.Cliente != nil {
			cliente = v.Cliente.Nome()
		}
		pagamento := "-"
		if v.FormaPagamento != nil {
			pagamento = *v.FormaPagamento
		}
		qtd := 0
		for _, it := range v.Itens {
			qtd += it.Quantidade
		}
		valor := v.Total.InexactFloat64()
		if v.Status == model.VendaFinalizada {
			total += valor
		}
		linha := []any{v.Numero, v.DataVenda.Format("02/01/2006 15:04"), v.Status, cliente, pagamento, qtd, valor}
		if err := f.SetSheetRow(abaVendas, fmt.Sprintf("A%d", i+2), &linha); err != nil {
			return nil, err
		}
	}

	ultima := len(vendas) + 2
	if err := f.SetCellValue(abaVendas, fmt.Sprintf("F%d", ultima), "Total finalizadas"); err != nil {
		return nil, err
	}
	if err := f.SetCellValue(abaVendas, fmt.Sprintf("G%d", ultima), total); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(abaVendas, fmt.Sprintf("F%d", ultima), fmt.Sprintf("G%d", ultima), negrito); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(abaVendas, "A", "G", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
