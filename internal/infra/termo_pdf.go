package infra

import (
	"fmt"

	"viveiro/internal/model"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	corMarrom = &props.Color{Red: 109, Green: 76, Blue: 65}
	corCreme  = &props.Color{Red: 248, Green: 244, Blue: 227}
	corBranco = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// Empresa is the letterhead printed on generated documents.
type Empresa struct {
	Nome     string
	Endereco string
	Cidade   string
	CEP      string
	Telefone string
	Email    string
}

const textoTermo = "Declaro, para os devidos fins, que os produtos listados acima foram inspecionados " +
	"no ato da compra e se encontram em plenas condições de sanidade e vigor, de acordo com as " +
	"informações fornecidas e as normas de qualidade do %s. O cliente é responsável por seguir as " +
	"instruções de plantio e cuidado para garantir o desenvolvimento saudável das plantas."

// RenderTermoConformidade builds the A4 compliance term for a sale.
// venda must have Itens (with Produto and Lote) and Cliente preloaded.
func RenderTermoConformidade(emp Empresa, venda *model.Venda) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Termo de Conformidade de Produtos", true).
		WithAuthor(emp.Nome, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(cabecalho(emp)...)
	m.AddRows(line.NewRow(4, props.Line{Color: corMarrom, Thickness: 0.4}))
	m.AddRows(text.NewRow(12, "Termo de Conformidade de Produtos", props.Text{
		Size: 14, Style: fontstyle.Bold, Align: align.Center, Top: 3,
	}))
	m.AddRows(blocoCliente(venda)...)
	m.AddRows(row.New(4))
	m.AddRows(cabecalhoTabela())
	m.AddRows(linhasTabela(venda.Itens)...)
	m.AddRows(row.New(4))
	m.AddRows(rodape(emp, venda)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("termo: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func cabecalho(emp Empresa) []core.Row {
	center := func(s string, size float64, style fontstyle.Type) core.Row {
		return text.NewRow(size/2+2, s, props.Text{Size: size, Style: style, Align: align.Center})
	}
	return []core.Row{
		center(emp.Nome, 18, fontstyle.Bold),
		center(emp.Endereco, 10, fontstyle.Normal),
		center(fmt.Sprintf("%s, CEP %s", emp.Cidade, emp.CEP), 10, fontstyle.Normal),
		center("Fone: "+emp.Telefone, 10, fontstyle.Normal),
		center("E-mail: "+emp.Email, 10, fontstyle.Normal),
	}
}

func blocoCliente(v *model.Venda) []core.Row {
	campo := func(rotulo, valor string) core.Row {
		return row.New(6).Add(
			col.New(3).Add(text.New(rotulo, props.Text{Style: fontstyle.Bold})),
			col.New(9).Add(text.New(valor)),
		)
	}
	var rows []core.Row
	if c := v.Cliente; c != nil {
		rows = append(rows,
			campo("Cliente:", naoVazio(c.Nome(), "Não informado")),
			campo("Documento:", c.CPFCNPJ),
			campo("Endereço:", fmt.Sprintf("%s, %s - %s", deref(c.Endereco), deref(c.Cidade), deref(c.Estado))),
		)
	} else {
		rows = append(rows, campo("Cliente:", "Cliente não especificado"))
	}
	return append(rows,
		campo("Venda:", fmt.Sprintf("#%d", v.Numero)),
		campo("Data da Venda:", v.DataVenda.Format("02/01/2006")),
	)
}

var colunasTabela = []struct {
	titulo string
	size   int
	al     align.Type
}{
	{"ID", 1, align.Center},
	{"Produto", 4, align.Left},
	{"Lote", 2, align.Center},
	{"Quantidade", 1, align.Center},
	{"Preço Unitário", 2, align.Right},
	{"Subtotal", 2, align.Right},
}

func cabecalhoTabela() core.Row {
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: corMarrom})
	for _, c := range colunasTabela {
		r.Add(col.New(c.size).Add(text.New(c.titulo, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: c.al, Color: corBranco, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func linhasTabela(itens []model.ItemVenda) []core.Row {
	rows := make([]core.Row, 0, len(itens))
	for i, it := range itens {
		produto, lote := "N/A", "N/A"
		if it.Produto != nil {
			produto = it.Produto.Variedade
		}
		if it.Lote != nil {
			lote = it.Lote.Codigo
		}
		valores := []string{
			fmt.Sprintf("%d", i+1),
			produto,
			lote,
			fmt.Sprintf("%d", it.Quantidade),
			"R$ " + it.PrecoUnitarioVendido.StringFixed(2),
			"R$ " + it.Subtotal.StringFixed(2),
		}
		r := row.New(7).WithStyle(&props.Cell{BackgroundColor: corCreme})
		for j, c := range colunasTabela {
			r.Add(col.New(c.size).Add(text.New(valores[j], props.Text{
				Size: 9, Align: c.al, Top: 1.5, Left: 1, Right: 1,
			})))
		}
		rows = append(rows, r)
	}
	return rows
}

func rodape(emp Empresa, v *model.Venda) []core.Row {
	negrito := props.Text{Style: fontstyle.Bold}
	rows := []core.Row{
		row.New(7).Add(
			col.New(4).Add(text.New("Total da Venda:", negrito)),
			col.New(8).Add(text.New("R$ "+v.Total.StringFixed(2), negrito)),
		),
		row.New(7).Add(
			col.New(4).Add(text.New("Forma de Pagamento:", negrito)),
			col.New(8).Add(text.New(naoVazio(deref(v.FormaPagamento), "Não informada"))),
		),
		row.New(7).Add(
			col.New(4).Add(text.New("Observações da Venda:", negrito)),
			col.New(8).Add(text.New(naoVazio(deref(v.Observacoes), "-"))),
		),
		row.New(10),
		text.NewRow(8, "Termo de Conformidade", props.Text{Style: fontstyle.Bold, Size: 11}),
		text.NewRow(24, fmt.Sprintf(textoTermo, emp.Nome), props.Text{Align: align.Justify}),
	}
	for _, assinante := range []string{"Assinatura do Cliente", "Assinatura do Responsável " + emp.Nome} {
		rows = append(rows,
			row.New(14),
			line.NewRow(1, props.Line{SizePercent: 50}),
			text.NewRow(6, assinante, props.Text{Size: 9}),
		)
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func naoVazio(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
