package forms

import (
	"text/template"
	"time"

	"github.com/mmdatafocus/devitrack/models"
	"github.com/mmdatafocus/devitrack/utils"
)

const blank = "________"

var summaryTemplate = template.Must(template.New("summary").Funcs(template.FuncMap{
	"blank": func(s string) string { return utils.ValueOrBlank(s, blank) },
}).Parse(`Olá, prezados responsáveis,

Gostaria de formalizar o registro de um desvio operacional referente ao atendimento realizado pelo analista {{blank .AnalystName}}.

Dados do Chamado:
- Analista: {{blank .AnalystName}}
- Chamado: {{blank .TicketNumber}}
- Local: {{blank .Location}}
- Escalada: {{.EscalationLevel}}
- Data de Fechamento: {{.ClosingDate}}

Validações Realizadas:
- Ligou para o Cliente: {{if .CalledCustomer}}Sim ({{blank .CustomerName}}, Matrícula: {{blank .CustomerMatricula}}){{else}}Não{{end}}
{{- range .Checks}}
- {{.Label}}: {{if .Checked}}Validado{{else}}Pendente{{end}}
{{- end}}
- Fechamento Autorizado por: {{blank .ClosureName}} ({{blank .ClosureDepartment}})

Atenciosamente,
Equipe de Qualidade L1`))

type summaryCheck struct {
	Label   string
	Checked bool
}

type summaryData struct {
	AnalystName       string
	TicketNumber      string
	Location          string
	EscalationLevel   models.EscalationLevel
	ClosingDate       string
	CalledCustomer    bool
	CustomerName      string
	CustomerMatricula string
	Checks            []summaryCheck
	ClosureName       string
	ClosureDepartment string
}

// Summary renders the notification e-mail body for a draft. Empty fields
// show as a blank line.
func Summary(d Draft) (string, error) {
	v := d.Validation
	data := summaryData{
		AnalystName:       d.AnalystName,
		TicketNumber:      d.TicketNumber,
		Location:          d.Location,
		EscalationLevel:   d.EscalationLevel,
		ClosingDate:       formatClosingDate(d.ClosingDate),
		CalledCustomer:    v.CalledCustomer,
		ClosureName:       v.ClosureAuth.Name,
		ClosureDepartment: v.ClosureAuth.Department,
	}
	if v.CustomerDetails != nil {
		data.CustomerName = v.CustomerDetails.Name
		data.CustomerMatricula = v.CustomerDetails.Matricula
	}
	for _, c := range models.CheckCategories {
		data.Checks = append(data.Checks, summaryCheck{Label: c.Label(), Checked: v.Checked(c)})
	}
	return utils.ExecTemplate(summaryTemplate, data)
}

// formatClosingDate turns YYYY-MM-DD into DD/MM/YYYY.
func formatClosingDate(s string) string {
	t, err := time.Parse(ClosingDateLayout, s)
	if err != nil {
		return blank
	}
	return t.Format("02/01/2006")
}
