package summary

import (
	"strings"

	"github.com/kyiku/hackz-valentine-back/internal/state"
)

// Placeholder is shown for empty fields.
const Placeholder = "—"

// CopyTitle heads the copyable text.
const CopyTitle = "Appuntamento di San Valentino"

// Row is one label/value line of the summary.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Rows returns the summary rows in display order.
func Rows(p state.Proposal) []Row {
	day := Placeholder
	if p.Day != "" {
		day = FormatDate(p.Day)
	}
	return []Row{
		{Label: "Persona", Value: orPlaceholder(p.Name)},
		{Label: "Giorno", Value: day},
		{Label: "Ora", Value: orPlaceholder(p.Time)},
		{Label: "Stile", Value: orPlaceholder(p.Mood)},
		{Label: "Nota", Value: orPlaceholder(p.Note)},
	}
}

// CopyText is the plain-text invitation offered for copying.
func CopyText(p state.Proposal) string {
	var b strings.Builder
	b.WriteString(CopyTitle)
	for _, r := range Rows(p) {
		b.WriteString("\n- ")
		b.WriteString(r.Label)
		b.WriteString(": ")
		b.WriteString(r.Value)
	}
	return b.String()
}

// RowsHTML renders the rows as escaped markup for the summary block.
func RowsHTML(rows []Row) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(`<div class="row"><div class="k">`)
		b.WriteString(EscapeHTML(r.Label))
		b.WriteString(`</div><div class="v">`)
		b.WriteString(EscapeHTML(r.Value))
		b.WriteString(`</div></div>`)
	}
	return b.String()
}
