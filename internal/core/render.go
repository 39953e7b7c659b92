package core

import "strings"

// RenderReport turns a Report into the Telegram message body.
//
// Rendering is a pure function of the Report value: equal reports
// always produce byte-identical text. Emphasis markers are emitted in
// balanced pairs only, since the message is sent with Markdown parse
// mode enabled.
func RenderReport(r Report) string {
	var b strings.Builder

	b.WriteString("*Mês:* ")
	b.WriteString(r.Month)
	b.WriteString("\n")

	for _, c := range r.Cards {
		b.WriteString(c.Card)
		b.WriteString(": ")
		b.WriteString(FormatBRL(c.Total))
		b.WriteString("\n")
	}
	if r.TotalFinal != nil {
		b.WriteString("*Total final:* ")
		b.WriteString(FormatBRL(*r.TotalFinal))
		b.WriteString("\n")
	}
	if r.ToPay != nil {
		b.WriteString("*A pagar:* ")
		b.WriteString(FormatBRL(*r.ToPay))
		b.WriteString("\n")
	}

	if len(r.People) > 0 {
		b.WriteString("\n*Por pessoa:*\n")
		for _, p := range r.People {
			b.WriteString(p.Name)
			b.WriteString(": ")
			b.WriteString(FormatBRL(p.Total))
			b.WriteString("\n")
		}
	}

	if len(r.Statuses) > 0 {
		b.WriteString("\n*Vencimentos:*\n")
		for _, s := range r.Statuses {
			b.WriteString(s.Card)
			if s.DueDay != "" {
				b.WriteString(" | venc. dia ")
				b.WriteString(s.DueDay)
			}
			if s.Status != "" {
				b.WriteString(" (")
				b.WriteString(s.Status)
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
