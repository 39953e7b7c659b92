package core

import "strings"

// CardLine is one per-card amount in the report, in the configured
// card order.
type CardLine struct {
	Card  string
	Total Money
}

// PersonTotal is the aggregated amount attributed to one person.
type PersonTotal struct {
	Name  string
	Total Money
}

// CardStatus carries the due day and state of one card's invoice.
type CardStatus struct {
	Card   string
	DueDay string
	Status string
}

// Report is the derived, non-persistent summary of one month's rows.
// TotalFinal and ToPay are nil when the sheet carries no synthetic
// total rows; the two figures are independent because historical
// sheets disagreed on whether they are the same number.
type Report struct {
	Month      string
	Cards      []CardLine
	TotalFinal *Money
	ToPay      *Money
	People     []PersonTotal
	Statuses   []CardStatus
}

// BuildReport aggregates invoice rows into a Report.
//
// cards fixes both membership and display order of the per-card lines;
// rows with unknown card labels are ignored for display. totalLabel and
// toPayLabel name the synthetic summary rows; the first match of each
// wins and absence is not an error. Returns ErrNoData when no card row
// is present at all.
func BuildReport(rows []InvoiceRow, cards []string, totalLabel, toPayLabel string) (Report, error) {
	byCard := make(map[string]InvoiceRow)
	known := make(map[string]string, len(cards))
	for _, c := range cards {
		known[normalizeLabel(c)] = c
	}
	wantTotal := normalizeLabel(totalLabel)
	wantToPay := normalizeLabel(toPayLabel)

	var rep Report
	personIdx := make(map[string]int)

	for _, row := range rows {
		label := normalizeLabel(row.Card)

		switch label {
		case wantTotal:
			if rep.TotalFinal == nil {
				m := ParseBRL(row.TotalRaw)
				rep.TotalFinal = &m
			}
		case wantToPay:
			if rep.ToPay == nil {
				m := ParseBRL(row.TotalRaw)
				rep.ToPay = &m
			}
		default:
			if _, ok := known[label]; ok {
				if rep.Month == "" {
					rep.Month = strings.TrimSpace(row.Month)
				}
				if _, dup := byCard[label]; !dup {
					byCard[label] = row
				}
			}
		}

		// Person attribution is independent of the card filter.
		person := strings.TrimSpace(row.Person)
		amount := strings.TrimSpace(row.PersonAmountRaw)
		if person != "" && amount != "" {
			if i, ok := personIdx[person]; ok {
				rep.People[i].Total = rep.People[i].Total.Add(ParseBRL(amount))
			} else {
				personIdx[person] = len(rep.People)
				rep.People = append(rep.People, PersonTotal{Name: person, Total: ParseBRL(amount)})
			}
		}
	}

	for _, c := range cards {
		row, ok := byCard[normalizeLabel(c)]
		if !ok {
			continue
		}
		rep.Cards = append(rep.Cards, CardLine{Card: c, Total: ParseBRL(row.TotalRaw)})
		rep.Statuses = append(rep.Statuses, CardStatus{
			Card:   c,
			DueDay: strings.TrimSpace(row.DueDay),
			Status: strings.TrimSpace(row.Status),
		})
	}

	if len(rep.Cards) == 0 {
		return Report{}, ErrNoData
	}
	return rep, nil
}
