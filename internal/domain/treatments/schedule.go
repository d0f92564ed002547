package treatments

import (
	"lawn-care-scheduler/internal/domain/calendar"
	"lawn-care-scheduler/internal/domain/templates"
)

// Expand calcula las ocurrencias que faltan para un césped en [from, to].
//
// Por plantilla (en el orden recibido): se recorren los días en orden ascendente;
// un día se emite si cae en algún período, respeta el cooldown desde la última
// ocurrencia emitida en esta misma llamada y el par (plantilla, día) no está en
// existing. Plantillas sin períodos no generan nada.
//
// existing se actualiza con lo emitido. Es determinista: mismas entradas, misma salida.
func Expand(tpls []templates.Template, lawnProfileID string, from, to calendar.Date, existing OccurrenceSet) []Draft {
	if existing == nil {
		existing = OccurrenceSet{}
	}

	var drafts []Draft
	for _, tpl := range tpls {
		if len(tpl.Periods) == 0 {
			continue
		}

		var last calendar.Date
		calendar.Days(from, to, func(d calendar.Date) {
			if !calendar.InAnyPeriod(d, tpl.Periods) {
				return
			}
			if !last.IsZero() && d.DaysSince(last) < tpl.MinCooldownDays {
				return
			}
			if existing.Has(tpl.ID, d) {
				return
			}

			drafts = append(drafts, Draft{
				LawnProfileID:  lawnProfileID,
				TemplateID:     tpl.ID,
				ProposedDate:   d,
				GenerationKind: GenerationStatic,
			})
			existing.Add(tpl.ID, d)
			last = d
		})
	}
	return drafts
}
