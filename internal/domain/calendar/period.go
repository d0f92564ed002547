package calendar

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrInvalidMonthDay = errors.New("month-day must be MM-DD")
	ErrPeriodWraps     = errors.New("period crosses the year boundary")

	monthDayRegex = regexp.MustCompile(`^\d{2}-\d{2}$`)
)

// MonthDay es un día del año en formato MM-DD.
// Se compara lexicográficamente, que para MM-DD coincide con el orden del calendario.
type MonthDay string

func ParseMonthDay(s string) (MonthDay, error) {
	if !monthDayRegex.MatchString(s) {
		return "", ErrInvalidMonthDay
	}
	// 2000 es bisiesto: acepta 02-29
	if _, err := time.Parse("2006-01-02", "2000-"+s); err != nil {
		return "", ErrInvalidMonthDay
	}
	return MonthDay(s), nil
}

// Period es un rango MM-DD inclusivo que se repite cada año.
//
// Un período con Start > End (p.ej. 11-15..02-15) no contiene ningún día:
// el modelo no soporta rangos que cruzan fin de año.
type Period struct {
	Start MonthDay `json:"start" yaml:"start"`
	End   MonthDay `json:"end" yaml:"end"`
}

func (p Period) Contains(md MonthDay) bool {
	return md >= p.Start && md <= p.End
}

func (p Period) Validate() error {
	if _, err := ParseMonthDay(string(p.Start)); err != nil {
		return err
	}
	if _, err := ParseMonthDay(string(p.End)); err != nil {
		return err
	}
	if p.Start > p.End {
		return ErrPeriodWraps
	}
	return nil
}

// InAnyPeriod indica si la fecha cae dentro de alguno de los períodos.
func InAnyPeriod(d Date, periods []Period) bool {
	md := d.MonthDay()
	for _, p := range periods {
		if p.Contains(md) {
			return true
		}
	}
	return false
}
