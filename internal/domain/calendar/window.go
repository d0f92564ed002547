package calendar

import "time"

// Window devuelve el rango [from, to] de días de calendario en UTC:
// from = día de ref, to = from + windowDays. Con windowDays <= 0, from == to.
func Window(windowDays int, ref time.Time) (from, to Date) {
	if windowDays < 0 {
		windowDays = 0
	}
	from = DateOf(ref)
	return from, from.AddDays(windowDays)
}

// Days recorre [from, to] en orden ascendente, ambos inclusive.
func Days(from, to Date, fn func(Date)) {
	for d := from; !d.After(to); d = d.AddDays(1) {
		fn(d)
	}
}
