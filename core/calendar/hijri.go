package calendar

import "fmt"

var hijriMonths = [12]string{
	"Muharram",
	"Safar",
	"Rabi al-Awwal",
	"Rabi al-Thani",
	"Jumada al-Awwal",
	"Jumada al-Thani",
	"Rajab",
	"Shaban",
	"Ramadan",
	"Shawwal",
	"Dhu al-Qidah",
	"Dhu al-Hijjah",
}

// Hijri converts d to the tabular Islamic calendar.
func Hijri(d Day) (year, month, day int) {
	y, m, dd := d.Time().Date()
	jdn := julianDayNumber(y, int(m), dd)

	l := jdn - 1948440 + 10632
	n := (l - 1) / 10631
	l = l - 10631*n + 354
	j := ((10985-l)/5316)*((50*l)/17719) + (l/5670)*((43*l)/15238)
	l = l - ((30-j)/15)*((17719*j)/50) - (j/16)*((15238*j)/43) + 29
	month = (24 * l) / 709
	day = l - (709*month)/24
	year = 30*n + j - 30
	return year, month, day
}

func HijriMonthName(month int) string {
	if month < 1 || month > len(hijriMonths) {
		return ""
	}
	return hijriMonths[month-1]
}

// HijriLabel renders d as "<day> <month name> <year>".
func HijriLabel(d Day) string {
	y, m, dd := Hijri(d)
	return fmt.Sprintf("%d %s %d", dd, HijriMonthName(m), y)
}

func julianDayNumber(year, month, day int) int {
	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}
