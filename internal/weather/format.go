package weather

import "fmt"

// TimeOfDayLayout is the layout used for sunrise and sunset, both when parsing
// provider responses and when rendering.
const TimeOfDayLayout = "15:04"

// Format renders w as a short multi-line block:
//
//	Москва, температура 19°C, облачно
//	Восход: 05:12
//	Закат: 20:47
func Format(w Weather) string {
	return fmt.Sprintf("%s, температура %d°C, %s\nВосход: %s\nЗакат: %s",
		w.City,
		w.Temperature,
		w.Condition.Label(),
		w.Sunrise.Format(TimeOfDayLayout),
		w.Sunset.Format(TimeOfDayLayout),
	)
}
