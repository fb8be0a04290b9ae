package weather

import (
	"fmt"
	"strings"
)

// Condition is a provider condition code from a closed set.
type Condition string

const (
	ConditionClear                Condition = "clear"
	ConditionPartlyCloudy         Condition = "partly-cloudy"
	ConditionCloudy               Condition = "cloudy"
	ConditionOvercast             Condition = "overcast"
	ConditionDrizzle              Condition = "drizzle"
	ConditionLightRain            Condition = "light-rain"
	ConditionRain                 Condition = "rain"
	ConditionModerateRain         Condition = "moderate-rain"
	ConditionHeavyRain            Condition = "heavy-rain"
	ConditionContinuousHeavyRain  Condition = "continuous-heavy-rain"
	ConditionShowers              Condition = "showers"
	ConditionWetSnow              Condition = "wet-snow"
	ConditionLightSnow            Condition = "light-snow"
	ConditionSnow                 Condition = "snow"
	ConditionSnowShowers          Condition = "snow-showers"
	ConditionHail                 Condition = "hail"
	ConditionThunderstorm         Condition = "thunderstorm"
	ConditionThunderstormWithRain Condition = "thunderstorm-with-rain"
	ConditionThunderstormWithHail Condition = "thunderstorm-with-hail"
)

var conditionLabels = map[Condition]string{
	ConditionClear:                "ясно",
	ConditionPartlyCloudy:         "малооблачно",
	ConditionCloudy:               "облачно",
	ConditionOvercast:             "пасмурно",
	ConditionDrizzle:              "морось",
	ConditionLightRain:            "небольшой дождь",
	ConditionRain:                 "дождь",
	ConditionModerateRain:         "умеренно сильный дождь",
	ConditionHeavyRain:            "сильный дождь",
	ConditionContinuousHeavyRain:  "длительный сильный дождь",
	ConditionShowers:              "ливень",
	ConditionWetSnow:              "дождь со снегом",
	ConditionLightSnow:            "небольшой снег",
	ConditionSnow:                 "снег",
	ConditionSnowShowers:          "снегопад",
	ConditionHail:                 "град",
	ConditionThunderstorm:         "гроза",
	ConditionThunderstormWithRain: "дождь с грозой",
	ConditionThunderstormWithHail: "гроза с градом",
}

// conditionsByLabel is the reverse of conditionLabels.
var conditionsByLabel = func() map[string]Condition {
	m := make(map[string]Condition, len(conditionLabels))
	for c, label := range conditionLabels {
		m[label] = c
	}
	return m
}()

// Label returns the display label, or the raw code for values outside the set.
func (c Condition) Label() string {
	if label, ok := conditionLabels[c]; ok {
		return label
	}
	return string(c)
}

// Valid reports whether c is a member of the known set.
func (c Condition) Valid() bool {
	_, ok := conditionLabels[c]
	return ok
}

// ParseCondition maps a provider code ("partly-cloudy", "PARTLY_CLOUDY") or a
// display label ("малооблачно") to a Condition. Matching ignores case and
// surrounding whitespace; unknown values yield ErrUnknownCondition.
func ParseCondition(code string) (Condition, error) {
	normalized := strings.ToLower(strings.TrimSpace(code))

	if c := Condition(strings.ReplaceAll(normalized, "_", "-")); c.Valid() {
		return c, nil
	}
	if c, ok := conditionsByLabel[normalized]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCondition, code)
}
