package weather

import "errors"

// Stage errors. Every failure leaving a pipeline stage wraps exactly one of
// these so callers can branch with errors.Is.
var (
	ErrCoordinates    = errors.New("cannot get coordinates")
	ErrWeatherService = errors.New("cannot get weather from the weather service")
	ErrHistoryWrite   = errors.New("cannot record weather in the history")
)

// ErrUnknownCondition is returned by ParseCondition.
var ErrUnknownCondition = errors.New("unknown weather condition")
