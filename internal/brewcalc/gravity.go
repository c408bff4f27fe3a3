package brewcalc

import (
	"math"
	"strconv"
	"strings"
)

// CelsiusToFahrenheit converts a temperature reading.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// correctionFactor is the hydrometer density polynomial, defined in Fahrenheit.
func correctionFactor(tempF float64) float64 {
	return 1.00130346 -
		0.000134722124*tempF +
		0.00000204052596*tempF*tempF -
		0.00000000232820948*tempF*tempF*tempF
}

// CorrectGravityC adjusts a hydrometer reading taken at sampleC for an
// instrument calibrated at calibrationC. The result is rounded to three
// decimals.
func CorrectGravityC(measured, sampleC, calibrationC float64) (float64, bool) {
	if !finite(measured) || !finite(sampleC) || !finite(calibrationC) {
		return 0, false
	}
	denominator := correctionFactor(CelsiusToFahrenheit(calibrationC))
	if denominator == 0 {
		return 0, false
	}
	corrected := measured * correctionFactor(CelsiusToFahrenheit(sampleC)) / denominator
	return roundTo(corrected, 3), true
}

// CorrectGravity is CorrectGravityC for raw form input. It is undefined when
// any input fails to parse as a number.
func CorrectGravity(measured, sampleC, calibrationC string) (float64, bool) {
	m, ok := parseNumber(measured)
	if !ok {
		return 0, false
	}
	s, ok := parseNumber(sampleC)
	if !ok {
		return 0, false
	}
	c, ok := parseNumber(calibrationC)
	if !ok {
		return 0, false
	}
	return CorrectGravityC(m, s, c)
}

func parseNumber(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || !finite(parsed) {
		return 0, false
	}
	return parsed, true
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
