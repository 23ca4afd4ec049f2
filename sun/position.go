package sun

import (
	"fmt"
	"math"
	"time"
)

const (
	rad = math.Pi / 180

	// obliquity of the Earth's axis
	obliquity = rad * 23.4397

	// asinDriftBudget bounds how far floating-point accumulation may push
	// an asin argument past ±1 before it is treated as a real domain error
	// instead of drift.
	asinDriftBudget = 1e-9
)

// Equatorial holds the Sun's equatorial coordinates in radians, relative to
// the celestial equator: declination (celestial latitude) and right
// ascension (celestial longitude).
type Equatorial struct {
	Declination    float64 `json:"declination"`
	RightAscension float64 `json:"right_ascension"`
}

// Position holds the Sun's horizontal coordinates in radians as seen by a
// ground observer. Azimuth is 0 at south, π/2 at west, -π/2 at east and ±π
// at north. Altitude is 0 at the horizon and positive above it.
type Position struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

// solarMeanAnomaly approximates the Sun's mean anomaly as a linear function
// of days since J2000. The result is not normalized to [0, 2π); downstream
// trigonometry is periodic and tolerates unbounded angles.
func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

// eclipticLongitude derives the Sun's apparent ecliptic longitude from its
// mean anomaly: the equation of center corrects for orbital eccentricity,
// the perihelion constant anchors the anomaly to the equinox, and the +π
// term flips the Earth-centered view into the Sun's apparent position.
func eclipticLongitude(m float64) float64 {
	// equation of center, a three-term Fourier approximation
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	// perihelion of the Earth
	p := rad * 102.9372
	return m + c + p + math.Pi
}

func declination(eclLng, eclLat float64) (float64, error) {
	return checkedAsin("declination",
		math.Sin(eclLat)*math.Cos(obliquity)+math.Cos(eclLat)*math.Sin(obliquity)*math.Sin(eclLng))
}

func rightAscension(eclLng, eclLat float64) float64 {
	return math.Atan2(math.Sin(eclLng)*math.Cos(obliquity)-math.Tan(eclLat)*math.Sin(obliquity), math.Cos(eclLng))
}

// siderealTime returns the local sidereal time for a days-since-J2000 value
// and an observer longitude expressed west-positive in radians. The public
// API takes east-positive degrees; the negation happens once in GetPosition
// and nowhere else.
func siderealTime(d, lngWest float64) float64 {
	return rad*(280.16+360.9856235*d) - lngWest
}

// sunEquatorial composes mean anomaly and ecliptic longitude into the Sun's
// equatorial coordinates. Ecliptic latitude is 0: the Sun lies on the
// ecliptic plane by construction of this model.
func sunEquatorial(d float64) (Equatorial, error) {
	l := eclipticLongitude(solarMeanAnomaly(d))

	dec, err := declination(l, 0)
	if err != nil {
		return Equatorial{}, err
	}

	return Equatorial{
		Declination:    dec,
		RightAscension: rightAscension(l, 0),
	}, nil
}

// GetEquatorial returns the Sun's declination and right ascension for the
// given instant, both in radians.
func GetEquatorial(t time.Time) (Equatorial, error) {
	d := DaysSinceJ2000(t)
	if err := checkFiniteDays(d); err != nil {
		return Equatorial{}, err
	}
	return sunEquatorial(d)
}

// GetPosition returns the Sun's azimuth and altitude in radians for the
// given instant and observer location. Latitude and longitude are in
// degrees, longitude positive east. Out-of-range or non-finite inputs fail
// with *InvalidInputError.
func GetPosition(t time.Time, lat, lng float64) (Position, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Position{}, &InvalidInputError{
			Field:   "latitude",
			Message: fmt.Sprintf("must be between -90 and 90 degrees, got: %v", lat),
		}
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return Position{}, &InvalidInputError{
			Field:   "longitude",
			Message: fmt.Sprintf("must be between -180 and 180 degrees, got: %v", lng),
		}
	}

	d := DaysSinceJ2000(t)
	if err := checkFiniteDays(d); err != nil {
		return Position{}, err
	}

	// single sign flip to the west-positive convention used internally
	lngWest := -lng * rad
	phi := lat * rad

	eq, err := sunEquatorial(d)
	if err != nil {
		return Position{}, err
	}

	// hour angle: how far the Sun sits west of the local meridian
	h := siderealTime(d, lngWest) - eq.RightAscension

	altitude, err := checkedAsin("altitude",
		math.Sin(phi)*math.Sin(eq.Declination)+math.Cos(phi)*math.Cos(eq.Declination)*math.Cos(h))
	if err != nil {
		return Position{}, err
	}

	return Position{
		Azimuth:  math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(eq.Declination)*math.Cos(phi)),
		Altitude: altitude,
	}, nil
}

// checkedAsin clamps arguments that drifted marginally past ±1 and fails
// with *NumericDomainError for anything further out.
func checkedAsin(op string, x float64) (float64, error) {
	if math.IsNaN(x) {
		return 0, &NumericDomainError{Op: op, Value: x}
	}
	if x > 1 || x < -1 {
		if x > 1+asinDriftBudget || x < -1-asinDriftBudget {
			return 0, &NumericDomainError{Op: op, Value: x}
		}
		x = math.Max(-1, math.Min(1, x))
	}
	return math.Asin(x), nil
}

func checkFiniteDays(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return &InvalidInputError{
			Field:   "time",
			Message: fmt.Sprintf("instant does not convert to a finite Julian day: %v", d),
		}
	}
	return nil
}
