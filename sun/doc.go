// Package sun computes the apparent position of the Sun (azimuth and
// altitude) for a given instant and geographic location.
//
// The implementation uses the well-known low-precision solar ephemeris
// approximation: mean anomaly, equation of center, ecliptic-to-equatorial
// conversion, local sidereal time and hour angle. Accuracy is about one
// arcminute, which is sufficient for tracker steering, PV forecasting and
// daylight estimation. No atmospheric refraction correction is applied.
//
// Basic Usage:
//
//	pos, err := sun.GetPosition(time.Now(), 56.9496, 24.1052) // Riga
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Azimuth: %.2f°, Altitude: %.2f°\n",
//		pos.Azimuth*180/math.Pi,
//		pos.Altitude*180/math.Pi)
//
// All angles are returned in radians. The azimuth convention follows the
// ephemeris literature: 0 is south, π/2 is west, -π/2 is east and ±π is
// north. Altitude is 0 at the horizon, positive above and negative below.
//
// Every function in this package is a pure computation with no internal
// state; concurrent callers need no coordination. Input validation is
// strict: latitudes outside [-90, 90], longitudes outside [-180, 180] and
// non-finite values are rejected with *InvalidInputError rather than
// producing silently nonsensical trigonometric results.
package sun
