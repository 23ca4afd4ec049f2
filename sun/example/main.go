// Package main provides an example of computing the Sun's position.
package main

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/devskill-org/solar-tracker/sun"
)

func main() {
	// Sun position (azimuth and altitude) for Riga right now
	pos, err := sun.GetPosition(time.Now(), 56.9496, 24.1052)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Azimuth: %.2f°, Altitude: %.2f°\n",
		pos.Azimuth*180/math.Pi,
		pos.Altitude*180/math.Pi)

	// Equatorial coordinates are location-independent
	eq, err := sun.GetEquatorial(time.Now())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Declination: %.2f°, Right ascension: %.2f°\n",
		eq.Declination*180/math.Pi,
		eq.RightAscension*180/math.Pi)
}
