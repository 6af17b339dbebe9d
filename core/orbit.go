package core

import (
	"math"
	"time"
)

// EarthRadiusKm is the mean Earth radius used for all geometry and
// propagation in the simulation core (kilometres).
const EarthRadiusKm = 6371.0

// EarthMuKm3S2 is the geocentric gravitational parameter (km³/s²).
const EarthMuKm3S2 = 398600.4418

// keplerIterations is the fixed Newton iteration count for solving
// Kepler's equation. Eccentricity stays below ~0.02 in this domain,
// so ten iterations converge well past float64 precision. There is
// no convergence check; broadening the eccentricity range would
// require one.
const keplerIterations = 10

// OrbitalElements are the six Keplerian elements describing an orbit
// at a reference epoch. Angles are in degrees, semi-major axis in
// kilometres (measured from the Earth's centre).
type OrbitalElements struct {
	SemiMajorAxisKm float64   `json:"SemiMajorAxisKm"`
	Eccentricity    float64   `json:"Eccentricity"`
	InclinationDeg  float64   `json:"InclinationDeg"`
	RAANDeg         float64   `json:"RAANDeg"`
	ArgPeriapsisDeg float64   `json:"ArgPeriapsisDeg"`
	MeanAnomalyDeg  float64   `json:"MeanAnomalyDeg"`
	Epoch           time.Time `json:"Epoch"`
}

// GeoPosition is a geographic position: longitude/latitude in degrees
// and altitude above the mean Earth radius in kilometres.
type GeoPosition struct {
	LonDeg     float64 `json:"LonDeg"`
	LatDeg     float64 `json:"LatDeg"`
	AltitudeKm float64 `json:"AltitudeKm"`
}

// PeriodSeconds returns the orbital period from Kepler's third law.
func (el OrbitalElements) PeriodSeconds() float64 {
	a := el.SemiMajorAxisKm
	return 2 * math.Pi * math.Sqrt(a*a*a/EarthMuKm3S2)
}

// PropagateGeodetic converts orbital elements plus an instant into a
// geographic position. It is a pure function: the same elements and
// instant always produce the same position.
//
// Earth rotation is modelled as a linear 360°/day term rather than
// true sidereal time, which is accurate enough for the link-geometry
// purposes of this simulator.
func PropagateGeodetic(el OrbitalElements, at time.Time) GeoPosition {
	elapsed := at.Sub(el.Epoch).Seconds()

	// Mean anomaly at `at` from mean motion.
	n := 2 * math.Pi / el.PeriodSeconds()
	m := degToRad(el.MeanAnomalyDeg) + n*elapsed
	m = math.Mod(m, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}

	// Kepler's equation M = E - e·sin(E), Newton iteration with a
	// fixed count (see keplerIterations).
	e := el.Eccentricity
	ecc := m
	for i := 0; i < keplerIterations; i++ {
		ecc -= (ecc - e*math.Sin(ecc) - m) / (1 - e*math.Cos(ecc))
	}

	// True anomaly and orbital-plane radius.
	sinE, cosE := math.Sin(ecc), math.Cos(ecc)
	nu := math.Atan2(math.Sqrt(1-e*e)*sinE, cosE-e)
	r := el.SemiMajorAxisKm * (1 - e*cosE)

	// Perifocal coordinates.
	xp := r * math.Cos(nu)
	yp := r * math.Sin(nu)

	// Rotate into the Earth-centred inertial frame:
	// R3(-Ω) · R1(-i) · R3(-ω).
	sinW, cosW := math.Sincos(degToRad(el.ArgPeriapsisDeg))
	sinI, cosI := math.Sincos(degToRad(el.InclinationDeg))
	sinO, cosO := math.Sincos(degToRad(el.RAANDeg))

	x := xp*(cosO*cosW-sinO*sinW*cosI) - yp*(cosO*sinW+sinO*cosW*cosI)
	y := xp*(sinO*cosW+cosO*sinW*cosI) - yp*(sinO*sinW-cosO*cosW*cosI)
	z := xp*sinW*sinI + yp*cosW*sinI

	// Geographic conversion. Longitude regresses with planetary
	// rotation at 360° per day.
	lat := radToDeg(math.Asin(clamp(z/r, -1, 1)))
	lon := radToDeg(math.Atan2(y, x)) - (elapsed/86400.0)*360.0
	lon = normalizeLonDeg(lon)

	return GeoPosition{
		LonDeg:     lon,
		LatDeg:     lat,
		AltitudeKm: r - EarthRadiusKm,
	}
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeLonDeg wraps a longitude into [-180, 180).
func normalizeLonDeg(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < -180 {
		lon += 360
	} else if lon >= 180 {
		lon -= 360
	}
	return lon
}
