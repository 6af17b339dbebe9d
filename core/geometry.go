package core

import "math"

// LookAngles describes the line-of-sight geometry from a ground
// station to a satellite.
type LookAngles struct {
	DistanceKm   float64 `json:"DistanceKm"`
	ElevationDeg float64 `json:"ElevationDeg"`
	AzimuthDeg   float64 `json:"AzimuthDeg"`
}

// ComputeLookAngles returns slant range, elevation, and azimuth from a
// ground station at (stationLonDeg, stationLatDeg) on the Earth's
// surface to a satellite at sat.
//
// The Cartesian conversion uses the station's longitude as the local
// reference meridian, so only the longitude difference enters the
// calculation.
func ComputeLookAngles(sat GeoPosition, stationLonDeg, stationLatDeg float64) LookAngles {
	dLon := degToRad(sat.LonDeg - stationLonDeg)
	satLat := degToRad(sat.LatDeg)
	gsLat := degToRad(stationLatDeg)

	// Station sits on the reference meridian at the Earth radius.
	gsX := EarthRadiusKm * math.Cos(gsLat)
	gsY := 0.0
	gsZ := EarthRadiusKm * math.Sin(gsLat)

	rSat := EarthRadiusKm + sat.AltitudeKm
	satX := rSat * math.Cos(satLat) * math.Cos(dLon)
	satY := rSat * math.Cos(satLat) * math.Sin(dLon)
	satZ := rSat * math.Sin(satLat)

	dx, dy, dz := satX-gsX, satY-gsY, satZ-gsZ
	dist := math.Sqrt(dx*dx + dy*dy + dz*dz)

	// Geocentric angle between station and sub-satellite point via
	// the spherical law of cosines. Clamped before acos: rounding can
	// push the cosine marginally outside [-1, 1].
	cosGamma := math.Sin(gsLat)*math.Sin(satLat) +
		math.Cos(gsLat)*math.Cos(satLat)*math.Cos(dLon)
	gamma := math.Acos(clamp(cosGamma, -1, 1))

	// Elevation from the nadir angle: sin(el) = (r·cosγ − Re) / d.
	elev := 90.0
	if dist > 0 {
		sinElev := (rSat*math.Cos(gamma) - EarthRadiusKm) / dist
		elev = radToDeg(math.Asin(clamp(sinElev, -1, 1)))
	}

	// Spherical bearing, normalized to [0, 360).
	azY := math.Sin(dLon) * math.Cos(satLat)
	azX := math.Cos(gsLat)*math.Sin(satLat) -
		math.Sin(gsLat)*math.Cos(satLat)*math.Cos(dLon)
	az := math.Mod(radToDeg(math.Atan2(azY, azX))+360, 360)

	return LookAngles{
		DistanceKm:   dist,
		ElevationDeg: elev,
		AzimuthDeg:   az,
	}
}

// GroundDistanceKm returns the great-circle distance between two
// points on the Earth's surface.
func GroundDistanceKm(lon1, lat1, lon2, lat2 float64) float64 {
	la1 := degToRad(lat1)
	la2 := degToRad(lat2)
	dLon := degToRad(lon2 - lon1)

	cosGamma := math.Sin(la1)*math.Sin(la2) +
		math.Cos(la1)*math.Cos(la2)*math.Cos(dLon)
	return EarthRadiusKm * math.Acos(clamp(cosGamma, -1, 1))
}
