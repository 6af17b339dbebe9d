package core

import "math"

// speedOfLightKmS is the propagation speed used for path delay (km/s).
const speedOfLightKmS = 299792.458

// fsplSpreadingTermDB is 20·log10(4π/c) with c in metres per second,
// the constant term of the free-space path loss formula.
var fsplSpreadingTermDB = 20 * math.Log10(4*math.Pi/(speedOfLightKmS*1000))

// FreeSpacePathLossDB returns the free-space path loss in dB for a
// slant range in kilometres at a carrier frequency in GHz. Doubling
// the distance costs ~6.02 dB.
func FreeSpacePathLossDB(distanceKm, frequencyGHz float64) float64 {
	fHz := frequencyGHz * 1e9
	return 20*math.Log10(distanceKm) + 20*math.Log10(fHz) + fsplSpreadingTermDB
}

// DishGainDB derives a receive antenna gain figure from the ground
// antenna diameter in metres.
func DishGainDB(diameterM float64) float64 {
	if diameterM <= 0 {
		return 0
	}
	return 10 * math.Log10(diameterM)
}

// ReceivedPowerDBm runs the link budget: transmitter power and gains
// minus free-space and atmospheric/interference losses.
func ReceivedPowerDBm(txPowerDBW, txGainDBi, rxGainDB, fsplDB, atmosphericLossDB float64) float64 {
	return txPowerDBW + txGainDBi + rxGainDB - fsplDB - atmosphericLossDB
}

// SignalQuality maps the link margin over receiver sensitivity to a
// 0-100 score: −10 dB of margin is 0, +20 dB is 100, linear between.
func SignalQuality(receivedDBm, sensitivityDBm float64) float64 {
	margin := receivedDBm - sensitivityDBm
	return clamp((margin+10)/30*100, 0, 100)
}

// BitErrorRateForQuality buckets quality into discrete BER classes.
// These are coarse steps, not a continuous BER curve.
func BitErrorRateForQuality(quality float64) float64 {
	switch {
	case quality >= 80:
		return 1e-9 // excellent
	case quality >= 60:
		return 1e-6 // good
	case quality >= 40:
		return 1e-4 // fair
	case quality >= 20:
		return 1e-2 // poor
	default:
		return 1e-1
	}
}

// DataRateMbps scales the base rate quadratically with quality,
// approximating adaptive-modulation roll-off near the noise floor.
func DataRateMbps(baseRateMbps, quality float64) float64 {
	f := quality / 100
	return baseRateMbps * f * f
}

// PropagationDelaySeconds returns the one-way path delay.
func PropagationDelaySeconds(distanceKm float64) float64 {
	return distanceKm / speedOfLightKmS
}
