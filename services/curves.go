// ABOUTME: Empirical fragility curve breakpoints for each asset class
// ABOUTME: Values are fixed model inputs and must not be tuned

package services

import "github.com/markalston/grid-restore/models"

// SolarWindBias shifts the solar curve's wind speeds (mph)
const SolarWindBias = 30.0

// Transmission structures, one per 0.23 km segment. Wind speed in m/s.
var transmissionX = []float64{
	43.4483, 47.5884, 50.6947, 53.8032, 56.1365, 58.7298, 60.8059, 62.882, 64.6994, 66.2582,
	68.0778, 69.3766, 70.9362, 72.2357, 73.5359, 75.0947, 76.3956, 77.4365, 78.7353, 79.7755,
	80.8149, 81.595, 82.6352, 83.6747, 84.9735, 86.0129, 87.0524, 88.0926, 89.1313, 90.4294,
	91.7275, 92.7676, 94.0657, 95.6231, 97.1806, 99.2552, 100.553, 102.109, 103.665, 105.22,
	106.775, 108.33, 109.626, 111.181, 112.736, 114.807, 116.621, 118.692, 120.504, 122.575,
	123.611, 124.904, 126.198, 127.493, 129.304, 131.633, 133.444, 134.996, 136.808, 138.619,
	140.43, 142.758, 145.344, 147.414,
}

var transmissionY = []float64{
	0.0, 0.00837677, 0.0195248, 0.0388921, 0.060952, 0.0885071, 0.116031, 0.143554, 0.171062, 0.198555,
	0.234282, 0.256279, 0.286511, 0.311247, 0.338724, 0.366216, 0.396432, 0.421153, 0.44315, 0.465131,
	0.484372, 0.500858, 0.522839, 0.542081, 0.564078, 0.583319, 0.60256, 0.624541, 0.641043, 0.6603,
	0.679557, 0.701538, 0.720795, 0.742808, 0.764821, 0.786865, 0.806122, 0.819915, 0.836448, 0.850242,
	0.864035, 0.875089, 0.888866, 0.89992, 0.910973, 0.922058, 0.933128, 0.941473, 0.947063, 0.955408,
	0.96095, 0.963769, 0.966587, 0.972146, 0.974996, 0.980617, 0.983467, 0.986301, 0.989151, 0.992001,
	0.994851, 0.997733, 0.99789, 1,
}

// Substations. Wind speed in km/h.
var substationX = []float64{
	40.1487, 60.223, 80.2974, 100.372, 119.703, 139.777, 159.851, 179.926, 200.0, 220.074,
	240.149, 260.223, 281.041, 301.115,
}

var substationY = []float64{
	0.0, 0.0136986, 0.0228311, 0.0273973, 0.0456621, 0.0639269, 0.0913242, 0.13242, 0.214612, 0.424658,
	0.648402, 0.803653, 0.890411, 0.931507,
}

// Distribution poles. Wind speed in m/s.
var distributionX = []float64{
	34.375, 38.1855, 40.3024, 42.2782, 45.3831, 48.3468, 50.4637, 52.0161, 53.7097, 55.2621,
	57.379, 59.2137, 60.9073, 62.4597, 63.871, 65.5645, 67.3992, 68.8105, 70.3629, 72.1976,
	75.0202, 77.7016, 80.3831, 83.2056, 86.1694, 89.2742, 96.8952,
}

var distributionY = []float64{
	0.0, 0.0133333, 0.0311111, 0.0533333, 0.102222, 0.173333, 0.235556, 0.284444, 0.342222, 0.395556,
	0.471111, 0.533333, 0.591111, 0.635556, 0.68, 0.728889, 0.773333, 0.8, 0.831111, 0.862222,
	0.902222, 0.937778, 0.964444, 0.982222, 0.991111, 0.995556, 1.0,
}

// Solar farms. Wind speed in mph, shifted by SolarWindBias.
var solarX = []float64{
	90.0 + SolarWindBias, 110.2020202 + SolarWindBias, 130.0 + SolarWindBias, 150.0 + SolarWindBias, 170 + SolarWindBias,
}

var solarY = []float64{0.0, 0.106145251, 0.525139665, 0.865921788, 1.0}

// Wind turbines, non-yawing. Wind speed in knots.
var windX = []float64{
	97.38019084, 101.0869454, 108.7957023, 116.0578022, 120.2056744, 123.7586193, 128.1954614, 131.2997183,
	133.5139848, 135.5818276, 137.2039366, 139.5655501, 141.0403122, 142.6635291, 144.1390297, 145.9107014,
	147.9785442, 149.8997786, 151.9694679, 154.3364361, 157.1482148, 160.4059119, 164.7018696, 169.4437458,
	175.0759815, 180.8574107, 188.5670909, 194.7940692,
}

var windY = []float64{
	0, 0.00124533, 0.00996264, 0.03113325, 0.056039851, 0.093399751, 0.169364882, 0.232876712,
	0.298879203, 0.352428394, 0.412204234, 0.484433375, 0.537982565, 0.590286426, 0.638854296, 0.689912827,
	0.743462017, 0.785803238, 0.826899128, 0.863013699, 0.899128269, 0.927770859, 0.95392279, 0.97260274,
	0.98630137, 0.99377335, 0.99626401, 1,
}

// DefaultCurves returns the fragility curve of every asset class
func DefaultCurves() [models.NumAssetClasses]*Curve {
	return [models.NumAssetClasses]*Curve{
		models.Transmission: mustCurve(models.Transmission, "m/s", models.WindSpeed.MetersPerSecond, transmissionX, transmissionY),
		models.Substation:   mustCurve(models.Substation, "km/h", models.WindSpeed.KilometersPerHour, substationX, substationY),
		models.Distribution: mustCurve(models.Distribution, "m/s", models.WindSpeed.MetersPerSecond, distributionX, distributionY),
		models.Solar:        mustCurve(models.Solar, "mph", models.WindSpeed.MPH, solarX, solarY),
		models.Wind:         mustCurve(models.Wind, "knots", models.WindSpeed.Knots, windX, windY),
	}
}
