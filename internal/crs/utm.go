package crs

import "math"

// Latitude band letters from 80°S to 84°N, 8° each (X is 12°).
const bandLetters = "CDEFGHJKLMNPQRSTUVWX"

// UTMZone returns the UTM zone number and latitude band letter containing the
// geographic point (lon, lat), including the Norway and Svalbard exceptions.
func UTMZone(lon, lat float64) (zone int, band byte) {
	if lon < -180 || lon > 180 {
		lon = math.Mod(lon+180, 360)
		if lon < 0 {
			lon += 360
		}
		lon -= 180
	}

	zone = int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}

	switch {
	case lat >= 56 && lat < 64 && lon >= 3 && lon < 12:
		zone = 32
	case lat >= 72 && lat < 84 && lon >= 0:
		switch {
		case lon < 9:
			zone = 31
		case lon < 21:
			zone = 33
		case lon < 33:
			zone = 35
		case lon < 42:
			zone = 37
		}
	}

	i := int(math.Floor((lat + 80) / 8))
	if i < 0 {
		i = 0
	}
	if i >= len(bandLetters) {
		i = len(bandLetters) - 1
	}
	return zone, bandLetters[i]
}

// North reports whether a latitude band letter lies north of the equator.
func North(band byte) bool {
	return band >= 'N'
}

// UTMDef returns the proj4 definition of the WGS84 UTM zone containing
// (lon, lat).
func UTMDef(lon, lat float64) string {
	zone, band := UTMZone(lon, lat)
	return utmDef(zone, North(band), "WGS84")
}
