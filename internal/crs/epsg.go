package crs

import "fmt"

// Definitions for EPSG codes that are not computed from a pattern.
var epsgDefs = map[int]string{
	4326:   "+proj=longlat +datum=WGS84 +no_defs",
	4269:   "+proj=longlat +datum=NAD83 +no_defs",
	4258:   "+proj=longlat +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +no_defs",
	4267:   "+proj=longlat +datum=NAD27 +no_defs",
	3857:   "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
	3395:   "+proj=merc +lon_0=0 +k=1 +x_0=0 +y_0=0 +datum=WGS84 +units=m +no_defs",
	2263:   "+proj=lcc +lat_1=41.03333333333333 +lat_2=40.66666666666666 +lat_0=40.16666666666666 +lon_0=-74 +x_0=300000.0000000001 +y_0=0 +datum=NAD83 +to_meter=0.3048006096012192 +no_defs",
	2154:   "+proj=lcc +lat_1=49 +lat_2=44 +lat_0=46.5 +lon_0=3 +x_0=700000 +y_0=6600000 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	5070:   "+proj=aea +lat_1=29.5 +lat_2=45.5 +lat_0=23 +lon_0=-96 +x_0=0 +y_0=0 +datum=NAD83 +units=m +no_defs",
	27700:  "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +units=m +no_defs",
	900913: "+proj=merc +a=6378137 +b=6378137 +lat_ts=0 +lon_0=0 +x_0=0 +y_0=0 +k=1 +units=m +no_defs",
}

// EPSG returns the proj4 definition for code. Besides the fixed table, the
// WGS84 UTM ranges (326xx north, 327xx south) and NAD83 UTM zones (269xx) are
// generated.
func EPSG(code int) (string, bool) {
	if def, ok := epsgDefs[code]; ok {
		return def, true
	}
	switch {
	case code >= 32601 && code <= 32660:
		return utmDef(code-32600, true, "WGS84"), true
	case code >= 32701 && code <= 32760:
		return utmDef(code-32700, false, "WGS84"), true
	case code >= 26901 && code <= 26923:
		return utmDef(code-26900, true, "NAD83"), true
	}
	return "", false
}

func utmDef(zone int, north bool, datum string) string {
	hemisphere := "north"
	if !north {
		hemisphere = "south"
	}
	return fmt.Sprintf("+proj=utm +zone=%d +%s +datum=%s +units=m +no_defs", zone, hemisphere, datum)
}
