package metrics

import "strings"

type countryInfo struct {
	Name string
	Icon string
}

// Mercados GCC con nombre de despliegue. El icono es una clave neutral;
// el cliente decide cómo dibujarla.
var countryTable = map[string]countryInfo{
	"SA": {Name: "Saudi Arabia", Icon: "sa"},
	"AE": {Name: "UAE", Icon: "ae"},
	"KW": {Name: "Kuwait", Icon: "kw"},
	"QA": {Name: "Qatar", Icon: "qa"},
	"BH": {Name: "Bahrain", Icon: "bh"},
	"OM": {Name: "Oman", Icon: "om"},
}

const unknownIcon = "unknown"

func lookupCountry(code string) countryInfo {
	if info, ok := countryTable[strings.ToUpper(code)]; ok {
		return info
	}
	return countryInfo{Name: code, Icon: unknownIcon}
}
