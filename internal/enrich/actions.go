// internal/enrich/actions.go
package enrich

import "github.com/cyberops/isora/internal/ioc"

// levelActions are the baseline recommendations per assessed threat level
var levelActions = map[ioc.ThreatLevel][]string{
	ioc.ThreatCritical: {
		"Block the indicator immediately across all enforcement points",
		"Search historical logs for prior contact with the indicator",
		"Isolate any host that communicated with the indicator",
		"Open an incident and begin evidence preservation",
	},
	ioc.ThreatHigh: {
		"Block the indicator at the perimeter",
		"Search recent logs for contact with the indicator",
		"Raise monitoring priority for affected assets",
	},
	ioc.ThreatMedium: {
		"Add the indicator to the watchlist",
		"Alert on new connections involving the indicator",
	},
	ioc.ThreatLow: {
		"Record the indicator for correlation",
	},
	ioc.ThreatClean: {
		"No action required; re-check if new reports arrive",
	},
}

// typeActions add enforcement-point specifics per indicator type
var typeActions = map[ioc.Type][]string{
	ioc.TypeMD5:    {"Add the hash to the EDR blocklist"},
	ioc.TypeSHA1:   {"Add the hash to the EDR blocklist"},
	ioc.TypeSHA256: {"Add the hash to the EDR blocklist"},
	ioc.TypeIP:     {"Block the address at the firewall"},
	ioc.TypeDomain: {"Sinkhole the domain at the resolver"},
	ioc.TypeURL:    {"Block the URL at the web proxy"},
	ioc.TypeEmail:  {"Search mail logs for messages from the sender"},
}

// RecommendedActions combines level and type guidance. Clean indicators
// get the level guidance only.
func RecommendedActions(level ioc.ThreatLevel, typ ioc.Type) []string {
	out := append([]string{}, levelActions[level]...)
	if level != ioc.ThreatClean && level != ioc.ThreatUnknown {
		out = append(out, typeActions[typ]...)
	}
	return out
}
