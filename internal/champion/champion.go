// Package champion canonicalizes champion names and expands the handful of
// internal-vs-display aliases Riot documents carry.
package champion

import "strings"

// aliases maps lowercase variants to the canonical Match-V5 championName.
var aliases = map[string]string{
	"wukong":       "MonkeyKing",
	"monkeyking":   "MonkeyKing",
	"fiddlesticks": "FiddleSticks",
	"renata":       "Renata",
	"renataglasc":  "Renata",
	"nunu":         "Nunu",
	"nunuwillump":  "Nunu",
	"nunu&willump": "Nunu",
	"drmundo":      "DrMundo",
	"dr.mundo":     "DrMundo",
	"jarvaniv":     "JarvanIV",
	"jarvan":       "JarvanIV",
	"kogmaw":       "KogMaw",
	"kog'maw":      "KogMaw",
	"chogath":      "Chogath",
	"cho'gath":     "Chogath",
	"khazix":       "Khazix",
	"kha'zix":      "Khazix",
	"velkoz":       "Velkoz",
	"vel'koz":      "Velkoz",
	"kaisa":        "Kaisa",
	"kai'sa":       "Kaisa",
	"belveth":      "Belveth",
	"bel'veth":     "Belveth",
	"ksante":       "KSante",
	"k'sante":      "KSante",
	"leblanc":      "Leblanc",
	"masteryi":     "MasterYi",
	"missfortune":  "MissFortune",
	"twistedfate":  "TwistedFate",
	"xinzhao":      "XinZhao",
	"leesin":       "LeeSin",
	"tahmkench":    "TahmKench",
	"reksai":       "RekSai",
	"rek'sai":      "RekSai",
	"aurelionsol":  "AurelionSol",
}

// Canonical resolves a user- or API-supplied champion name to its canonical
// form. Unrecognized names pass through with surrounding whitespace trimmed,
// so new champions work without a table update.
func Canonical(name string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	if c, ok := aliases[key]; ok {
		return c
	}
	return strings.TrimSpace(name)
}

// Variants returns every stored-form spelling a query for name should match,
// canonical form first.
func Variants(name string) []string {
	c := Canonical(name)
	out := []string{c}
	seen := map[string]struct{}{strings.ToLower(c): {}}
	for alias, canon := range aliases {
		if canon != c {
			continue
		}
		if _, dup := seen[alias]; dup {
			continue
		}
		seen[alias] = struct{}{}
		out = append(out, alias)
	}
	return out
}

// Equal reports whether two champion names refer to the same champion.
func Equal(a, b string) bool {
	return strings.EqualFold(Canonical(a), Canonical(b))
}
