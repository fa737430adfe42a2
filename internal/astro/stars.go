package astro

import "strings"

// Spectral class colours, from hot blue O stars to cool red M stars.
var spectralColors = map[byte]string{
	'O': "#9BB0FF",
	'B': "#AAC0FF",
	'A': "#CAD7FF",
	'F': "#F8F7FF",
	'G': "#FFF4EA",
	'K': "#FFD2A1",
	'M': "#FFCC6F",
}

// DefaultStarColor is used when the spectral type is missing or unknown.
const DefaultStarColor = "#FFFFFF"

// SpectralColor returns a hex colour for a spectral type such as "M1-M2Ia-Iab".
// Only the leading class letter is considered.
func SpectralColor(spectrum string) string {
	if spectrum == "" {
		return DefaultStarColor
	}
	if c, ok := spectralColors[strings.ToUpper(spectrum[:1])[0]]; ok {
		return c
	}
	return DefaultStarColor
}

// greekLetters maps the three-letter Bayer abbreviations used by the HYG
// catalogue to full letter names.
var greekLetters = map[string]string{
	"Alp": "Alpha",
	"Bet": "Beta",
	"Gam": "Gamma",
	"Del": "Delta",
	"Eps": "Epsilon",
	"Zet": "Zeta",
	"Eta": "Eta",
	"The": "Theta",
	"Iot": "Iota",
	"Kap": "Kappa",
	"Lam": "Lambda",
	"Mu":  "Mu",
	"Nu":  "Nu",
	"Xi":  "Xi",
	"Omi": "Omicron",
	"Pi":  "Pi",
	"Rho": "Rho",
	"Sig": "Sigma",
	"Tau": "Tau",
	"Ups": "Upsilon",
	"Phi": "Phi",
	"Chi": "Chi",
	"Psi": "Psi",
	"Ome": "Omega",
}

// ExpandBayer expands a Bayer abbreviation ("Alp", "Alp-1", "Kap1") to its
// full Greek letter name. Superscript suffixes are kept. Unknown input is
// returned unchanged.
func ExpandBayer(bayer string) string {
	if full, ok := greekLetters[bayer]; ok {
		return full
	}
	// HYG marks components as "Alp-1" or "Alp1"
	for i := len(bayer) - 1; i > 0; i-- {
		if full, ok := greekLetters[bayer[:i]]; ok {
			suffix := strings.TrimPrefix(bayer[i:], "-")
			if suffix != "" && strings.Trim(suffix, "0123456789") == "" {
				return full + suffix
			}
		}
	}
	return bayer
}
