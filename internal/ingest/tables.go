package ingest

// defaultInclude lists the constellations kept from the catalogue.
var defaultInclude = []string{
	"And", "Aql", "Aur", "Boo", "CMa", "CMi", "Cas", "CrB", "Cyg",
	"Del", "Gem", "Her", "Hya", "Leo", "Lyr", "Ori", "Peg", "Per",
	"Psc", "Sgr", "Sco", "Tau", "UMa", "UMi", "Vir",
}

var defaultNames = map[string]string{
	"And": "Andromeda",
	"Aql": "Aquila",
	"Aur": "Auriga",
	"Boo": "Boötes",
	"CMa": "Canis Major",
	"CMi": "Canis Minor",
	"Cas": "Cassiopeia",
	"CrB": "Corona Borealis",
	"Cyg": "Cygnus",
	"Del": "Delphinus",
	"Gem": "Gemini",
	"Her": "Hercules",
	"Hya": "Hydra",
	"Leo": "Leo",
	"Lyr": "Lyra",
	"Ori": "Orion",
	"Peg": "Pegasus",
	"Per": "Perseus",
	"Psc": "Pisces",
	"Sgr": "Sagittarius",
	"Sco": "Scorpius",
	"Tau": "Taurus",
	"UMa": "Ursa Major",
	"UMi": "Ursa Minor",
	"Vir": "Virgo",
}

// defaultNotable names the main stars of each constellation by designation.
var defaultNotable = map[string][]string{
	"And": {"21 And", "Alpha And", "Beta And", "Gamma And"},
	"Aql": {"Alpha Aql", "Beta Aql", "Gamma Aql"},
	"Aur": {"Alpha Aur", "Beta Aur", "Epsilon Aur"},
	"Boo": {"Alpha Boo", "Epsilon Boo", "Eta Boo", "Gamma Boo"},
	"CMa": {"Alpha CMa", "Beta CMa", "Delta CMa"},
	"CMi": {"Alpha CMi", "Beta CMi"},
	"Cas": {"Alpha Cas", "Beta Cas", "Gamma Cas", "Delta Cas"},
	"CrB": {"Alpha CrB", "Beta CrB", "Gamma CrB"},
	"Cyg": {"Alpha Cyg", "Beta Cyg", "Gamma Cyg", "Delta Cyg", "Epsilon Cyg"},
	"Del": {"Alpha Del", "Beta Del", "Gamma Del"},
	"Gem": {"Alpha Gem", "Beta Gem", "Gamma Gem"},
	"Her": {"Alpha Her", "Beta Her", "Delta Her", "Epsilon Her"},
	"Hya": {"Alpha Hya", "Gamma Hya", "Zeta Hya"},
	"Leo": {"Alpha Leo", "Beta Leo", "Gamma Leo", "Delta Leo", "Epsilon Leo"},
	"Lyr": {"Alpha Lyr", "Beta Lyr", "Gamma Lyr"},
	"Ori": {"Alpha Ori", "Beta Ori", "Gamma Ori", "Delta Ori", "Epsilon Ori", "Zeta Ori"},
	"Peg": {"Alpha Peg", "Beta Peg", "Gamma Peg", "Epsilon Peg"},
	"Per": {"Alpha Per", "Beta Per", "Gamma Per", "Delta Per"},
	"Psc": {"Alpha Psc", "Eta Psc", "Gamma Psc", "Omega Psc"},
	"Sgr": {"Alpha Sgr", "Beta Sgr", "Gamma Sgr", "Delta Sgr", "Epsilon Sgr"},
	"Sco": {"Alpha Sco", "Beta Sco", "Delta Sco", "Lambda Sco"},
	"Tau": {"Alpha Tau", "Beta Tau", "Gamma Tau", "Delta Tau"},
	"UMa": {"Alpha UMa", "Beta UMa", "Gamma UMa", "Delta UMa", "Epsilon UMa", "Zeta UMa", "Eta UMa"},
	"UMi": {"Alpha UMi", "Beta UMi", "Gamma UMi"},
	"Vir": {"Alpha Vir", "Gamma Vir", "Delta Vir", "Epsilon Vir"},
}

// defaultConnections are the constellation lines, by designation.
var defaultConnections = map[string][][2]string{
	"UMa": {
		{"Alpha UMa", "Beta UMa"}, {"Beta UMa", "Gamma UMa"}, {"Gamma UMa", "Delta UMa"},
		{"Delta UMa", "Epsilon UMa"}, {"Epsilon UMa", "Zeta UMa"}, {"Zeta UMa", "Eta UMa"},
	},
	"Ori": {
		{"Alpha Ori", "Gamma Ori"}, {"Gamma Ori", "Beta Ori"}, {"Beta Ori", "Kappa Ori"},
		{"Alpha Ori", "Lambda Ori"}, {"Delta Ori", "Epsilon Ori"}, {"Epsilon Ori", "Zeta Ori"},
	},
	"Cyg": {
		{"Alpha Cyg", "Gamma Cyg"}, {"Gamma Cyg", "Delta Cyg"}, {"Gamma Cyg", "Epsilon Cyg"},
		{"Gamma Cyg", "Beta Cyg"},
	},
}
