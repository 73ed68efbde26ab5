package assets

// AINames is the pool AI cells take their display names from.
var AINames = []string{
	"amoeba", "paramecium", "volvox", "euglena", "stentor",
	"vorticella", "diatom", "rotifer", "hydra", "tardigrade",
	"plankton", "spirogyra", "chlorella", "blob", "nucleus",
	"mitochondria", "ribosome", "vacuole", "flagellum", "cilia",
	"protist", "bacillus", "coccus", "spirillum", "archaea",
}
