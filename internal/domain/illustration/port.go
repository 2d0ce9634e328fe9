package illustration

// IDs is the closed list of illustration ids the model may return.
var IDs = []string{
	"GASTRITIS",
	"REFLUX",
	"PANCREATITIS",
	"APPENDICITIS",
	"UTI",
	"COLITIS",
	"TENSION_HEADACHE",
	"CHOLECYSTITIS",
	"GALLBLADDER_POLYPS",
	"FOLLICULITIS",
	"CIRRHOSIS",
}

// Catalog port (static id → pre-authored image URL lookup)
type Catalog interface {
	// Lookup returns the URL for id, or "" when id is empty, unknown or
	// mapped to no asset. Matching is case-insensitive.
	Lookup(id string) string
	// Entries returns a copy of every id with a non-empty URL.
	Entries() map[string]string
}
