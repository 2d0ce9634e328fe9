package illustration

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/drcalm/internal/domain/illustration"
)

// AssetPrefix marks an entry whose value is an object key in the asset store.
const AssetPrefix = "asset:"

// Defaults is the pre-authored illustration table. Ids with "" have no asset
// yet and fall through to AI generation.
var Defaults = map[string]string{
	"GASTRITIS":          "",
	"REFLUX":             "https://media4.giphy.com/media/v1.Y2lkPTc5MGI3NjExaWk0Mmw5d3gyYmc2cDQ5cmNza29lZ3dxY2U2OGp3NW8wMWNoNWY5eSZlcD12MV9pbnRlcm5hbF9naWZfYnlfaWQmY3Q9Zw/HsQ5wYKCT88ysaLqbx/giphy.gif",
	"PANCREATITIS":       "https://media1.giphy.com/media/v1.Y2lkPTc5MGI3NjExZXgwbmk1eWlkbG05cWwzcXFjcmtscXB4YTdqc3h1OXpnbDFxYXdtNSZlcD12MV9pbnRlcm5hbF9naWZfYnlfaWQmY3Q9Zw/AkOeJX1XDNKjLBVHVt/giphy.gif",
	"APPENDICITIS":       "",
	"UTI":                "",
	"COLITIS":            "",
	"TENSION_HEADACHE":   "",
	"CHOLECYSTITIS":      "",
	"GALLBLADDER_POLYPS": "https://media.giphy.com/media/P7cfWwcSXK2pq4Igc5/giphy.gif",
	"FOLLICULITIS":       "https://media.giphy.com/media/JRVICuUiyzabq2Pn8T/giphy.gif",
	"CIRRHOSIS":          "https://media.giphy.com/media/GFA8yQ3OmtNvE3jjb9/giphy.gif",
}

// AssetResolver turns an object key into a public URL. It returns "" with a
// nil error when the object does not exist.
type AssetResolver interface {
	ResolveAsset(ctx context.Context, key string) (string, error)
}

// Table is the in-memory Catalog. It is read-only after Load.
type Table struct {
	urls map[string]string
}

var _ domain.Catalog = (*Table)(nil)

// New builds a table from Defaults plus overrides without an asset store.
// Asset entries stay empty.
func New(overrides map[string]string) *Table {
	return Load(context.Background(), overrides, nil, nil)
}

// Load builds the table and resolves every asset entry through r. A nil
// resolver or a failed lookup leaves the entry empty so the id falls through
// to generation.
func Load(ctx context.Context, overrides map[string]string, r AssetResolver, log *zap.Logger) *Table {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Table{urls: make(map[string]string, len(Defaults)+len(overrides))}
	for id, url := range merge(overrides) {
		key, isAsset := strings.CutPrefix(url, AssetPrefix)
		if !isAsset {
			t.urls[id] = url
			continue
		}
		t.urls[id] = ""
		if r == nil {
			log.Warn("illustration asset configured without asset store", zap.String("id", id), zap.String("key", key))
			continue
		}
		resolved, err := r.ResolveAsset(ctx, key)
		if err != nil {
			log.Warn("illustration asset lookup failed", zap.String("id", id), zap.String("key", key), zap.Error(err))
			continue
		}
		if resolved == "" {
			log.Warn("illustration asset missing", zap.String("id", id), zap.String("key", key))
			continue
		}
		t.urls[id] = resolved
	}
	return t
}

func merge(overrides map[string]string) map[string]string {
	out := make(map[string]string, len(Defaults)+len(overrides))
	for id, url := range Defaults {
		out[id] = url
	}
	for id, url := range overrides {
		out[normalize(id)] = strings.TrimSpace(url)
	}
	return out
}

func normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Lookup implements domain.Catalog.
func (t *Table) Lookup(id string) string {
	id = normalize(id)
	if id == "" {
		return ""
	}
	return strings.TrimSpace(t.urls[id])
}

// Entries implements domain.Catalog.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string)
	for id, url := range t.urls {
		if url != "" {
			out[id] = url
		}
	}
	return out
}
