package tenant

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/raumfrei/offerd/internal/offers/domain"
	"github.com/stretchr/testify/require"
)

func validHousingForm() json.RawMessage {
	return json.RawMessage(`{
		"landlord": {"name": "M. Muster", "phone": "0841 1234"},
		"accommodation": {"totalArea": 54.5, "rooms": 2},
		"costs": {"baseRent": 600, "runningCosts": 120}
	}`)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(DefaultConfigs(), DefaultHooks())
	require.NoError(t, err)
	return r
}

func TestRegistry_Resolve(t *testing.T) {
	r := newTestRegistry(t)

	tn, ok := r.Resolve("neuburgschrobenhausenwohnraum")
	require.True(t, ok)
	require.Equal(t, "Wohnraumbörse Neuburg-Schrobenhausen", tn.Name)

	_, ok = r.Resolve("nosuchtenant")
	require.False(t, ok)
}

func TestRegistry_RejectsUnknownEnrichment(t *testing.T) {
	configs := []Config{{
		Key:        "broken",
		Name:       "Broken",
		FormSchema: json.RawMessage(`{"type":"object"}`),
		Enrichment: "doesnotexist",
	}}

	_, err := NewRegistry(configs, DefaultHooks())
	require.Error(t, err)
}

func TestRegistry_RejectsDuplicateKeys(t *testing.T) {
	configs := append(DefaultConfigs(), DefaultConfigs()[0])
	_, err := NewRegistry(configs, DefaultHooks())
	require.Error(t, err)
}

func TestValidateForm(t *testing.T) {
	r := newTestRegistry(t)
	tn, ok := r.Resolve("bayreuthwohnraum")
	require.True(t, ok)

	t.Run("valid form passes", func(t *testing.T) {
		require.NoError(t, tn.ValidateForm(validHousingForm()))
	})

	t.Run("missing required section fails", func(t *testing.T) {
		err := tn.ValidateForm(json.RawMessage(`{"landlord": {"name": "X", "phone": "123"}}`))
		require.Error(t, err)
	})

	t.Run("wrong type fails", func(t *testing.T) {
		err := tn.ValidateForm(json.RawMessage(`{
			"landlord": {"name": "X", "phone": "123"},
			"accommodation": {"totalArea": "big", "rooms": 2}
		}`))
		require.Error(t, err)
	})

	t.Run("malformed json fails", func(t *testing.T) {
		err := tn.ValidateForm(json.RawMessage(`{not json`))
		require.Error(t, err)
	})
}

func TestEnrich_TotalRent(t *testing.T) {
	r := newTestRegistry(t)
	tn, ok := r.Resolve("neuburgschrobenhausenwohnraum")
	require.True(t, ok)

	enriched := tn.Enrich(domain.PublicOffer{FormData: validHousingForm()})
	require.Equal(t, 720.0, enriched.Additional["totalRent"])
}

func TestEnrich_NoHook(t *testing.T) {
	r := newTestRegistry(t)
	tn, ok := r.Resolve("bayreuthwohnraum")
	require.True(t, ok)

	enriched := tn.Enrich(domain.PublicOffer{FormData: validHousingForm()})
	require.Nil(t, enriched.Additional)
}

func TestEnrich_MissingCosts(t *testing.T) {
	r := newTestRegistry(t)
	tn, ok := r.Resolve("neuburgschrobenhausenwohnraum")
	require.True(t, ok)

	enriched := tn.Enrich(domain.PublicOffer{FormData: json.RawMessage(`{
		"landlord": {"name": "X", "phone": "123"},
		"accommodation": {"totalArea": 30, "rooms": 1}
	}`)})
	require.Nil(t, enriched.Additional)
}

func TestLoadConfigs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tenants.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{
			"key": "custom",
			"name": "Custom Portal",
			"formSchema": {"type": "object", "required": ["x"], "properties": {"x": {"type": "string"}}}
		}
	]`), 0o600))

	configs, err := LoadConfigs(path)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	require.Equal(t, "custom", configs[0].Key)

	r, err := NewRegistry(configs, nil)
	require.NoError(t, err)

	tn, ok := r.Resolve("custom")
	require.True(t, ok)
	require.NoError(t, tn.ValidateForm(json.RawMessage(`{"x": "y"}`)))
	require.Error(t, tn.ValidateForm(json.RawMessage(`{}`)))
}
