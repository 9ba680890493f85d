package tenant

import (
	"encoding/json"

	"github.com/raumfrei/offerd/internal/offers/domain"
)

// housingFormSchema is the form schema shared by the built-in housing
// tenants. Deployments with different needs supply their own tenants file.
const housingFormSchema = `{
  "type": "object",
  "required": ["landlord", "accommodation"],
  "properties": {
    "landlord": {
      "type": "object",
      "required": ["name", "phone"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "phone": {"type": "string", "minLength": 3}
      }
    },
    "accommodation": {
      "type": "object",
      "required": ["totalArea", "rooms"],
      "properties": {
        "totalArea": {"type": "number", "exclusiveMinimum": 0},
        "rooms": {"type": "integer", "minimum": 1},
        "moveInDate": {"type": "string"}
      }
    },
    "costs": {
      "type": "object",
      "properties": {
        "baseRent": {"type": "number", "minimum": 0},
        "runningCosts": {"type": "number", "minimum": 0}
      }
    }
  }
}`

// DefaultConfigs returns the compiled-in tenants. These mirror the two
// deployments the service originally shipped with.
func DefaultConfigs() []Config {
	return []Config{
		{
			Key:        "neuburgschrobenhausenwohnraum",
			Name:       "Wohnraumbörse Neuburg-Schrobenhausen",
			FormSchema: json.RawMessage(housingFormSchema),
			Enrichment: "totalRent",
		},
		{
			Key:        "bayreuthwohnraum",
			Name:       "Bayreuth",
			FormSchema: json.RawMessage(housingFormSchema),
		},
	}
}

// DefaultHooks returns the enrichment hooks referenced by the built-in
// tenant configs.
func DefaultHooks() map[string]EnrichFunc {
	return map[string]EnrichFunc{
		"totalRent": totalRent,
	}
}

// totalRent attaches the sum of base rent and running costs so listings can
// show one figure without persisting a derived field.
func totalRent(o domain.PublicOffer) domain.PublicOffer {
	var form struct {
		Costs struct {
			BaseRent     *float64 `json:"baseRent"`
			RunningCosts *float64 `json:"runningCosts"`
		} `json:"costs"`
	}
	if err := json.Unmarshal(o.FormData, &form); err != nil {
		return o
	}
	if form.Costs.BaseRent == nil && form.Costs.RunningCosts == nil {
		return o
	}

	var total float64
	if form.Costs.BaseRent != nil {
		total += *form.Costs.BaseRent
	}
	if form.Costs.RunningCosts != nil {
		total += *form.Costs.RunningCosts
	}

	if o.Additional == nil {
		o.Additional = make(map[string]any, 1)
	}
	o.Additional["totalRent"] = total
	return o
}
