package listing

// Filters is a raw search parameter bag keyed by field name
type Filters map[string]any

// GeoFilterKeys are the keys routed to the geo sub-entity, in query order
var GeoFilterKeys = []string{"acreage", "state", "city", "county", "zip", "longitude", "latitude"}

// PriceFilterKeys are the keys routed to the price sub-entity, in query order
var PriceFilterKeys = []string{"price"}

// Condition is one exact-match predicate on a sub-entity column
type Condition struct {
	Column string
	Value  any
}

// Project keeps only allow-listed keys and splits them between geo and price.
// Unknown keys are dropped silently. Conditions follow the allow-list order.
func (f Filters) Project() (geo, price []Condition) {
	return pick(f, GeoFilterKeys), pick(f, PriceFilterKeys)
}

// Empty reports whether no allow-listed key is present
func (f Filters) Empty() bool {
	geo, price := f.Project()
	return len(geo) == 0 && len(price) == 0
}

func pick(f Filters, keys []string) []Condition {
	var out []Condition
	for _, k := range keys {
		if v, ok := f[k]; ok && v != nil {
			out = append(out, Condition{Column: k, Value: v})
		}
	}
	return out
}
