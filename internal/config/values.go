package config

// Values is a plain key/value registry for application settings that do
// not come from the environment (name, version, base path and the like).
// It is built once at startup and handed to whoever needs it; after that
// it is only read.
type Values struct {
	entries map[string]any
}

func NewValues() *Values {
	return &Values{entries: make(map[string]any)}
}

// Add stores a value under key, overwriting any previous entry.
func (v *Values) Add(key string, value any) {
	v.entries[key] = value
}

// Get returns the value stored under key, or def when the key is absent.
func (v *Values) Get(key string, def any) any {
	if value, ok := v.entries[key]; ok {
		return value
	}
	return def
}

func (v *Values) Has(key string) bool {
	_, ok := v.entries[key]
	return ok
}

// All returns a copy of every entry.
func (v *Values) All() map[string]any {
	out := make(map[string]any, len(v.entries))
	for k, val := range v.entries {
		out[k] = val
	}
	return out
}
