package render

// Settings looks up a host setting by key. A nil Settings, a missing key or
// a value of the wrong type all select the default.
type Settings func(key string) any

// Setting keys read by the renderers.
const (
	KeyPrefix           = "prefix"           // coordinate-space prefix, "" for base coordinates
	KeyDefaultNodeColor = "defaultNodeColor" // fill colour of nodes without one
	KeyDefaultNodeType  = "defaultNodeType"  // shape of nodes without one
	KeyFreeStyle        = "freeStyle"        // retained updates leave colours to stylesheets
	KeyClassPrefix      = "classPrefix"      // prefix of retained element classes and ids
	KeyXMLNS            = "xmlns"            // namespace of retained elements
	KeyClipPathBase     = "clipPathBase"     // document URL prepended to clip path references
)

var defaultSettings = map[string]any{
	KeyPrefix:           "",
	KeyDefaultNodeColor: "#000",
	KeyDefaultNodeType:  "circle",
	KeyFreeStyle:        false,
	KeyClassPrefix:      "sigma",
	KeyXMLNS:            "http://www.w3.org/2000/svg",
	KeyClipPathBase:     "",
}

// DefaultSetting returns the built-in default for key.
func DefaultSetting(key string) any { return defaultSettings[key] }

// MapSettings serves settings from a map.
func MapSettings(m map[string]any) Settings {
	return func(key string) any { return m[key] }
}

// String returns a string setting. Empty strings select the default.
func (s Settings) String(key string) string {
	if s != nil {
		if v, ok := s(key).(string); ok && v != "" {
			return v
		}
	}
	v, _ := defaultSettings[key].(string)
	return v
}

// Bool returns a boolean setting.
func (s Settings) Bool(key string) bool {
	if s != nil {
		if v, ok := s(key).(bool); ok {
			return v
		}
	}
	v, _ := defaultSettings[key].(bool)
	return v
}
