package scan

// Preset is a named, ready-to-use search pattern.
type Preset struct {
	Name    string
	Pattern string
	Regex   bool
}

// Presets is the built-in pattern catalog, in menu order. Every entry
// is a regex; case variants are spelled out in the pattern rather than
// relying on a case-insensitive flag.
var Presets = []Preset{
	{Name: "Error Messages", Pattern: `\b(error|ERROR|Error)\b`, Regex: true},
	{Name: "Warning Messages", Pattern: `\b(warning|WARNING|Warning|warn|WARN)\b`, Regex: true},
	{Name: "Exception Stack Traces", Pattern: `Exception|Traceback|at \w+\.\w+\(`, Regex: true},
	{Name: "Database Queries", Pattern: `(SELECT|INSERT|UPDATE|DELETE|CREATE|DROP)\b`, Regex: true},
	{Name: "HTTP Requests", Pattern: `(GET|POST|PUT|DELETE|PATCH)\s+/\S+`, Regex: true},
	{Name: "Email Addresses", Pattern: `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`, Regex: true},
	{Name: "IP Addresses", Pattern: `\b(?:\d{1,3}\.){3}\d{1,3}\b`, Regex: true},
	{Name: "Timestamps", Pattern: `\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}`, Regex: true},
}

// PresetByName looks a preset up by its menu name.
func PresetByName(name string) (Preset, bool) {
	for _, p := range Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
