package errors

// Template defines a registered error type.
type Template struct {
	Category   Category
	Message    string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Runtime Errors (E101-E109)
	// ============================================

	"E101": {
		Category:   CategoryRuntime,
		Message:    "UseState called outside a component render",
		Suggestion: "Call UseState only from the body of a component function, using the context it was given",
	},
	"E102": {
		Category:   CategoryRuntime,
		Message:    "Root is already rendering",
		Suggestion: "Do not call Render or Flush from inside a component or while a pass is running",
	},
	"E103": {
		Category:   CategoryRuntime,
		Message:    "Render-phase update targets a different fiber",
		Suggestion: "A component may only update its own state while rendering; update other components from event handlers",
	},
	"E104": {
		Category:   CategoryRuntime,
		Message:    "Hook count changed between renders",
		Suggestion: "Call UseState unconditionally and in the same order on every render",
	},
	"E106": {
		Category:   CategoryRuntime,
		Message:    "Too many render-phase updates",
		Suggestion: "A component keeps updating its own state while rendering; make the update conditional",
	},

	// ============================================
	// Callback Errors (E107)
	// ============================================

	"E107": {
		Category:   CategoryCallback,
		Message:    "Callback not registered",
		Suggestion: "Give the host element an id prop and an on* handler, and render it before dispatching",
	},

	// ============================================
	// Element Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryElement,
		Message:  "Unknown element type",
	},
	"E111": {
		Category:   CategoryElement,
		Message:    "Malformed element key",
		Suggestion: "Keys must be strings or numbers",
	},
	"E112": {
		Category:   CategoryElement,
		Message:    "Malformed props",
		Suggestion: "children must be a string, an element, a slice of those, or nil",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category:   CategoryConfig,
		Message:    "Failed to read configuration",
		Suggestion: "Check that the file exists and is readable",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Failed to parse configuration",
		Suggestion: "Check that loom.yaml is valid YAML",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
