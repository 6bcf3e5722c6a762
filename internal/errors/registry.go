package errors

import (
	"sort"
	"sync"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

var (
	registryMu sync.RWMutex

	// registry maps error codes to their templates.
	registry = map[string]ErrorTemplate{
		// Upload (E100-E199)

		"E100": {
			Category: CategoryUpload,
			Message:  "Invalid upload size limit",
			Detail:   "The maximum upload size must be a positive number of bytes.",
		},
		"E101": {
			Category: CategoryUpload,
			Message:  "Invalid allowed type pattern",
			Detail:   "Allowed upload types are MIME types such as image/png, or a family wildcard such as image/*.",
		},

		// Configuration (E200-E299)

		"E200": {
			Category: CategoryConfig,
			Message:  "Config file unreadable",
			Detail:   "The configuration file exists but could not be read or parsed.",
		},
		"E201": {
			Category: CategoryConfig,
			Message:  "Invalid duration",
			Detail:   "Timeouts and idle limits must be positive durations such as 30s or 10m.",
		},
		"E202": {
			Category: CategoryConfig,
			Message:  "Invalid log level",
			Detail:   "The log level must be one of debug, info, warn or error.",
		},
		"E203": {
			Category: CategoryConfig,
			Message:  "Invalid log format",
			Detail:   "The log format must be text or json.",
		},
		"E204": {
			Category: CategoryConfig,
			Message:  "Invalid limit",
			Detail:   "Session and resource limits must be positive.",
		},

		// Server (E300-E399)

		"E300": {
			Category: CategoryServer,
			Message:  "Invalid listen address",
			Detail:   "The server address must be host:port, e.g. :8080 or 127.0.0.1:8080.",
		},
		"E301": {
			Category: CategoryServer,
			Message:  "Duplicate recipe route",
			Detail:   "Two recipes were mounted on the same route. Each recipe needs its own path.",
		},
		"E302": {
			Category: CategoryServer,
			Message:  "Listen failed",
			Detail:   "The server could not bind its address. Another process may already be using the port.",
		},
		"E303": {
			Category: CategoryServer,
			Message:  "Shutdown timed out",
			Detail:   "Open requests did not finish within the shutdown timeout and were cut off.",
		},
		"E304": {
			Category: CategoryServer,
			Message:  "Invalid recipe route",
			Detail:   "Recipe routes must be absolute paths below the index, e.g. /camera.",
		},
	}
)

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registryMu.Lock()
	registry[code] = template
	registryMu.Unlock()
}
