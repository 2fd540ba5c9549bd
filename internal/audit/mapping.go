package audit

import (
	"net/http"
	"strings"
)

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

const apiPrefix = "/api/v1/"

// ParseRoute returns action and resource for a route template such as
// "/api/v1/storage/count/plus/:id". The resource is the first segment after the
// API prefix; the action comes from a verb segment, falling back to the HTTP method.
func ParseRoute(method, route string) ActionResource {
	rest, ok := strings.CutPrefix(route, apiPrefix)
	if !ok || rest == "" {
		return ActionResource{Action: methodToAction(method), Resource: "unknown"}
	}
	segs := strings.Split(strings.Trim(rest, "/"), "/")
	resource := segs[0]
	for _, s := range segs[1:] {
		switch s {
		case "add":
			return ActionResource{Action: "create", Resource: resource}
		case "delete":
			return ActionResource{Action: "delete", Resource: resource}
		case "plus":
			return ActionResource{Action: "increment", Resource: resource}
		case "mines":
			return ActionResource{Action: "decrement", Resource: resource}
		case "register":
			return ActionResource{Action: "register", Resource: "user"}
		}
	}
	return ActionResource{Action: methodToAction(method), Resource: resource}
}

// IsMutating reports whether requests with method change state and are audited.
func IsMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func methodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	case http.MethodGet, http.MethodHead:
		return "get"
	default:
		return strings.ToLower(method)
	}
}
