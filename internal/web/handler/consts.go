package handler

import "errors"

const (
	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// APIPath is the prefix of all JSON routes.
	APIPath = "/api"

	// IDParam is the route parameter holding a numeric resource id.
	IDParam = "id"
)

// ErrNilDeps is returned by Init when app or deps are incomplete.
var ErrNilDeps = errors.New("app or handler dependencies are nil")
