// Package loader registers features and mounts their routes.
//
// A feature reports whether it is enabled and, when it is, registers its
// handlers on the router passed to Load:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager.LoadAll loads every enabled feature in registration order and stops
// at the first error.
package loader
