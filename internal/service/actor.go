package service

// Actor is the signed-in user on whose behalf a service call runs.
type Actor struct {
	ID    uint
	Admin bool
}
