package models

// Viewer is the opaque identity a request carries. The zero value is the
// anonymous viewer.
type Viewer struct {
	ID       string
	Username string
}

// Authenticated reports whether the viewer carries a resolved identity.
func (v Viewer) Authenticated() bool {
	return v.ID != ""
}

// Anonymous is the viewer of an unauthenticated request.
var Anonymous = Viewer{}
