package admission

import "fmt"

// Rejection categories reported to API clients.
const (
	CategoryIllegalSchema = "illegal-schema"
	CategoryNotReachable  = "not-reachable"
	CategoryNotFound      = "not-found"
	CategoryUnsafe        = "unsafe"
	CategorySelfReference = "self-reference"
)

// Rejection describes why a URL was refused. It implements error so it can
// travel through the service layer unchanged and be unpacked by handlers.
type Rejection struct {
	Category string
	Reason   string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Category, r.Reason)
}
