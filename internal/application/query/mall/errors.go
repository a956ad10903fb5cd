// internal/application/query/mall/errors.go
package mall

import "errors"

// ErrNotFound is a shared sentinel error for "not found" in the mall query package.
// - handlers may check with errors.Is(err, mall.ErrNotFound)
var ErrNotFound = errors.New("not_found")
