package chronodb

import "errors"

// ErrTypeMismatch is returned by GetTable when a name already names a
// table opened with a different element type than the one requested.
var ErrTypeMismatch = errors.New("chronodb: table already open with a different element type")
