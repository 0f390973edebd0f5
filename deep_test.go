package cbor

import "github.com/go-test/deep"

// Token and Value keep every field unexported: both are closed tagged
// unions exposed only through constructors and typed accessors.
// go-test/deep ignores unexported fields unless told otherwise, so
// every deep.Equal comparison against a Token or Value in this
// package's tests needs this flag or it silently compares nothing.
func init() {
	deep.CompareUnexportedFields = true
}
