package connect

import (
	jsonitor "github.com/json-iterator/go"
)

// json is the package-wide codec. ConfigCompatibleWithStandardLibrary keeps
// encoding/json semantics for struct tags, embedding, and number handling.
var json = jsonitor.ConfigCompatibleWithStandardLibrary
