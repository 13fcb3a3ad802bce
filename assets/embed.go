package assets

import _ "embed"

// PhrasesYAML holds the default status and confirmation trigger phrases.
//
//go:embed phrases.yaml
var PhrasesYAML []byte
