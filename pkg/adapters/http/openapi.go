package http

import (
	_ "embed"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var rawSpec []byte

var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	return openapi3.NewLoader().LoadFromData(rawSpec)
})

// GetSwagger returns the parsed OpenAPI description served on /openapi.yaml.
func GetSwagger() (*openapi3.T, error) {
	return loadSpec()
}
