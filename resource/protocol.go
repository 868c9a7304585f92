// Package resource holds the pieces shared by the Concourse resources: the
// request unions and their resolution, request decoding and the response
// shapes written to stdout.
package resource

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
	schema "github.com/rabbitmq/concourse-bintray-resources/schemas"
)

// Script is one of the executables a Concourse resource provides.
type Script string

const (
	// Check lists new versions.
	Check Script = "check"

	// In fetches a version.
	In Script = "in"

	// Out publishes a version.
	Out Script = "out"
)

// Scripts lists the known scripts.
var Scripts = []Script{Check, In, Out}

// Env carries the per-invocation context of a script.
type Env struct {
	// Resolver resolves request unions against the working directory
	Resolver *Resolver

	// Logger receives progress messages; stdout is reserved for the response
	Logger *slog.Logger
}

// Handler runs a script on a raw request and returns the response to encode.
type Handler func(ctx context.Context, env *Env, input []byte) (any, error)

// Handlers maps each script to its implementation.
type Handlers map[Script]Handler

// Metadata is a name/value pair displayed by Concourse next to a version.
type Metadata struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Response is the result of the in and out scripts.
type Response[V any] struct {
	Version  V          `json:"version"`
	Metadata []Metadata `json:"metadata"`
}

// NewResponse creates a response with an empty, non-nil metadata list.
func NewResponse[V any](version V) *Response[V] {
	return &Response[V]{Version: version, Metadata: []Metadata{}}
}

// Add appends a metadata entry when value is not empty.
func (r *Response[V]) Add(name, value string) *Response[V] {
	if value != "" {
		r.Metadata = append(r.Metadata, Metadata{Name: name, Value: value})
	}
	return r
}

// Decode validates input against the named schema and decodes it into v.
// Unknown fields are rejected.
func Decode(name schema.Name, input []byte, v any) error {
	if err := schema.Validate(name, input); err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidInput, "failed to decode %s request", name)
	}
	return nil
}
