package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/rabbitmq/concourse-bintray-resources/errors"
)

// BaseURL is the URL the embedded documents are registered under. Relative
// references between documents resolve against it; nothing is fetched.
const BaseURL = "https://github.com/rabbitmq/concourse-bintray-resources/schemas/"

// Name identifies a request schema.
type Name string

const (
	// PackageCheck is the package resource check request.
	PackageCheck Name = "package-check"

	// PackageIn is the package resource in request.
	PackageIn Name = "package-in"

	// PackageOut is the package resource out request.
	PackageOut Name = "package-out"

	// RepositoryCheck is the repository resource check request.
	RepositoryCheck Name = "repository-check"

	// RepositoryIn is the repository resource in request.
	RepositoryIn Name = "repository-in"

	// RepositoryOut is the repository resource out request.
	RepositoryOut Name = "repository-out"
)

// Names lists every request schema.
var Names = []Name{
	PackageCheck, PackageIn, PackageOut,
	RepositoryCheck, RepositoryIn, RepositoryOut,
}

// URL returns the URL the schema is registered under.
func (n Name) URL() string {
	return BaseURL + string(n) + ".json"
}

// compiled compiles every request schema once and caches the result.
var compiled = sync.OnceValues(compileAll)

func compileAll() (map[Name]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.LoadURL = func(s string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("schema %s is not embedded", s)
	}

	entries, err := Files.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded schemas: %w", err)
	}
	for _, entry := range entries {
		data, err := Files.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		if err := c.AddResource(BaseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
	}

	schemas := make(map[Name]*jsonschema.Schema, len(Names))
	for _, name := range Names {
		s, err := c.Compile(name.URL())
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = s
	}
	return schemas, nil
}

// Validate checks that data is a JSON document matching the named schema.
//
// Malformed JSON is reported with errors.CodeInvalidInput and a schema
// mismatch with errors.CodeSchemaFailed.
func Validate(name Name, data []byte) error {
	schemas, err := compiled()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "embedded schemas are invalid")
	}
	s, ok := schemas[name]
	if !ok {
		return errors.Newf(errors.CodeInternal, "unknown schema %q", name)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidInput, "failed to parse %s request", name)
	}
	if dec.More() {
		return errors.Newf(errors.CodeInvalidInput, "trailing data after %s request", name)
	}

	if err := s.Validate(doc); err != nil {
		return errors.Wrapf(err, errors.CodeSchemaFailed, "invalid %s request", name)
	}
	return nil
}
