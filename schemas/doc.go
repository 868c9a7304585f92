// Package schema provides the JSON Schema definitions of the resource
// requests read from stdin.
//
// Every request is validated before it is decoded, so that malformed input
// is reported with the location of the offending field rather than as a
// generic decoding failure.
//
// # Schemas
//
// One schema exists per resource and script:
//
//	package-check, package-in, package-out
//	repository-check, repository-in, repository-out
//
// They share definitions from common.json: the string-or-file union, the
// list-or-file union and the credential union (literal, from_file or
// from_secret).
//
// # Usage Example
//
//	if err := schema.Validate(schema.PackageOut, input); err != nil {
//	    // errors.CodeOf(err) == errors.CodeSchemaFailed
//	}
package schema
