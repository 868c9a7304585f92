package schema

import "embed"

// Files contains the embedded JSON Schema documents:
//   - common.json: shared definitions (from_file and from_secret unions)
//   - package-*.json: requests of the package resource
//   - repository-*.json: requests of the repository resource
//
//go:embed json/*.json
var Files embed.FS

// dir is the directory of the schema documents inside Files.
const dir = "json"
