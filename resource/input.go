package resource

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/concourse-bintray-resources/secrets"
)

// fileRef is the {"from_file": "..."} form shared by every union.
type fileRef struct {
	FromFile string `json:"from_file"`
}

// StringOrFile is a string given inline or read from a file.
type StringOrFile struct {
	// Value is the inline string
	Value string

	// FromFile is the file holding the value, relative to the working directory
	FromFile string
}

// StringListOrFile is a list of strings given inline, as a single string or
// read from a file holding one entry per line.
type StringListOrFile struct {
	// Values are the inline entries
	Values []string

	// FromFile is the file holding the entries, relative to the working directory
	FromFile string
}

// Credential is a sensitive string given inline, read from a file or
// resolved through the secrets manager.
type Credential struct {
	// Value is the inline value
	Value string

	// FromFile is the file holding the value, relative to the working directory
	FromFile string

	// FromSecret references the secret holding the value
	FromSecret *secrets.SecretRef
}

// UnmarshalJSON accepts a string or a from_file object.
func (s *StringOrFile) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '"':
		*s = StringOrFile{}
		return json.Unmarshal(data, &s.Value)
	case '{':
		ref, err := decodeFileRef(data)
		if err != nil {
			return err
		}
		*s = StringOrFile{FromFile: ref.FromFile}
		return nil
	default:
		return fmt.Errorf("expected a string or a from_file object, got %s", data)
	}
}

// MarshalJSON renders the value in the form it was given.
func (s StringOrFile) MarshalJSON() ([]byte, error) {
	if s.FromFile != "" {
		return json.Marshal(fileRef{FromFile: s.FromFile})
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts a list of strings, a string or a from_file object.
func (l *StringListOrFile) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '[':
		*l = StringListOrFile{}
		return json.Unmarshal(data, &l.Values)
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = StringListOrFile{Values: []string{v}}
		return nil
	case '{':
		ref, err := decodeFileRef(data)
		if err != nil {
			return err
		}
		*l = StringListOrFile{FromFile: ref.FromFile}
		return nil
	default:
		return fmt.Errorf("expected a list, a string or a from_file object, got %s", data)
	}
}

// MarshalJSON renders the value in the form it was given.
func (l StringListOrFile) MarshalJSON() ([]byte, error) {
	if l.FromFile != "" {
		return json.Marshal(fileRef{FromFile: l.FromFile})
	}
	if l.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.Values)
}

// UnmarshalJSON accepts a string, a from_file object or a from_secret object.
func (c *Credential) UnmarshalJSON(data []byte) error {
	switch firstByte(data) {
	case '"':
		*c = Credential{}
		return json.Unmarshal(data, &c.Value)
	case '{':
		var obj struct {
			FromFile   *string            `json:"from_file"`
			FromSecret *secrets.SecretRef `json:"from_secret"`
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&obj); err != nil {
			return err
		}
		switch {
		case obj.FromFile != nil && obj.FromSecret == nil:
			*c = Credential{FromFile: *obj.FromFile}
		case obj.FromSecret != nil && obj.FromFile == nil:
			*c = Credential{FromSecret: obj.FromSecret}
		default:
			return fmt.Errorf("expected exactly one of from_file and from_secret")
		}
		return nil
	default:
		return fmt.Errorf("expected a string, a from_file or a from_secret object, got %s", data)
	}
}

// MarshalJSON renders the credential with any inline value redacted.
func (c Credential) MarshalJSON() ([]byte, error) {
	switch {
	case c.FromSecret != nil:
		return json.Marshal(map[string]*secrets.SecretRef{"from_secret": c.FromSecret})
	case c.FromFile != "":
		return json.Marshal(fileRef{FromFile: c.FromFile})
	default:
		return json.Marshal(Redacted)
	}
}

// String implements fmt.Stringer without revealing inline values.
func (c Credential) String() string {
	switch {
	case c.FromSecret != nil:
		return "secret " + c.FromSecret.Name
	case c.FromFile != "":
		return "file " + c.FromFile
	default:
		return Redacted
	}
}

func decodeFileRef(data []byte) (fileRef, error) {
	var ref fileRef
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ref); err != nil {
		return ref, err
	}
	if ref.FromFile == "" {
		return ref, fmt.Errorf("from_file cannot be empty")
	}
	return ref, nil
}

func firstByte(data []byte) byte {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return 0
	}
	return data[0]
}
