package linode

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Request body schemas, checked by WithData before a request is sent.
var (
	ContactSchema        = mustCompileSchema("contact")
	CredentialSchema     = mustCompileSchema("credential")
	ServiceMonitorSchema = mustCompileSchema("service-monitor")
	LinodeSettingsSchema = mustCompileSchema("linode-settings")
)

var printer = message.NewPrinter(language.English)

// Schema is a compiled JSON schema for one request payload.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Name returns the payload name the schema was compiled for.
func (s *Schema) Name() string {
	return s.name
}

func compileSchema(name string) (*Schema, error) {
	file := "schemas/" + name + ".json"
	raw, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	c := jsonschema.NewCompiler()
	c.AssertFormat()
	if err := c.AddResource(file, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(file)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", file, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

func mustCompileSchema(name string) *Schema {
	s, err := compileSchema(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks payload, as it would be encoded on the wire, against s.
// Violations are returned as a *ValidationError.
func (s *Schema) Validate(payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", s.name, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", s.name, err)
	}

	err = s.compiled.Validate(inst)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	errs := fieldErrors(verr, nil)
	if len(errs) == 0 {
		errs = APIErrors{{Reason: verr.Error()}}
	}
	return &ValidationError{Schema: s.name, Errors: errs}
}

// fieldErrors flattens the leaves of a validation error tree.
func fieldErrors(verr *jsonschema.ValidationError, acc APIErrors) APIErrors {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			acc = fieldErrors(cause, acc)
		}
		return acc
	}

	field := strings.Join(verr.InstanceLocation, ".")
	if req, ok := verr.ErrorKind.(*kind.Required); ok {
		for _, missing := range req.Missing {
			name := missing
			if field != "" {
				name = field + "." + missing
			}
			acc = append(acc, APIError{Field: name, Reason: fmt.Sprintf("%s is required.", missing)})
		}
		return acc
	}
	return append(acc, APIError{Field: field, Reason: verr.ErrorKind.LocalizedString(printer)})
}
