package listings

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://estate.aretw0.dev/schemas/"

var (
	schemasOnce sync.Once
	schemas     map[string]*jsonschema.Schema
	schemasErr  error
)

// compileSchemas registers every embedded schema as a resource, so they can
// reference each other, then compiles them.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7

		names, err := fs.Glob(schemaFS, "schemas/*.json")
		if err != nil {
			schemasErr = err
			return
		}
		for _, name := range names {
			data, err := schemaFS.ReadFile(name)
			if err != nil {
				schemasErr = fmt.Errorf("failed to read schema %s: %w", name, err)
				return
			}
			if err := compiler.AddResource(schemaBaseURL+strings.TrimPrefix(name, "schemas/"), bytes.NewReader(data)); err != nil {
				schemasErr = fmt.Errorf("failed to add schema resource %s: %w", name, err)
				return
			}
		}

		compiled := make(map[string]*jsonschema.Schema, len(names))
		for _, name := range names {
			file := strings.TrimPrefix(name, "schemas/")
			schema, err := compiler.Compile(schemaBaseURL + file)
			if err != nil {
				schemasErr = fmt.Errorf("failed to compile schema %s: %w", name, err)
				return
			}
			compiled[strings.TrimSuffix(file, ".json")] = schema
		}
		schemas = compiled
	})
	return schemas, schemasErr
}

// validate checks v against the named schema and reports every violation.
func validate(name, record string, v any) error {
	compiled, err := compileSchemas()
	if err != nil {
		return err
	}
	schema, ok := compiled[name]
	if !ok {
		return fmt.Errorf("schema %q not found", name)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", record, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode %s: %w", record, err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("failed to validate %s: %w", record, err)
	}
	return &ValidationError{Record: record, Problems: problems(verr), cause: err}
}

// problems flattens a validation error tree into "field: message" lines.
func problems(verr *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if field == "" {
				field = "(root)"
			}
			out = append(out, fmt.Sprintf("%s: %s", field, e.Message))
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	sort.Strings(out)
	return out
}

// ValidateProperty checks a listing before it is saved.
func ValidateProperty(p Property) error {
	return validate("property", "property", p)
}

// ValidateTestimonial checks a review before it is saved.
func ValidateTestimonial(t Testimonial) error {
	return validate("testimonial", "testimonial", t)
}

// ValidateSiteContent checks the site copy before it is saved.
func ValidateSiteContent(c SiteContent) error {
	return validate("site-content", "site content", c)
}
