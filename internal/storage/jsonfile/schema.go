package jsonfile

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/slok/todo/internal/model"
)

//go:embed todos.schema.json
var tasksSchemaJSON string

var tasksSchema = jsonschema.MustCompileString("todos.schema.json", tasksSchemaJSON)

// validateDocument checks the shape of a decoded JSON document against the task
// list schema. The returned error is a model.ValidationError pointing to the
// first offending location.
func validateDocument(doc any) error {
	err := tasksSchema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	leaf := firstLeaf(ve)
	field := jsonPointerToPath(leaf.InstanceLocation)
	if field == "" {
		field = "document"
	}

	return model.ValidationError{Field: field, Reason: leaf.Message}
}

func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}

// jsonPointerToPath converts `/2/description` into `[2].description`.
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
