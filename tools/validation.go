package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/vidarchive/mcp-server/internal/archive"
	"github.com/vidarchive/mcp-server/internal/markdown"
)

// schemaID anchors the embedded schema in the compiler; nothing is fetched.
const schemaID = "https://vidarchive.dev/schema/archive-data.schema.json"

var (
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
	compileSchemaOnce sync.Once
)

// archiveSchema compiles the embedded archive-data schema once. A compile
// failure is remembered so callers can fall back to structural checks.
func archiveSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		raw, err := defaultDataProvider.ReadFile(schemaAsset)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("read embedded schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
		if err != nil {
			compiledSchemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaID, doc); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		compiledSchema, compiledSchemaErr = compiler.Compile(schemaID)
	})
	return compiledSchema, compiledSchemaErr
}

// isFilePath determines if a string is a file path rather than JSON content
func isFilePath(s string) bool {
	if s == "" {
		return false
	}

	// JSON content starts with { or [ (ignoring whitespace)
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}

	// Unix absolute path
	if strings.HasPrefix(s, "/") {
		return true
	}

	// Relative path
	if strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") {
		return true
	}

	// Windows absolute path (C:\, D:\, etc.)
	if len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') {
		return true
	}

	// Bare filename with .json extension
	if strings.HasSuffix(s, ".json") && !strings.Contains(s, "\n") {
		return true
	}

	return false
}

// ValidationError represents a validation error with its JSON path
type ValidationError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidateArchiveDataInput defines input for validate_archive_data tool
type ValidateArchiveDataInput struct {
	Data string `json:"data" jsonschema:"Archive data as inline JSON or a path to a data.json file"`
}

// ValidateArchiveDataOutput defines output for validate_archive_data tool
type ValidateArchiveDataOutput struct {
	Valid   bool              `json:"valid"`
	Method  string            `json:"method"` // "schema" or "structural"
	Files   int               `json:"files"`
	Links   int               `json:"links"`
	Errors  []ValidationError `json:"errors"`
	Summary string            `json:"summary"`
}

// ValidateArchiveData validates a data.json document against the embedded
// archive schema, falling back to structural checks when the schema cannot
// be used.
func ValidateArchiveData(ctx context.Context, req *mcp.CallToolRequest, input ValidateArchiveDataInput) (*mcp.CallToolResult, ValidateArchiveDataOutput, error) {
	output := ValidateArchiveDataOutput{Errors: []ValidationError{}}

	content := input.Data
	if isFilePath(input.Data) {
		raw, err := os.ReadFile(input.Data)
		if err != nil {
			var msg string
			switch {
			case os.IsNotExist(err):
				msg = fmt.Sprintf("Data file not found: %s", input.Data)
			case os.IsPermission(err):
				msg = fmt.Sprintf("Permission denied reading file: %s", input.Data)
			default:
				msg = fmt.Sprintf("Failed to read data file '%s': %s", input.Data, err.Error())
			}
			output.Method = "file_read"
			output.Errors = append(output.Errors, ValidationError{
				Path:    input.Data,
				Message: msg,
				Code:    "FILE_READ_ERROR",
			})
			output.Summary = "Data file could not be read"
			return nil, output, nil
		}
		content = string(raw)
	}

	// Syntax first: everything downstream needs parseable JSON
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(content))
	if err != nil {
		output.Method = "syntax"
		output.Errors = append(output.Errors, ValidationError{
			Message: fmt.Sprintf("Invalid JSON: %s", err.Error()),
			Code:    "INVALID_JSON",
		})
		output.Summary = "Data has JSON syntax errors"
		return nil, output, nil
	}

	schema, err := archiveSchema()
	if err != nil {
		// Embedded schema unusable; structural checks still catch the
		// shape errors that break the viewer
		return nil, validateStructural(content, err), nil
	}

	output.Method = "schema"
	if err := schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			output.Errors = flattenSchemaErrors(validationErr)
		} else {
			output.Errors = append(output.Errors, ValidationError{
				Message: err.Error(),
				Code:    "SCHEMA_VALIDATION_ERROR",
			})
		}
		output.Summary = fmt.Sprintf("Archive data failed schema validation with %d error(s)", len(output.Errors))
		return nil, output, nil
	}

	// Schema passed; count what was validated for the summary
	var files []archive.FileData
	if err := json.Unmarshal([]byte(content), &files); err == nil {
		output.Files = len(files)
		for _, f := range files {
			output.Links += f.LinkCount
		}
	}

	output.Valid = true
	output.Summary = fmt.Sprintf("Archive data is valid: %d file(s), %d link(s)", output.Files, output.Links)
	return nil, output, nil
}

// flattenSchemaErrors converts a jsonschema validation error tree to flat
// errors with JSON paths. Leaf causes carry the specific messages.
func flattenSchemaErrors(validationErr *jsonschema.ValidationError) []ValidationError {
	var errors []ValidationError

	path := "$"
	if len(validationErr.InstanceLocation) > 0 {
		path = "$." + strings.Join(validationErr.InstanceLocation, ".")
	}

	if len(validationErr.Causes) == 0 {
		errors = append(errors, ValidationError{
			Path:    path,
			Message: validationErr.Error(),
			Code:    "SCHEMA_VALIDATION_ERROR",
		})
	}

	for _, cause := range validationErr.Causes {
		errors = append(errors, flattenSchemaErrors(cause)...)
	}

	return errors
}

// validateStructural is the fallback when the embedded schema cannot be
// compiled: decode into the real data model and check the invariants the
// viewer depends on.
func validateStructural(content string, schemaErr error) ValidateArchiveDataOutput {
	output := ValidateArchiveDataOutput{
		Method: "structural",
		Errors: []ValidationError{},
	}

	var files []archive.FileData
	if err := json.Unmarshal([]byte(content), &files); err != nil {
		output.Errors = append(output.Errors, ValidationError{
			Path:    "$",
			Message: fmt.Sprintf("Data is not an array of file records: %s", err.Error()),
			Code:    "INVALID_SHAPE",
		})
		output.Summary = "Archive data failed structural validation"
		return output
	}

	for i, file := range files {
		loc := fmt.Sprintf("$[%d]", i)
		if file.Name == "" {
			output.Errors = append(output.Errors, ValidationError{
				Path:    loc + ".name",
				Message: "Missing or empty file name",
				Code:    "MISSING_FIELD",
			})
		}
		if file.Path == "" {
			output.Errors = append(output.Errors, ValidationError{
				Path:    loc + ".path",
				Message: "Missing or empty viewer path",
				Code:    "MISSING_FIELD",
			})
		}
		if file.Content == nil {
			output.Errors = append(output.Errors, ValidationError{
				Path:    loc + ".content",
				Message: "Missing parsed content",
				Code:    "MISSING_FIELD",
			})
			continue
		}

		if file.LinkCount != len(file.Content.Links) {
			output.Errors = append(output.Errors, ValidationError{
				Path:    loc + ".linkCount",
				Message: fmt.Sprintf("linkCount is %d but content holds %d flat links", file.LinkCount, len(file.Content.Links)),
				Code:    "COUNT_MISMATCH",
			})
		}
		if attached := attachedLinkCount(file.Content); attached != len(file.Content.Links) {
			output.Errors = append(output.Errors, ValidationError{
				Path:    loc + ".content.links",
				Message: fmt.Sprintf("Flat link list holds %d links but %d are attached under categories", len(file.Content.Links), attached),
				Code:    "COUNT_MISMATCH",
			})
		}
		for j, link := range file.Content.Links {
			if link.Title == "" || link.URL == "" {
				output.Errors = append(output.Errors, ValidationError{
					Path:    fmt.Sprintf("%s.content.links[%d]", loc, j),
					Message: "Link with empty title or url",
					Code:    "EMPTY_LINK",
				})
			}
		}

		output.Links += len(file.Content.Links)
	}
	output.Files = len(files)

	if len(output.Errors) == 0 {
		output.Valid = true
		output.Summary = fmt.Sprintf("Archive data passed structural checks: %d file(s), %d link(s) (embedded schema unavailable: %v)", output.Files, output.Links, schemaErr)
	} else {
		output.Summary = fmt.Sprintf("Archive data failed structural validation with %d error(s)", len(output.Errors))
	}
	return output
}

// attachedLinkCount sums the links attached under categories,
// subcategories, and the uncategorized bucket.
func attachedLinkCount(doc *markdown.Document) int {
	n := len(doc.UncategorizedLinks)
	for _, cat := range doc.Categories {
		n += len(cat.Links)
		for _, sub := range cat.Subcategories {
			n += len(sub.Links)
		}
	}
	return n
}

// RegisterValidationTools registers the archive data validation tool
func RegisterValidationTools(server *mcp.Server) error {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "validate_archive_data",
			Description: "Validate a data.json document (inline JSON or file path) against the archive data schema. Reports every violation with its JSON path. Falls back to structural invariant checks if the embedded schema is unusable.",
		},
		ValidateArchiveData,
	)

	return nil
}
