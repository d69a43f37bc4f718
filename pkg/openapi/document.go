// Package openapi builds a machine-readable OpenAPI 3 description of the
// wire contract spoken by the strict client: the endpoints, their
// request/response schemas and the supported security schemes. The document
// is derived from the SDK's own Go types so it cannot drift from what the
// client actually sends.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/strictproc/strict-go/pkg/strict"
)

// Config holds document metadata.
type Config struct {
	Title       string
	Version     string
	Description string
	Servers     []string
}

var (
	processorTypeType = reflect.TypeOf(strict.ProcessorType(""))
	signalTypeType    = reflect.TypeOf(strict.SignalType(""))
)

// Document builds the OpenAPI description of the service contract.
func Document(cfg *Config) (*openapi3.T, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	title := cfg.Title
	if title == "" {
		title = "strict processing service"
	}
	version := cfg.Version
	if version == "" {
		version = strict.Version
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: cfg.Description,
		},
		Paths: &openapi3.Paths{},
		Components: &openapi3.Components{
			SecuritySchemes: openapi3.SecuritySchemes{
				"ApiKeyAuth": &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{
						Type: "apiKey",
						In:   "header",
						Name: "X-API-Key",
					},
				},
				"BearerAuth": &openapi3.SecuritySchemeRef{
					Value: &openapi3.SecurityScheme{
						Type:         "http",
						Scheme:       "bearer",
						BearerFormat: "JWT",
					},
				},
			},
		},
	}

	for _, server := range cfg.Servers {
		doc.Servers = append(doc.Servers, &openapi3.Server{URL: server})
	}

	health, err := jsonOperation("Service health check", nil, reflect.TypeOf(strict.HealthResponse{}), false)
	if err != nil {
		return nil, err
	}
	doc.Paths.Set("/health", &openapi3.PathItem{Get: health})

	login, err := formOperation("Exchange credentials for a bearer token", reflect.TypeOf(strict.Token{}))
	if err != nil {
		return nil, err
	}
	doc.Paths.Set("/token", &openapi3.PathItem{Post: login})

	process, err := jsonOperation("Process a request",
		reflect.TypeOf(strict.ProcessingRequest{}), reflect.TypeOf(strict.OutputSchema{}), true)
	if err != nil {
		return nil, err
	}
	doc.Paths.Set("/process/request", &openapi3.PathItem{Post: process})

	validate, err := jsonOperation("Validate a signal configuration",
		reflect.TypeOf(strict.SignalConfig{}), reflect.TypeOf(strict.ValidationResponse{}), true)
	if err != nil {
		return nil, err
	}
	doc.Paths.Set("/validate/signal", &openapi3.PathItem{Post: validate})

	return doc, nil
}

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal OpenAPI document to JSON: %w", err)
	}
	return data, nil
}

// MarshalYAML renders the document as YAML.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal OpenAPI document: %w", err)
	}
	var tree any
	if err := json.Unmarshal(jsonData, &tree); err != nil {
		return nil, fmt.Errorf("rebuild OpenAPI document tree: %w", err)
	}
	data, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshal OpenAPI document to YAML: %w", err)
	}
	return data, nil
}

// jsonOperation builds an operation with an optional JSON request body and
// a JSON success response.
func jsonOperation(summary string, requestType, responseType reflect.Type, secured bool) (*openapi3.Operation, error) {
	operation := &openapi3.Operation{
		Summary:   summary,
		Responses: &openapi3.Responses{},
	}

	if requestType != nil {
		requestSchema, err := schemaFromType(requestType)
		if err != nil {
			return nil, fmt.Errorf("request schema for %s: %w", requestType, err)
		}
		operation.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content: map[string]*openapi3.MediaType{
					"application/json": {Schema: requestSchema},
				},
			},
		}
	}

	if err := setSuccessResponse(operation, responseType); err != nil {
		return nil, err
	}

	if secured {
		operation.Security = &openapi3.SecurityRequirements{
			{"ApiKeyAuth": []string{}},
			{"BearerAuth": []string{}},
		}
	}
	return operation, nil
}

// formOperation builds the /token operation, which takes an OAuth2 password
// form rather than a JSON body.
func formOperation(summary string, responseType reflect.Type) (*openapi3.Operation, error) {
	formSchema := &openapi3.Schema{
		Type: &openapi3.Types{"object"},
		Properties: map[string]*openapi3.SchemaRef{
			"username": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			"password": {Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
		Required: []string{"username", "password"},
	}

	operation := &openapi3.Operation{
		Summary:   summary,
		Responses: &openapi3.Responses{},
		RequestBody: &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{
				Required: true,
				Content: map[string]*openapi3.MediaType{
					"application/x-www-form-urlencoded": {Schema: &openapi3.SchemaRef{Value: formSchema}},
				},
			},
		},
	}

	if err := setSuccessResponse(operation, responseType); err != nil {
		return nil, err
	}
	return operation, nil
}

func setSuccessResponse(operation *openapi3.Operation, responseType reflect.Type) error {
	responseSchema, err := schemaFromType(responseType)
	if err != nil {
		return fmt.Errorf("response schema for %s: %w", responseType, err)
	}

	description := http.StatusText(http.StatusOK)
	operation.Responses.Set("200", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &description,
			Content: map[string]*openapi3.MediaType{
				"application/json": {Schema: responseSchema},
			},
		},
	})
	return nil
}

// schemaFromType derives an OpenAPI schema from a Go type, following json
// tags. The SDK's closed enumerations become string schemas with enum sets.
func schemaFromType(t reflect.Type) (*openapi3.SchemaRef, error) {
	switch t {
	case processorTypeType:
		return enumSchema(strict.ProcessorTypes()), nil
	case signalTypeType:
		return enumSchema(strict.SignalTypes()), nil
	}

	schema := &openapi3.Schema{}

	switch t.Kind() {
	case reflect.String:
		schema.Type = &openapi3.Types{"string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema.Type = &openapi3.Types{"integer"}
	case reflect.Float32, reflect.Float64:
		schema.Type = &openapi3.Types{"number"}
	case reflect.Bool:
		schema.Type = &openapi3.Types{"boolean"}
	case reflect.Struct:
		schema.Type = &openapi3.Types{"object"}
		schema.Properties = make(map[string]*openapi3.SchemaRef)

		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			jsonTag := field.Tag.Get("json")
			if jsonTag == "" || jsonTag == "-" {
				continue
			}
			parts := strings.Split(jsonTag, ",")
			fieldName := parts[0]
			omitempty := len(parts) > 1 && parts[1] == "omitempty"

			fieldSchema, err := schemaFromType(field.Type)
			if err != nil {
				return nil, err
			}
			schema.Properties[fieldName] = fieldSchema

			if !omitempty {
				schema.Required = append(schema.Required, fieldName)
			}
		}
	case reflect.Slice, reflect.Array:
		schema.Type = &openapi3.Types{"array"}
		itemSchema, err := schemaFromType(t.Elem())
		if err != nil {
			return nil, err
		}
		schema.Items = itemSchema
	case reflect.Map:
		schema.Type = &openapi3.Types{"object"}
		hasAdditional := true
		schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &hasAdditional}
	case reflect.Ptr:
		return schemaFromType(t.Elem())
	case reflect.Interface:
		// Open payloads (OutputSchema.Result) have no fixed shape.
		return &openapi3.SchemaRef{Value: &openapi3.Schema{}}, nil
	default:
		return nil, fmt.Errorf("unsupported type %s", t)
	}

	return &openapi3.SchemaRef{Value: schema}, nil
}

func enumSchema[T ~string](values []T) *openapi3.SchemaRef {
	tags := make([]any, len(values))
	for i, v := range values {
		tags[i] = string(v)
	}
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"string"},
			Enum: tags,
		},
	}
}
