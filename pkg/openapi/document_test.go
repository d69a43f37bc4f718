package openapi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strictproc/strict-go/pkg/openapi"
)

func TestDocument_Validates(t *testing.T) {
	doc, err := openapi.Document(&openapi.Config{
		Title:   "strict processing service",
		Version: "0.1.0",
		Servers: []string{"https://api.example.com"},
	})
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestDocument_Paths(t *testing.T) {
	doc, err := openapi.Document(nil)
	require.NoError(t, err)

	health := doc.Paths.Find("/health")
	require.NotNil(t, health)
	assert.NotNil(t, health.Get)
	assert.Nil(t, health.Get.Security)

	token := doc.Paths.Find("/token")
	require.NotNil(t, token)
	require.NotNil(t, token.Post)
	require.NotNil(t, token.Post.RequestBody)
	assert.Contains(t, token.Post.RequestBody.Value.Content, "application/x-www-form-urlencoded")

	process := doc.Paths.Find("/process/request")
	require.NotNil(t, process)
	require.NotNil(t, process.Post)
	require.NotNil(t, process.Post.Security)

	validate := doc.Paths.Find("/validate/signal")
	require.NotNil(t, validate)
	assert.NotNil(t, validate.Post)
}

func TestDocument_ProcessRequestSchemas(t *testing.T) {
	doc, err := openapi.Document(nil)
	require.NoError(t, err)

	op := doc.Paths.Find("/process/request").Post

	reqSchema := op.RequestBody.Value.Content["application/json"].Schema.Value
	require.NotNil(t, reqSchema)
	assert.Contains(t, reqSchema.Properties, "input_data")
	assert.Contains(t, reqSchema.Properties, "processor_type")
	assert.ElementsMatch(t, []string{"input_data", "input_tokens"}, reqSchema.Required)
	assert.ElementsMatch(t, []any{"cloud", "local", "hybrid"},
		reqSchema.Properties["processor_type"].Value.Enum)

	respRef := op.Responses.Value("200")
	require.NotNil(t, respRef)
	respSchema := respRef.Value.Content["application/json"].Schema.Value
	assert.Contains(t, respSchema.Properties, "processor_used")
	assert.Contains(t, respSchema.Properties, "retries_attempted")
	assert.NotContains(t, respSchema.Required, "retries_attempted")
	assert.Contains(t, respSchema.Required, "processor_used")
}

func TestDocument_SecuritySchemes(t *testing.T) {
	doc, err := openapi.Document(nil)
	require.NoError(t, err)

	require.Contains(t, doc.Components.SecuritySchemes, "ApiKeyAuth")
	apiKey := doc.Components.SecuritySchemes["ApiKeyAuth"].Value
	assert.Equal(t, "apiKey", apiKey.Type)
	assert.Equal(t, "X-API-Key", apiKey.Name)

	require.Contains(t, doc.Components.SecuritySchemes, "BearerAuth")
	bearer := doc.Components.SecuritySchemes["BearerAuth"].Value
	assert.Equal(t, "http", bearer.Type)
	assert.Equal(t, "bearer", bearer.Scheme)
}

func TestMarshal(t *testing.T) {
	doc, err := openapi.Document(nil)
	require.NoError(t, err)

	jsonData, err := openapi.MarshalJSON(doc)
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"/process/request"`)

	yamlData, err := openapi.MarshalYAML(doc)
	require.NoError(t, err)
	assert.Contains(t, string(yamlData), "/process/request")
}
