// Package strict is a client SDK for the strict processing service.
//
// A Client performs stateless, typed request/response exchanges over
// HTTP(S): it serializes a request, injects the configured credential,
// interprets the status code and decodes the validated response. Every
// failure mode maps to a typed error (ValidationError,
// InvalidCredentialError, TransportError, APIError, SchemaError) for the
// caller to branch on; the client never retries and never swallows a
// failure.
//
//	client := strict.New("https://api.example.com", "my-api-key")
//	out, err := client.ProcessRequest(ctx, strict.ProcessingRequest{
//		InputData:   "payload",
//		InputTokens: 42,
//	})
package strict

// Version is the SDK version, also sent as part of the User-Agent header.
const Version = "0.1.0"
