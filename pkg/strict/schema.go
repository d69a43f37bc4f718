package strict

// Wire schemas for the processing service. Field names match the service's
// JSON contract exactly; optional fields are pointers so that "absent" and
// "zero" survive a round-trip.

// ProcessingRequest is the outbound payload for ProcessRequest.
type ProcessingRequest struct {
	InputData      string         `json:"input_data" validate:"required"`
	InputTokens    int            `json:"input_tokens" validate:"gte=0"`
	ProcessorType  *ProcessorType `json:"processor_type,omitempty"`
	TimeoutSeconds *float64       `json:"timeout_seconds,omitempty" validate:"omitempty,gt=0"`
}

// ValidationResult is the server's assessment of the input, embedded in
// every successful processing response.
type ValidationResult struct {
	Status    string   `json:"status"`
	IsValid   bool     `json:"is_valid"`
	InputHash string   `json:"input_hash"`
	Errors    []string `json:"errors"`
	// Warnings is emitted by current service versions but absent from
	// older ones; decoding tolerates both.
	Warnings []string `json:"warnings,omitempty"`
}

// OutputSchema is the inbound payload for ProcessRequest. Result has no
// fixed shape and is left as a decoded JSON tree.
type OutputSchema struct {
	Result           any              `json:"result"`
	Validation       ValidationResult `json:"validation"`
	ProcessorUsed    ProcessorType    `json:"processor_used" validate:"required"`
	ProcessingTimeMs float64          `json:"processing_time_ms" validate:"gte=0"`
	// RetriesAttempted is optional on the wire; absent decodes as 0.
	RetriesAttempted int `json:"retries_attempted,omitempty" validate:"gte=0"`
}

// SignalConfig describes a signal for ValidateSignal. Analog signals must
// additionally satisfy the Nyquist criterion (sampling_rate > 2*frequency),
// which is enforced by a struct-level validation.
type SignalConfig struct {
	SignalType   SignalType `json:"signal_type" validate:"required"`
	SamplingRate float64    `json:"sampling_rate" validate:"gt=0"`
	Frequency    float64    `json:"frequency" validate:"gt=0"`
	Amplitude    float64    `json:"amplitude" validate:"gte=0,lt=1"`
	Duration     float64    `json:"duration" validate:"gt=0"`
	Channels     int        `json:"channels" validate:"gte=1"`
}

// ValidationResponse is the inbound payload for ValidateSignal.
type ValidationResponse struct {
	Valid         bool           `json:"valid"`
	Errors        []string       `json:"errors"`
	ValidatedData map[string]any `json:"validated_data,omitempty"`
}

// HealthResponse is the inbound payload for Health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Ptr returns a pointer to v, for populating optional request fields.
func Ptr[T any](v T) *T { return &v }
