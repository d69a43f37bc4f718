package strict

import (
	"encoding/json"
	"fmt"
)

// ProcessorType identifies which backend handled or should handle a request.
type ProcessorType string

const (
	ProcessorCloud  ProcessorType = "cloud"
	ProcessorLocal  ProcessorType = "local"
	ProcessorHybrid ProcessorType = "hybrid"
)

// SignalType classifies the signal carried by a processing input.
type SignalType string

const (
	SignalAnalog  SignalType = "analog"
	SignalDigital SignalType = "digital"
	SignalHybrid  SignalType = "hybrid"
)

// Known values for ValidationResult.Status. The field itself is free-form
// text and decoding does not reject other values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusPartial = "partial"
)

// Wire tags are mapped through explicit tables in both directions so that
// encoding is exhaustive and decoding rejects unknown tags.
var (
	processorTypeTags = map[ProcessorType]string{
		ProcessorCloud:  "cloud",
		ProcessorLocal:  "local",
		ProcessorHybrid: "hybrid",
	}
	processorTypesByTag = map[string]ProcessorType{
		"cloud":  ProcessorCloud,
		"local":  ProcessorLocal,
		"hybrid": ProcessorHybrid,
	}

	signalTypeTags = map[SignalType]string{
		SignalAnalog:  "analog",
		SignalDigital: "digital",
		SignalHybrid:  "hybrid",
	}
	signalTypesByTag = map[string]SignalType{
		"analog":  SignalAnalog,
		"digital": SignalDigital,
		"hybrid":  SignalHybrid,
	}
)

// ProcessorTypes returns all defined processor types.
func ProcessorTypes() []ProcessorType {
	return []ProcessorType{ProcessorCloud, ProcessorLocal, ProcessorHybrid}
}

// SignalTypes returns all defined signal types.
func SignalTypes() []SignalType {
	return []SignalType{SignalAnalog, SignalDigital, SignalHybrid}
}

// UnknownTagError reports a wire tag outside an enumeration's closed set.
type UnknownTagError struct {
	Enum string
	Tag  string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown %s tag %q", e.Enum, e.Tag)
}

// Valid reports whether p is one of the defined processor types.
func (p ProcessorType) Valid() bool {
	_, ok := processorTypeTags[p]
	return ok
}

func (p ProcessorType) String() string { return string(p) }

// MarshalJSON encodes the processor type as its wire tag. Encoding an
// undefined value is an error rather than a silent pass-through.
func (p ProcessorType) MarshalJSON() ([]byte, error) {
	tag, ok := processorTypeTags[p]
	if !ok {
		return nil, &UnknownTagError{Enum: "processor type", Tag: string(p)}
	}
	return json.Marshal(tag)
}

// UnmarshalJSON decodes a wire tag, rejecting tags outside the closed set.
func (p *ProcessorType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("processor type: %w", err)
	}
	v, ok := processorTypesByTag[tag]
	if !ok {
		return &UnknownTagError{Enum: "processor type", Tag: tag}
	}
	*p = v
	return nil
}

// Valid reports whether s is one of the defined signal types.
func (s SignalType) Valid() bool {
	_, ok := signalTypeTags[s]
	return ok
}

func (s SignalType) String() string { return string(s) }

// MarshalJSON encodes the signal type as its wire tag.
func (s SignalType) MarshalJSON() ([]byte, error) {
	tag, ok := signalTypeTags[s]
	if !ok {
		return nil, &UnknownTagError{Enum: "signal type", Tag: string(s)}
	}
	return json.Marshal(tag)
}

// UnmarshalJSON decodes a wire tag, rejecting tags outside the closed set.
func (s *SignalType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("signal type: %w", err)
	}
	v, ok := signalTypesByTag[tag]
	if !ok {
		return &UnknownTagError{Enum: "signal type", Tag: tag}
	}
	*s = v
	return nil
}
