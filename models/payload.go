package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type PayloadKind int

const (
	SingleQuestion PayloadKind = iota + 1
	QuestionBatch
)

func (k PayloadKind) String() string {
	switch k {
	case SingleQuestion:
		return "single"
	case QuestionBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Payload is an ingestion body: either one question object or an array of
// them. Items always holds the raw elements as a sequence.
type Payload struct {
	Kind  PayloadKind
	Items []json.RawMessage
}

// DecodePayload classifies the body by its first non-space byte and splits
// it into raw elements. Element contents are not inspected here.
func DecodePayload(body []byte) (*Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	switch body[0] {
	case '{':
		if !json.Valid(body) {
			return nil, ErrInvalidPayload
		}
		return &Payload{Kind: SingleQuestion, Items: []json.RawMessage{json.RawMessage(body)}}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, ErrInvalidPayload
		}
		return &Payload{Kind: QuestionBatch, Items: items}, nil
	default:
		return nil, ErrInvalidPayload
	}
}

// Questions decodes every element. An element that is not a question object
// is reported as a *ValidationError at "[i]"; a single object is element 0.
func (p *Payload) Questions() ([]QuestionInput, error) {
	inputs := make([]QuestionInput, len(p.Items))
	var fields []FieldError

	for i, raw := range p.Items {
		path := fmt.Sprintf("[%d]", i)

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			fields = append(fields, FieldError{Path: path, Message: "must be an object"})
			continue
		}
		if err := json.Unmarshal(trimmed, &inputs[i]); err != nil {
			fields = append(fields, FieldError{Path: path, Message: err.Error()})
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return inputs, nil
}
