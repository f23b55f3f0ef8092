package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Text is a string field that also accepts JSON numbers and booleans, keeping
// their textual form. null decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*t = Text(data)
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("cannot cast %s to string", truncate(data))
		}
		*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

// TextList is the options field. A lone scalar is taken as a one-element
// list.
type TextList []Text

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var item Text
	if err := item.UnmarshalJSON(data); err != nil {
		return err
	}
	*l = TextList{item}
	return nil
}

// QuestionInput is one question as submitted to the ingestion endpoint.
// Unknown fields, including a client-supplied _id, are dropped.
type QuestionInput struct {
	Question      Text       `json:"question" validate:"required"`
	Options       TextList   `json:"options" validate:"required,min=1,dive,required"`
	CorrectOption Text       `json:"correctOption" validate:"required"`
	Explanation   Text       `json:"explanation"`
	Subject       Text       `json:"subject"`
	Chapter       Text       `json:"chapter"`
	Topic         Text       `json:"topic"`
	ExamType      Text       `json:"examType"`
	CreatedAt     *time.Time `json:"createdAt"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the required fields and returns a *ValidationError listing
// every failing path.
func (in *QuestionInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Path: fieldPath(fe), Message: fieldMessage(fe)}
	}
	return &ValidationError{Fields: fields}
}

// fieldPath turns "QuestionInput.options[1]" into "options.1".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.ReplaceAll(ns, "]", "")
	return strings.ReplaceAll(ns, "[", ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch {
	case fe.Kind() == reflect.Slice:
		return "at least one option is required"
	case fe.Tag() == "required":
		return "is required"
	default:
		return "failed the " + fe.Tag() + " rule"
	}
}

// ToQuestion builds the record to persist. createdAt is used only when the
// input carries no timestamp of its own.
func (in *QuestionInput) ToQuestion(createdAt time.Time) Question {
	options := make([]string, len(in.Options))
	for i, opt := range in.Options {
		options[i] = string(opt)
	}

	if in.CreatedAt != nil && !in.CreatedAt.IsZero() {
		createdAt = in.CreatedAt.UTC().Truncate(time.Millisecond)
	}

	return Question{
		Question:      string(in.Question),
		Options:       options,
		CorrectOption: string(in.CorrectOption),
		Explanation:   string(in.Explanation),
		Subject:       string(in.Subject),
		Chapter:       string(in.Chapter),
		Topic:         string(in.Topic),
		ExamType:      string(in.ExamType),
		CreatedAt:     createdAt,
	}
}

// ValidateBatch validates every input. Paths are prefixed with the element
// index, a single-object payload being element 0.
func ValidateBatch(inputs []QuestionInput) error {
	var fields []FieldError
	for i := range inputs {
		err := inputs[i].Validate()
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for _, f := range verr.Fields {
			fields = append(fields, FieldError{Path: fmt.Sprintf("[%d].%s", i, f.Path), Message: f.Message})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func truncate(data []byte) string {
	const limit = 32
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
