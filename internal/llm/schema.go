package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a JSON Schema a response must satisfy. It compiles on
// first use and is safe to share between goroutines.
type Schema struct {
	// Name is sent to providers that want one, e.g. "flashcard-batch".
	Name        string
	Description string
	Definition  map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

func (s *Schema) compile() (*jsonschema.Schema, error) {
	s.once.Do(func() {
		// The compiler wants plain decoded JSON, not Go literals.
		raw, err := json.Marshal(s.Definition)
		if err != nil {
			s.err = fmt.Errorf("marshal schema %q: %w", s.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			s.err = fmt.Errorf("decode schema %q: %w", s.Name, err)
			return
		}
		url := "mem://" + s.Name + ".json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(url, doc); err != nil {
			s.err = fmt.Errorf("add schema %q: %w", s.Name, err)
			return
		}
		s.compiled, s.err = c.Compile(url)
	})
	return s.compiled, s.err
}

// Validate checks raw against the schema. A nil Schema accepts anything.
// Failures are *Error with KindInvalid.
func (s *Schema) Validate(raw json.RawMessage) error {
	if s == nil {
		return nil
	}
	v, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	compiled, err := s.compile()
	if err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: err}
	}
	if err := compiled.Validate(v); err != nil {
		return &Error{Kind: KindInvalid, Content: raw, Err: err}
	}
	return nil
}
