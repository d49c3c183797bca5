// Package tool exposes the quiz operations as a closed set of named tools with
// explicit input and output structs, dispatched by name.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"quizbot/internal/auth"
	"quizbot/internal/domain"
	"quizbot/internal/logger"
	"quizbot/internal/validation"

	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
)

// Descriptor is the public description of one operation. The schemas are
// JSON Schema documents reflected from the input and output structs.
type Descriptor struct {
	Name         string             `json:"name"`
	Description  string             `json:"description"`
	InputSchema  *jsonschema.Schema `json:"input_schema"`
	OutputSchema *jsonschema.Schema `json:"output_schema"`
	Owned        bool               `json:"requires_token"`
}

// reflector inlines nested types and, like RunAnonymous, rejects unknown fields.
var reflector = jsonschema.Reflector{
	DoNotReference: true,
	ExpandedStruct: true,
}

func schemaFor[T any]() *jsonschema.Schema {
	return reflector.Reflect(new(T))
}

// AnonymousTool is an operation whose input arrives as raw JSON.
type AnonymousTool interface {
	Describe() Descriptor
	RunAnonymous(ctx context.Context, raw json.RawMessage) (any, error)
}

// sessionScoped inputs name the session they act on.
type sessionScoped interface {
	sessionRef() string
}

// Tool binds a typed handler to a name.
type Tool[I any, O any] struct {
	name        string
	description string
	owned       bool
	validator   *validation.Validator
	tokens      *auth.TokenManager
	run         func(ctx context.Context, in *I) (*O, error)
}

func (t *Tool[I, O]) Describe() Descriptor {
	return Descriptor{
		Name:         t.name,
		Description:  t.description,
		InputSchema:  schemaFor[I](),
		OutputSchema: schemaFor[O](),
		Owned:        t.owned,
	}
}

// RunAnonymous decodes raw strictly into I, validates it and runs the handler.
func (t *Tool[I, O]) RunAnonymous(ctx context.Context, raw json.RawMessage) (any, error) {
	in := new(I)
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(in); err != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid input for %s: %v", t.name, err))
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid input for %s: trailing data", t.name))
		}
	}
	if t.validator != nil {
		if errs := t.validator.Struct(in); len(errs) > 0 {
			return nil, errs
		}
	}
	if t.owned && t.tokens != nil {
		scoped, ok := any(in).(sessionScoped)
		if ok {
			if err := t.tokens.Authorize(BearerFromContext(ctx), scoped.sessionRef()); err != nil {
				return nil, domain.NewUnauthorizedError("a valid session token is required").WithContext("tool", t.name)
			}
		}
	}
	return t.run(ctx, in)
}

// Registry is the lookup table of operations.
type Registry struct {
	tools map[string]AnonymousTool
}

func (r *Registry) register(t AnonymousTool) {
	r.tools[t.Describe().Name] = t
}

// Dispatch runs the named operation. Unknown names are NOT_FOUND.
func (r *Registry) Dispatch(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("unknown tool: %s", name)).WithContext("tool", name)
	}
	out, err := t.RunAnonymous(ctx, raw)
	if err != nil {
		logger.Get().Debug("Tool call failed", zap.String("tool", name), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// Describe lists every operation sorted by name.
func (r *Registry) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Describe())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type bearerKey struct{}

// WithBearer attaches the caller's session token to ctx.
func WithBearer(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, bearerKey{}, token)
}

func BearerFromContext(ctx context.Context) string {
	token, _ := ctx.Value(bearerKey{}).(string)
	return token
}
