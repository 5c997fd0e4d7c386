package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"taskpad/internal/task"
)

// DefaultKey is the fixed key the to-do list is stored under.
const DefaultKey = "tasks"

//go:embed tasks.schema.json
var schemaJSON string

var listSchema = jsonschema.MustCompileString("tasks.schema.json", schemaJSON)

// ErrCorruptData marks a stored blob that is present but does not decode.
// It is distinct from an absent key, which loads as an empty list.
var ErrCorruptData = errors.New("corrupt task data")

// CorruptDataError reports a stored blob that failed to parse or validate.
type CorruptDataError struct {
	Key string // storage key the blob was read from
	Err error  // underlying parse or schema error
}

func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt task data at key %q: %s", e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCorruptData.
func (e *CorruptDataError) Is(target error) bool {
	return target == ErrCorruptData
}

// Gateway stores and retrieves the whole to-do list under one fixed key.
type Gateway struct {
	kv  KV
	key string
}

// NewGateway returns a Gateway over kv using DefaultKey.
func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv, key: DefaultKey}
}

// NewGatewayWithKey returns a Gateway over kv using a custom key.
func NewGatewayWithKey(kv KV, key string) *Gateway {
	return &Gateway{kv: kv, key: key}
}

// Load fetches and decodes the stored to-do list. An absent key yields an
// empty list and no error. A blob that does not parse, or that parses but
// violates the task list schema, yields a *CorruptDataError.
func (g *Gateway) Load(ctx context.Context) (task.List, error) {
	value, found, err := g.kv.Get(ctx, g.key)
	if err != nil {
		return nil, fmt.Errorf("read key %q: %w", g.key, err)
	}
	if !found {
		return task.List{}, nil
	}

	// Decode to a generic value first so schema validation sees the raw
	// shape, not the zero-filled struct form.
	var raw interface{}
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, &CorruptDataError{Key: g.key, Err: err}
	}
	if err := listSchema.Validate(raw); err != nil {
		return nil, &CorruptDataError{Key: g.key, Err: err}
	}

	var list task.List
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, &CorruptDataError{Key: g.key, Err: err}
	}
	return list, nil
}

// Save serializes the whole list and writes it to the fixed key, replacing
// any prior value.
func (g *Gateway) Save(ctx context.Context, list task.List) error {
	if list == nil {
		list = task.List{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task list: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if err := g.kv.Set(ctx, g.key, string(data)); err != nil {
		return fmt.Errorf("write key %q: %w", g.key, err)
	}
	return nil
}
