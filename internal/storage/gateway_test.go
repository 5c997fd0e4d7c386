package storage

import (
	"context"
	"errors"
	"testing"

	"taskpad/internal/task"
)

// memKV is an in-memory KV for gateway tests.
type memKV struct {
	values map[string]string
	getErr error
	setErr error
}

func newMemKV() *memKV {
	return &memKV{values: make(map[string]string)}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memKV) Close() error { return nil }

func TestLoadAbsentKeyYieldsEmptyList(t *testing.T) {
	g := NewGateway(newMemKV())

	list, err := g.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if list == nil {
		t.Fatal("Load returned nil list for absent key")
	}
	if len(list) != 0 {
		t.Errorf("list length: got %d, want 0", len(list))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := NewGateway(newMemKV())
	ctx := context.Background()

	alloc := task.NewAllocator()
	var list task.List
	list, first, _ := list.Add(alloc, "Buy milk")
	list, _, _ = list.Add(alloc, "Walk dog")
	list, _ = list.Toggle(first.ID)

	if err := g.Save(ctx, list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != len(list) {
		t.Fatalf("list length: got %d, want %d", len(loaded), len(list))
	}
	for i := range list {
		if loaded[i].ID != list[i].ID {
			t.Errorf("task %d ID: got %d, want %d", i, loaded[i].ID, list[i].ID)
		}
		if loaded[i].Text != list[i].Text {
			t.Errorf("task %d Text: got %q, want %q", i, loaded[i].Text, list[i].Text)
		}
		if loaded[i].Completed != list[i].Completed {
			t.Errorf("task %d Completed: got %v, want %v", i, loaded[i].Completed, list[i].Completed)
		}
	}
}

func TestSaveEmptyList(t *testing.T) {
	g := NewGateway(newMemKV())
	ctx := context.Background()

	if err := g.Save(ctx, nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := g.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("list length: got %d, want 0", len(loaded))
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"wrong top-level type", `{"tasks": []}`},
		{"missing required field", `[{"id": 1, "text": "hi"}]`},
		{"wrong id type", `[{"id": "T1", "text": "hi", "completed": false}]`},
		{"empty text", `[{"id": 1, "text": "", "completed": false}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			kv.values[DefaultKey] = tt.blob
			g := NewGateway(kv)

			_, err := g.Load(context.Background())
			if err == nil {
				t.Fatal("Load succeeded on corrupt blob")
			}
			if !errors.Is(err, ErrCorruptData) {
				t.Errorf("error is not ErrCorruptData: %v", err)
			}
			var corrupt *CorruptDataError
			if !errors.As(err, &corrupt) {
				t.Fatalf("error is not *CorruptDataError: %v", err)
			}
			if corrupt.Key != DefaultKey {
				t.Errorf("Key: got %q, want %q", corrupt.Key, DefaultKey)
			}
		})
	}
}

func TestLoadStoreFailureIsNotCorruptData(t *testing.T) {
	kv := newMemKV()
	kv.getErr = errors.New("disk on fire")
	g := NewGateway(kv)

	_, err := g.Load(context.Background())
	if err == nil {
		t.Fatal("Load succeeded despite store failure")
	}
	if errors.Is(err, ErrCorruptData) {
		t.Error("store failure misreported as corrupt data")
	}
}

func TestGatewayWithCustomKey(t *testing.T) {
	kv := newMemKV()
	g := NewGatewayWithKey(kv, "archive")
	ctx := context.Background()

	alloc := task.NewAllocator()
	list, _, _ := task.List(nil).Add(alloc, "old task")
	if err := g.Save(ctx, list); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := kv.values["archive"]; !ok {
		t.Error("value not written under custom key")
	}
	if _, ok := kv.values[DefaultKey]; ok {
		t.Error("value leaked to default key")
	}
}
