package core

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapKV is a minimal KVStore; the real ones live in storage/kv.
type mapKV struct {
	data    map[string][]byte
	failSet error
}

func (kv *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := kv.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return val, nil
}

func (kv *mapKV) Set(_ context.Context, key string, value []byte) error {
	if kv.failSet != nil {
		return kv.failSet
	}
	kv.data[key] = value
	return nil
}

func (kv *mapKV) Delete(_ context.Context, key string) error {
	delete(kv.data, key)
	return nil
}

func TestLoadSaveJSON(t *testing.T) {
	ctx := context.Background()
	kv := &mapKV{data: map[string][]byte{}}

	type blob struct {
		Names []string `json:"names"`
	}

	var got blob
	assert.Equal(t, ErrKeyNotFound, LoadJSON(ctx, kv, "blob", &got))

	require.NoError(t, SaveJSON(ctx, kv, "blob", blob{Names: []string{"Design"}}))
	assert.JSONEq(t, `{"names": ["Design"]}`, string(kv.data["blob"]))

	require.NoError(t, LoadJSON(ctx, kv, "blob", &got))
	assert.Equal(t, blob{Names: []string{"Design"}}, got)

	kv.data["blob"] = []byte(`{"names": [`)
	err := LoadJSON(ctx, kv, "blob", &got)
	assert.True(t, IsCorrupted(err), "got %v", err)

	down := errors.New("down")
	kv.failSet = down
	err = SaveJSON(ctx, kv, "blob", blob{})
	assert.Equal(t, down, errors.Cause(err))
}
