package httputil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptionalStringUnmarshal(t *testing.T) {
	t.Parallel()

	type payload struct {
		ParentID OptionalString `json:"parent_id"`
	}

	t.Run("absent", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{}`), &p))
		require.False(t, p.ParentID.Present)
	})

	t.Run("null", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"parent_id": null}`), &p))
		require.True(t, p.ParentID.Present)
		require.Nil(t, p.ParentID.Value)
	})

	t.Run("value", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.NoError(t, json.Unmarshal([]byte(`{"parent_id": "abc"}`), &p))
		require.True(t, p.ParentID.Present)
		require.NotNil(t, p.ParentID.Value)
		require.Equal(t, "abc", *p.ParentID.Value)
	})

	t.Run("wrong type", func(t *testing.T) {
		t.Parallel()
		var p payload
		require.Error(t, json.Unmarshal([]byte(`{"parent_id": 7}`), &p))
	})
}
