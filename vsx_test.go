package vsx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/vsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := vsx.Errorf(vsx.ENOTFOUND, "stencil %q not found", "test")

	assert.Equal(t, vsx.ENOTFOUND, vsx.ErrorCode(err))
	assert.Equal(t, "stencil \"test\" not found", vsx.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, vsx.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, vsx.ErrorMessage(nil))
}

func TestPropertyValue_JSON(t *testing.T) {
	t.Parallel()

	t.Run("round trips each kind", func(t *testing.T) {
		t.Parallel()

		props := vsx.Properties{
			"color": vsx.StringPropertyValue("red"),
			"ports": vsx.NumberPropertyValue(24),
			"rack":  vsx.BoolPropertyValue(true),
		}

		data, err := json.Marshal(props)
		require.NoError(t, err)

		var got vsx.Properties
		require.NoError(t, json.Unmarshal(data, &got))

		assert.Equal(t, vsx.PropertyString, got["color"].Kind)
		assert.Equal(t, "red", got["color"].String)
		assert.Equal(t, vsx.PropertyNumber, got["ports"].Kind)
		assert.Equal(t, 24.0, got["ports"].Number)
		assert.Equal(t, vsx.PropertyBool, got["rack"].Kind)
		assert.True(t, got["rack"].Bool)
	})

	t.Run("rejects non-scalar values", func(t *testing.T) {
		t.Parallel()

		var v vsx.PropertyValue
		err := json.Unmarshal([]byte(`{"nested":true}`), &v)
		require.Error(t, err)
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(err))
	})
}

func TestFingerprint_Equal(t *testing.T) {
	t.Parallel()

	base := vsx.FileInfo{Path: "/a/b.vssx", Size: 10, ModTime: mustTime(t, "2024-05-01T10:00:00Z")}

	t.Run("equal for identical state", func(t *testing.T) {
		t.Parallel()
		other := base
		assert.True(t, base.Fingerprint().Equal(other.Fingerprint()))
	})

	t.Run("differs on size change", func(t *testing.T) {
		t.Parallel()
		other := base
		other.Size = 11
		assert.False(t, base.Fingerprint().Equal(other.Fingerprint()))
	})

	t.Run("differs on mtime change", func(t *testing.T) {
		t.Parallel()
		other := base
		other.ModTime = mustTime(t, "2024-05-02T10:00:00Z")
		assert.False(t, base.Fingerprint().Equal(other.Fingerprint()))
	})

	t.Run("ignores sub-second drift", func(t *testing.T) {
		t.Parallel()
		other := base
		other.ModTime = base.ModTime.Add(500e6) // 500ms
		assert.True(t, base.Fingerprint().Equal(other.Fingerprint()))
	})
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestSearchQuery_Validate(t *testing.T) {
	t.Parallel()

	valid := vsx.SearchQuery{Term: "pump", Page: 1, PageSize: 20}
	require.NoError(t, valid.Validate())

	t.Run("rejects page zero", func(t *testing.T) {
		t.Parallel()
		q := valid
		q.Page = 0
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(q.Validate()))
	})

	t.Run("rejects oversized page size", func(t *testing.T) {
		t.Parallel()
		q := valid
		q.PageSize = 1000
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(q.Validate()))
	})

	t.Run("rejects inverted width range", func(t *testing.T) {
		t.Parallel()
		q := valid
		lo, hi := 5.0, 1.0
		q.Filters.MinWidth = &lo
		q.Filters.MaxWidth = &hi
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(q.Validate()))
	})

	t.Run("rejects property value without key", func(t *testing.T) {
		t.Parallel()
		q := valid
		q.Filters.PropertyValue = "red"
		assert.Equal(t, vsx.EINVALID, vsx.ErrorCode(q.Validate()))
	})
}
