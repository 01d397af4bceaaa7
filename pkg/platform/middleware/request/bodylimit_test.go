package request

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	read := func(maxBytes int64, body string) ([]byte, error) {
		var data []byte
		var err error
		handler := BodyLimit(maxBytes)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err = io.ReadAll(r.Body)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader(body)))
		return data, err
	}

	t.Run("body at the limit is read in full", func(t *testing.T) {
		data, err := read(100, strings.Repeat("x", 100))
		require.NoError(t, err)
		assert.Len(t, data, 100)
	})

	t.Run("body over the limit fails to read", func(t *testing.T) {
		_, err := read(100, strings.Repeat("x", 101))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request body too large")
	})

	t.Run("empty body passes", func(t *testing.T) {
		data, err := read(100, "")
		require.NoError(t, err)
		assert.Empty(t, data)
	})
}
