package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeData(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("success with data", func(t *testing.T) {
		env := &Envelope{Status: StatusSuccess, Data: json.RawMessage(`{"name":"x"}`), httpStatus: 200}
		got, err := decodeData[payload](env, "test.op", "fallback")
		require.NoError(t, err)
		assert.Equal(t, "x", got.Name)
	})

	t.Run("success with absent data yields zero value", func(t *testing.T) {
		env := &Envelope{Status: StatusSuccess, httpStatus: 200}
		got, err := decodeData[payload](env, "test.op", "fallback")
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("error status uses message", func(t *testing.T) {
		env := &Envelope{Status: "error", Message: "no such pharmacy", httpStatus: 404}
		_, err := decodeData[payload](env, "test.op", "fallback")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "no such pharmacy", apiErr.Message)
		assert.Equal(t, 404, apiErr.StatusCode)
		assert.Equal(t, "test.op", apiErr.Op)
	})

	t.Run("error status without message uses fallback", func(t *testing.T) {
		env := &Envelope{Status: "error", httpStatus: 500}
		_, err := decodeData[payload](env, "test.op", "Something went wrong")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Something went wrong", apiErr.Message)
	})

	t.Run("malformed data payload", func(t *testing.T) {
		env := &Envelope{Status: StatusSuccess, Data: json.RawMessage(`[not json`), httpStatus: 200}
		_, err := decodeData[payload](env, "test.op", "fallback")
		require.Error(t, err)
	})
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "fallback", orDefault("", "fallback"))
	assert.Equal(t, "set", orDefault("set", "fallback"))
	assert.Equal(t, 7, orDefault(0, 7))
	assert.Equal(t, 3, orDefault(3, 7))
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Op: "documents.list", StatusCode: 503, Message: "try again"}
	assert.Contains(t, err.Error(), "documents.list")
	assert.Contains(t, err.Error(), "try again")
}
