package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type soloBody struct {
	Events []string `json:"events"`
}

func (b *soloBody) Validate() []string {
	if len(b.Events) == 0 {
		return []string{"events is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantOK  bool
		wantMsg string
	}{
		{name: "valid", body: `{"events":["Cartoon"]}`, wantOK: true},
		{name: "empty body", body: "", wantMsg: "request body is required"},
		{name: "unknown field", body: `{"events":["Cartoon"],"chest_no":"001"}`, wantMsg: `json: unknown field "chest_no"`},
		{name: "two objects", body: `{"events":["Cartoon"]} {"events":["MIME"]}`, wantMsg: "request body must hold a single JSON object"},
		{name: "validation failure", body: `{"events":[]}`, wantMsg: "events is required"},
		{name: "too large", body: `{"events":["` + strings.Repeat("x", MaxRequestBody) + `"]}`, wantMsg: "request body exceeds 65536 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/registrations/me/solo", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var dest soloBody
			ok := DecodeAndValidate(w, req, &dest)

			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, []string{"Cartoon"}, dest.Events)
				return
			}
			require.Equal(t, http.StatusBadRequest, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeBadRequest, resp.Error.Code)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}
