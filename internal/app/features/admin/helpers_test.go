package admin_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

var errTest = errors.New("entry write failed")

func decodeArray(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}
