package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func TestRouteTemplate(t *testing.T) {
	t.Run("mux routes report their template", func(t *testing.T) {
		var got string
		router := mux.NewRouter()
		router.HandleFunc("/ask/{id}", func(w http.ResponseWriter, r *http.Request) {
			got = routeTemplate(r)
		})
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ask/42", nil))
		if got != "/ask/{id}" {
			t.Errorf("routeTemplate = %q, want /ask/{id}", got)
		}
	})

	t.Run("unrouted requests fall back to the path", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		if got := routeTemplate(r); got != "/healthz" {
			t.Errorf("routeTemplate = %q, want /healthz", got)
		}
	})
}

func TestStatusResponseWriter(t *testing.T) {
	t.Run("first status sticks", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srw := &statusResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
		srw.WriteHeader(http.StatusBadRequest)
		srw.WriteHeader(http.StatusInternalServerError)
		if srw.statusCode != http.StatusBadRequest || rec.Code != http.StatusBadRequest {
			t.Errorf("statusCode = %d, recorder = %d, want both 400", srw.statusCode, rec.Code)
		}
	})

	t.Run("write without explicit header defaults to 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srw := &statusResponseWriter{ResponseWriter: rec, statusCode: http.StatusOK}
		if _, err := srw.Write([]byte("ok")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if srw.statusCode != http.StatusOK {
			t.Errorf("statusCode = %d, want 200", srw.statusCode)
		}
	})
}
