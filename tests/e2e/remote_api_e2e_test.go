//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRemoteAPI_FullSeason(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 20 * time.Second}

	t.Run("healthz", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/healthz", nil)
		if status != http.StatusOK {
			t.Fatalf("healthz status=%d body=%s", status, string(body))
		}
	})

	t.Run("catalog", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/catalog/regions", nil)
		if status != http.StatusOK {
			t.Fatalf("regions status=%d body=%s", status, string(body))
		}
		var out map[string]any
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("unmarshal regions: %v body=%s", err, string(body))
		}
		if len(asSlice(out["regions"])) == 0 {
			t.Fatalf("expected non-empty region list")
		}
	})

	t.Run("create step harvest", func(t *testing.T) {
		status, createBody := mustJSON(t, client, http.MethodPost, baseURL+"/api/sessions", map[string]any{
			"region": envOr("E2E_REGION", "iowa"),
		})
		if status != http.StatusCreated {
			t.Fatalf("create status=%d body=%s", status, string(createBody))
		}
		var created map[string]any
		if err := json.Unmarshal(createBody, &created); err != nil {
			t.Fatalf("unmarshal create: %v body=%s", err, string(createBody))
		}
		session := asMap(created["session"])
		id, _ := session["session_id"].(string)
		if id == "" {
			t.Fatalf("missing session_id: %s", string(createBody))
		}
		weeks, _ := session["max_weeks"].(float64)

		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/sessions/"+id+"/harvest", nil)
		if status != http.StatusConflict {
			t.Fatalf("early harvest status=%d body=%s", status, string(body))
		}

		for w := 0; w < int(weeks); w++ {
			status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sessions/"+id+"/step", map[string]any{
				"irrigation": 15,
				"fertilizer": 8,
			})
			if status != http.StatusOK {
				t.Fatalf("week %d status=%d body=%s", w+1, status, string(body))
			}
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/sessions/"+id+"/harvest", nil)
		if status != http.StatusOK {
			t.Fatalf("harvest status=%d body=%s", status, string(body))
		}
		var report map[string]any
		if err := json.Unmarshal(body, &report); err != nil {
			t.Fatalf("unmarshal harvest: %v body=%s", err, string(body))
		}
		if stars, _ := report["stars"].(float64); stars < 1 || stars > 5 {
			t.Fatalf("stars out of range: %v", report["stars"])
		}

		status, body = mustJSON(t, client, http.MethodGet, baseURL+"/api/sessions/"+id+"/replay?from_week=1&to_week=3", nil)
		if status != http.StatusOK {
			t.Fatalf("replay status=%d body=%s", status, string(body))
		}
		var replayed map[string]any
		if err := json.Unmarshal(body, &replayed); err != nil {
			t.Fatalf("unmarshal replay: %v body=%s", err, string(body))
		}
		if got := len(asSlice(replayed["weeks"])); got != 3 {
			t.Fatalf("replay weeks got=%d want=3", got)
		}
	})

	t.Run("kpi", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
	})
}

func mustJSON(t *testing.T, client *http.Client, method, url string, body any) (int, []byte) {
	t.Helper()
	status, respBody, err := doRequest(client, method, url, body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return status, respBody
}

func doRequest(client *http.Client, method, url string, body any) (int, []byte, error) {
	var payloadBytes []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		payloadBytes = b
	}

	var lastStatus int
	var lastBody []byte
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		var payload io.Reader
		if len(payloadBytes) > 0 {
			payload = bytes.NewReader(payloadBytes)
		}
		req, err := http.NewRequest(method, url, payload)
		if err != nil {
			return 0, nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		lastStatus, lastBody, lastErr = resp.StatusCode, respBody, nil
		if resp.StatusCode >= 500 {
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
