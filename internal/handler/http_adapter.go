package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
)

// httpTriggerRequest is the wrapped HTTP request the Functions host posts
// when forwarding is disabled.
type httpTriggerRequest struct {
	Data struct {
		Req struct {
			URL             string              `json:"Url"`
			Method          string              `json:"Method"`
			Query           map[string]string   `json:"Query"`
			Headers         map[string][]string `json:"Headers"`
			Params          map[string]string   `json:"Params"`
			Body            string              `json:"Body"`
			IsBase64Encoded bool                `json:"isBase64Encoded"`
		} `json:"req"`
	} `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// httpTriggerResponse is the wrapped response the host expects back.
type httpTriggerResponse struct {
	Outputs struct {
		Res struct {
			StatusCode int               `json:"statusCode"`
			Headers    map[string]string `json:"headers"`
			Body       string            `json:"body"`
		} `json:"res"`
	} `json:"Outputs"`
}

// HandleHttpTrigger adapts the Functions host's JSON envelope to a plain
// HTTP request against the wrapped handler (usually the ServeMux).
func (d *Dependencies) HandleHttpTrigger(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			slog.Error("failed to read HTTP trigger body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		var invokeReq httpTriggerRequest
		if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
			slog.Error("failed to unmarshal HTTP trigger request", "error", err)
			http.Error(w, "Failed to unmarshal request", http.StatusBadRequest)
			return
		}

		reqData := invokeReq.Data.Req

		// The body may arrive base64 encoded whether or not the flag says so.
		var bodyReader io.Reader = http.NoBody
		if reqData.Body != "" {
			raw := []byte(reqData.Body)
			if decoded, err := base64.StdEncoding.DecodeString(reqData.Body); err == nil {
				raw = decoded
			}
			bodyReader = bytes.NewReader(raw)
		}

		newReq, err := http.NewRequest(reqData.Method, reqData.URL, bodyReader)
		if err != nil {
			slog.Error("failed to create internal request", "error", err)
			http.Error(w, "Failed to create internal request", http.StatusInternalServerError)
			return
		}
		for k, vals := range reqData.Headers {
			for _, v := range vals {
				newReq.Header.Add(k, v)
			}
		}

		slog.Info("forwarding wrapped HTTP request", "method", newReq.Method, "path", newReq.URL.Path)

		recorder := httptest.NewRecorder()
		next.ServeHTTP(recorder, newReq)

		result := recorder.Result()
		respBody, _ := io.ReadAll(result.Body)
		result.Body.Close()

		respHeaders := make(map[string]string)
		for k, v := range result.Header {
			respHeaders[k] = v[0]
		}

		var resp httpTriggerResponse
		resp.Outputs.Res.StatusCode = result.StatusCode
		resp.Outputs.Res.Headers = respHeaders
		resp.Outputs.Res.Body = string(respBody)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode HTTP trigger response", "error", err)
		}
	}
}
