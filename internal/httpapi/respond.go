package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var errEmptyBody = errors.New("empty body")

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respond writes v as JSON, or as a protobuf Struct when the client asks
// for one. v must encode to a JSON object.
func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if r != nil && wantsProtobuf(r) {
		st, err := toStruct(v)
		if err == nil {
			writeProto(w, status, st)
			return
		}
	}
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	respond(w, r, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// decodeBody reads a JSON or protobuf body into v. Unknown fields are
// rejected. An empty body leaves v untouched and returns errEmptyBody.
func decodeBody(r *http.Request, v any) error {
	if isProtobuf(r) {
		return readProto(r, v)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return errEmptyBody
	}
	return strictJSON(raw, v)
}

func strictJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
