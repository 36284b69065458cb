package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxRequestBody caps the request body size for both protobuf and JSON
// payloads. Enrollment forms are a handful of short strings.
const maxRequestBody = 16 << 10

const protobufContentType = "application/x-protobuf"

// isProtobuf returns true if the request body is a protobuf payload.
func isProtobuf(r *http.Request) bool {
	return isProtobufType(r.Header.Get("Content-Type"))
}

// wantsProtobuf returns true if the client prefers a protobuf response.
func wantsProtobuf(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		if isProtobufType(part) {
			return true
		}
	}
	return false
}

func isProtobufType(v string) bool {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return mt == protobufContentType || mt == "application/protobuf"
}

// readProto reads a google.protobuf.Struct body and decodes it into v the
// same way a JSON body would be.
func readProto(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		return err
	}
	var st structpb.Struct
	if err := proto.Unmarshal(body, &st); err != nil {
		return err
	}
	raw, err := protojson.Marshal(&st)
	if err != nil {
		return err
	}
	return strictJSON(raw, v)
}

// toStruct converts a JSON-encodable value to a google.protobuf.Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var st structpb.Struct
	if err := protojson.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return &st, nil
}

// writeProto marshals msg and writes it with the given HTTP status.
func writeProto(w http.ResponseWriter, status int, msg proto.Message) {
	data, err := proto.Marshal(msg)
	if err != nil {
		// Fall back to a plain-text error if marshalling fails.
		http.Error(w, "proto marshal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", protobufContentType)
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
