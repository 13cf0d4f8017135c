// Package parser turns raw model output into a StructuredResult.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/bryanwahyu/boardroom-ai/internal/domain/ai"
)

const fence = "```"

var compiledSchema *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(shapeSchema))
	if err != nil {
		panic(fmt.Sprintf("parser: invalid shape schema: %v", err))
	}
	compiledSchema = s
}

// Parse extracts and decodes the JSON object in raw. It strips a surrounding
// code fence and any prose before the first '{' or after the last '}', and
// does nothing else to repair the text.
func Parse(raw string) (*ai.StructuredResult, error) {
	body, err := Extract(raw)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := json.Unmarshal([]byte(body), &generic); err != nil {
		return nil, &ai.ParseError{Reason: "invalid json", Err: err}
	}

	res, err := compiledSchema.Validate(gojsonschema.NewGoLoader(generic))
	if err != nil {
		return nil, &ai.ParseError{Reason: "schema check", Err: err}
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &ai.ParseError{Reason: "unexpected shape: " + strings.Join(msgs, "; ")}
	}

	var out ai.StructuredResult
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, &ai.ParseError{Reason: "decode structured result", Err: err}
	}
	return &out, nil
}

// Extract returns the candidate JSON object text inside raw.
func Extract(raw string) (string, error) {
	s := stripFence(strings.TrimSpace(raw))

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < 0 || end < start {
		return "", &ai.ParseError{Reason: "no json object found"}
	}
	return s[start : end+1], nil
}

// stripFence removes a leading ``` or ```json line and a trailing ```.
func stripFence(s string) string {
	if !strings.HasPrefix(s, fence) {
		return s
	}
	s = strings.TrimPrefix(s, fence)
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		tag := strings.TrimSpace(s[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			s = s[nl+1:]
		}
	} else if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}
