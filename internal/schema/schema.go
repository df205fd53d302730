// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
)

const (
	draft      = "https://json-schema.org/draft/2020-12/schema"
	typeArray  = "array"
	typeObject = "object"
	typeString = "string"
	jsonIndent = "  "
)

// ErrNotStruct is returned when the definition is not a struct or a pointer to one.
var ErrNotStruct = errors.New("expected struct type")

// Field represents a field in a JSON schema.
type Field struct {
	Name        string   // Name from the yaml tag
	Types       []string // JSON types, usually one
	Description string   // From the docdesc tag
	Required    bool     // True unless the yaml tag has omitempty
	Items       string   // JSON type of array items
	Values      string   // JSON type of map values
}

// Fields returns the schema fields of def, sorted by name.
func Fields(def any) ([]Field, error) {
	t := reflect.TypeOf(def)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %v", ErrNotStruct, t)
	}

	var fields []Field

	for i := range t.NumField() {
		sf := t.Field(i)

		if !sf.IsExported() {
			continue
		}

		if f, ok := toField(sf); ok {
			fields = append(fields, f)
		}
	}

	slices.SortFunc(fields, func(a, b Field) int {
		return strings.Compare(a.Name, b.Name)
	})

	return fields, nil
}

func toField(sf reflect.StructField) (Field, bool) {
	yamlTag := sf.Tag.Get("yaml")
	if yamlTag == "-" {
		return Field{}, false
	}

	name, opts, _ := strings.Cut(yamlTag, ",")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}

	f := Field{
		Name:        name,
		Description: sf.Tag.Get("docdesc"),
		Required:    !slices.Contains(strings.Split(opts, ","), "omitempty"),
		Types:       []string{jsonType(sf.Type)},
	}

	if override := sf.Tag.Get("doctype"); override != "" {
		f.Types = strings.Split(override, "|")
	}

	t := sf.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		f.Items = jsonType(t.Elem())
	case reflect.Map:
		f.Values = jsonType(t.Elem())
	default:
	}

	return f, true
}

// jsonType converts a Go type to a JSON schema type.
func jsonType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return typeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return typeArray
	case reflect.Map, reflect.Struct:
		return typeObject
	case reflect.Ptr:
		return jsonType(t.Elem())
	default:
		return typeString
	}
}

// Generate returns the JSON schema of def as a map, ready to be marshalled.
func Generate(def any, title string) (map[string]any, error) {
	fields, err := Fields(def)
	if err != nil {
		return nil, err
	}

	properties := make(map[string]any, len(fields))
	required := []string{}

	for _, f := range fields {
		properties[f.Name] = property(f)

		if f.Required {
			required = append(required, f.Name)
		}
	}

	return map[string]any{
		"$schema":              draft,
		"title":                title,
		"type":                 typeObject,
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}, nil
}

func property(f Field) map[string]any {
	prop := map[string]any{}

	if len(f.Types) == 1 {
		prop["type"] = f.Types[0]
	} else {
		prop["type"] = f.Types
	}

	if f.Description != "" {
		prop["description"] = f.Description
	}

	if f.Items != "" {
		prop["items"] = map[string]any{"type": f.Items}
	}

	if f.Values != "" {
		prop["additionalProperties"] = map[string]any{"type": f.Values}
	}

	return prop
}

// WriteJSON writes the JSON schema of def to w.
func WriteJSON(w io.Writer, def any, title string) error {
	s, err := Generate(def, title)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", jsonIndent)
	enc.SetEscapeHTML(false)

	return enc.Encode(s) //nolint:wrapcheck
}

// WriteMarkdown writes a Markdown table describing the fields of def to w.
func WriteMarkdown(w io.Writer, def any, title string) error {
	fields, err := Fields(def)
	if err != nil {
		return err
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| Field | Type | Required | Description |\n")
	sb.WriteString("|---|---|---|---|\n")

	for _, f := range fields {
		required := "no"
		if f.Required {
			required = "yes"
		}

		fmt.Fprintf(&sb, "| `%s` | %s | %s | %s |\n", f.Name, strings.Join(f.Types, " or "), required, f.Description)
	}

	_, err = io.WriteString(w, sb.String())

	return err //nolint:wrapcheck
}
