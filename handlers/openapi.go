package handlers

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"myusers/service"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3gen"
)

const (
	apiTitle   = "myusers"
	apiVersion = "1.0.0"
)

// schemaDecl adds what Go types can't express to a generated component schema.
type schemaDecl struct {
	value    any
	required []string
	nullable []string
}

var components = []schemaDecl{
	{value: User{}, required: []string{"email", "name"}, nullable: []string{"name"}},
	{value: NewUser{}, required: []string{"email", "password"}},
	{value: service.Success{}, required: []string{"status", "message"}, nullable: []string{"message"}},
}

func componentName(v any) string {
	return reflect.TypeOf(v).Name()
}

// componentRef references a component and carries its resolved schema, so the document validates without a loader pass.
func componentRef(schemas openapi3.Schemas, v any) *openapi3.SchemaRef {
	name := componentName(v)
	return openapi3.NewSchemaRef("#/components/schemas/"+name, schemas[name].Value)
}

// NewOpenAPI builds the OpenAPI document of the declared operations.
// It depends only on the declarations, so two calls produce equal documents.
func NewOpenAPI() (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       apiTitle,
			Description: "User registration and lookup",
			Version:     apiVersion,
		},
		Tags:  openapi3.Tags{&openapi3.Tag{Name: userTag}},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(components)),
		},
	}

	for _, decl := range components {
		ref, err := componentSchema(decl)
		if err != nil {
			return nil, err
		}
		doc.Components.Schemas[componentName(decl.value)] = ref
	}

	for _, op := range operations {
		item := doc.Paths.Value(op.Path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(op.Path, item)
		}
		item.SetOperation(op.Method, toOpenAPIOperation(op, doc.Components.Schemas))
	}

	return doc, nil
}

// MarshalOpenAPI returns the document as indented JSON.
func MarshalOpenAPI() ([]byte, error) {
	doc, err := NewOpenAPI()
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("can't marshal openapi document, err: %w", err)
	}
	return append(b, '\n'), nil
}

func componentSchema(decl schemaDecl) (*openapi3.SchemaRef, error) {
	ref, err := openapi3gen.NewSchemaRefForValue(decl.value, nil)
	if err != nil {
		return nil, fmt.Errorf("can't generate schema for %T, err: %w", decl.value, err)
	}
	ref.Value.Required = decl.required
	for _, name := range decl.nullable {
		prop, ok := ref.Value.Properties[name]
		if !ok || prop.Value == nil {
			return nil, fmt.Errorf("schema %T has no property %q", decl.value, name)
		}
		// the generator shares property schemas between fields of one type, so copy before changing
		nullable := *prop.Value
		nullable.Nullable = true
		ref.Value.Properties[name] = openapi3.NewSchemaRef("", &nullable)
	}
	return ref, nil
}

func toOpenAPIOperation(op Operation, schemas openapi3.Schemas) *openapi3.Operation {
	out := &openapi3.Operation{
		OperationID: op.ID,
		Summary:     op.Summary,
		Tags:        []string{op.Tag},
		Responses:   openapi3.NewResponsesWithCapacity(len(op.Responses)),
	}

	for _, p := range op.PathParams {
		param := openapi3.NewPathParameter(p.Name).
			WithDescription(p.Description).
			WithSchema(openapi3.NewStringSchema())
		out.Parameters = append(out.Parameters, &openapi3.ParameterRef{Value: param})
	}

	if op.RequestBody != nil {
		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(componentRef(schemas, op.RequestBody))
		out.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	for _, r := range op.Responses {
		resp := openapi3.NewResponse().WithDescription(r.Description)
		if r.Body != nil {
			resp = resp.WithJSONSchemaRef(componentRef(schemas, r.Body))
		}
		out.Responses.Set(strconv.Itoa(r.Status), &openapi3.ResponseRef{Value: resp})
	}

	return out
}
