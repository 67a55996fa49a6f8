package rolodex

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Docs is an interface for API documentation functionality
type Docs interface {
	AddTag(name, description string)
	AddPath(op *HTTPOperation)
	AddParameter(param *OpenAPIParameter)
	AddSchema(name string, schema *OpenAPISchema)
	AddBody(name string, schema *OpenAPISchema)
	Spec() *OpenAPISpec

	SpecHandler(ctx *gin.Context)
	JSONHandler(ctx *gin.Context)
}

// zDocs collects operations into an OpenAPI document
type zDocs struct {
	log  Logger
	spec *OpenAPISpec

	once sync.Once
	yaml []byte
}

// NewDocs creates a new Docs instance
func NewDocs(l Logger, c Config) Docs {
	d := &zDocs{
		log: l,
		spec: &OpenAPISpec{
			OpenAPI: "3.0.0",
			Info: &OpenAPIInfo{
				Title:       c.Title(),
				Version:     c.Version(),
				Description: c.Description(),
			},
			Components: &OpenAPIComponents{
				Parameters:    make(map[string]*OpenAPIParameter),
				RequestBodies: make(map[string]*OpenAPIRequestBody),
				Schemas:       make(map[string]*OpenAPISchema),
			},
			Paths: make(map[string]map[string]*OpenAPIPath),
			Tags:  []map[string]string{},
		},
	}
	d.AddSchema("Error", SchemaOf("Error response", ErrorResponse{}))
	return d
}

// AddTag adds a new tag to the OpenAPI specification
func (d *zDocs) AddTag(name, description string) {
	d.spec.Tags = append(d.spec.Tags, map[string]string{
		"name":        name,
		"description": description,
	})
}

// AddParameter adds a reusable parameter to the OpenAPI specification
func (d *zDocs) AddParameter(param *OpenAPIParameter) {
	d.spec.Components.Parameters[param.Name] = param
}

// AddSchema adds a named schema to the OpenAPI specification
func (d *zDocs) AddSchema(name string, schema *OpenAPISchema) {
	d.spec.Components.Schemas[name] = schema
}

// AddBody adds a named request body to the OpenAPI specification
func (d *zDocs) AddBody(name string, schema *OpenAPISchema) {
	d.spec.Components.RequestBodies[name] = &OpenAPIRequestBody{
		Description: schema.Description,
		Required:    true,
		Content: &OpenAPIContent{
			ApplicationJSON: &OpenAPIApplicationJSON{Schema: schema},
		},
	}
}

// AddPath adds a new path to the OpenAPI specification
func (d *zDocs) AddPath(op *HTTPOperation) {
	if d.spec.Paths[op.Path] == nil {
		d.spec.Paths[op.Path] = make(map[string]*OpenAPIPath)
	}

	errorContent := &OpenAPIContent{
		ApplicationJSON: &OpenAPIApplicationJSON{
			Schema: &OpenAPISchema{Ref: "#/components/schemas/Error"},
		},
	}

	responses := make(map[int]*OpenAPIResponse)
	if op.Response != nil {
		responses[op.Response.Status] = &OpenAPIResponse{
			Description: http.StatusText(op.Response.Status),
		}

		if op.Response.Ref != "" {
			responses[op.Response.Status].Content = &OpenAPIContent{
				ApplicationJSON: &OpenAPIApplicationJSON{
					Schema: &OpenAPISchema{
						Ref: fmt.Sprintf("#/components/schemas/%s", op.Response.Ref),
					},
				},
			}
		}

		for _, status := range op.Response.Errors {
			responses[status] = &OpenAPIResponse{
				Description: http.StatusText(status),
				Content:     errorContent,
			}
		}
	}
	responses[http.StatusInternalServerError] = &OpenAPIResponse{
		Description: http.StatusText(http.StatusInternalServerError),
		Content:     errorContent,
	}

	path := &OpenAPIPath{
		Summary:     op.Name,
		Description: op.Description,
		OperationId: toPascalCase(op.Name),
		Tags:        []string{op.Tag},
		Parameters:  []*OpenAPIRef{},
		Responses:   responses,
	}

	for _, param := range op.Parameters {
		path.Parameters = append(path.Parameters, &OpenAPIRef{
			Ref: fmt.Sprintf("#/components/parameters/%s", param),
		})
	}
	for _, param := range op.Query {
		path.Parameters = append(path.Parameters, &OpenAPIRef{
			Ref: fmt.Sprintf("#/components/parameters/%s", param),
		})
	}

	if op.RequestBody != "" {
		path.RequestBody = &OpenAPIRequestBody{
			Ref: fmt.Sprintf("#/components/requestBodies/%s", op.RequestBody),
		}
	}

	d.spec.Paths[op.Path][strings.ToLower(op.Method)] = path
}

// Spec returns the assembled document.
func (d *zDocs) Spec() *OpenAPISpec {
	return d.spec
}

// SpecHandler returns the OpenAPI specification in YAML format
func (d *zDocs) SpecHandler(ctx *gin.Context) {
	d.once.Do(func() {
		data, err := yaml.Marshal(d.spec)
		if err != nil {
			d.log.Error("Failed to marshal OpenAPI spec to YAML", zap.Error(err))
			return
		}
		d.yaml = data
	})
	if d.yaml == nil {
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.Data(http.StatusOK, "text/yaml; charset=utf-8", d.yaml)
}

// JSONHandler returns the OpenAPI specification as JSON
func (d *zDocs) JSONHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, d.spec)
}
