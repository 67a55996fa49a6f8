package rolodex

// OpenAPIInfo represents the metadata for an OpenAPI specification
type OpenAPIInfo struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
}

// OpenAPISchema represents a schema in an OpenAPI specification
type OpenAPISchema struct {
	Type        string                    `yaml:"type,omitempty" json:"type,omitempty"`
	Format      string                    `yaml:"format,omitempty" json:"format,omitempty"`
	Description string                    `yaml:"description,omitempty" json:"description,omitempty"`
	Ref         string                    `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Required    []string                  `yaml:"required,omitempty" json:"required,omitempty"`
	Properties  map[string]*OpenAPISchema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items       *OpenAPISchema            `yaml:"items,omitempty" json:"items,omitempty"`
	Example     any                       `yaml:"example,omitempty" json:"example,omitempty"`
	Enum        []any                     `yaml:"enum,omitempty" json:"enum,omitempty"`
	Default     any                       `yaml:"default,omitempty" json:"default,omitempty"`
	ReadOnly    bool                      `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
}

// OpenAPIApplicationJSON represents the application/json media type
type OpenAPIApplicationJSON struct {
	Schema *OpenAPISchema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// OpenAPIContent represents the content map of a request body or response
type OpenAPIContent struct {
	ApplicationJSON *OpenAPIApplicationJSON `yaml:"application/json,omitempty" json:"application/json,omitempty"`
}

// OpenAPIResponse represents a response in an OpenAPI specification
type OpenAPIResponse struct {
	Description string          `yaml:"description" json:"description"`
	Content     *OpenAPIContent `yaml:"content,omitempty" json:"content,omitempty"`
}

// OpenAPIParameter represents a parameter in an OpenAPI specification
type OpenAPIParameter struct {
	Name        string         `yaml:"name" json:"name"`
	In          string         `yaml:"in" json:"in"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool           `yaml:"required,omitempty" json:"required,omitempty"`
	Schema      *OpenAPISchema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

type OpenAPIRef struct {
	Ref string `yaml:"$ref" json:"$ref"`
}

// OpenAPIComponents holds the reusable parts of an OpenAPI specification
type OpenAPIComponents struct {
	Parameters    map[string]*OpenAPIParameter   `yaml:"parameters" json:"parameters"`
	RequestBodies map[string]*OpenAPIRequestBody `yaml:"requestBodies" json:"requestBodies"`
	Schemas       map[string]*OpenAPISchema      `yaml:"schemas" json:"schemas"`
}

// OpenAPIRequestBody represents a request body in an OpenAPI specification
type OpenAPIRequestBody struct {
	Ref         string          `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Required    bool            `yaml:"required,omitempty" json:"required,omitempty"`
	Content     *OpenAPIContent `yaml:"content,omitempty" json:"content,omitempty"`
}

// OpenAPIPath represents a single operation on a path
type OpenAPIPath struct {
	Summary     string                   `yaml:"summary,omitempty" json:"summary,omitempty"`
	Description string                   `yaml:"description,omitempty" json:"description,omitempty"`
	OperationId string                   `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*OpenAPIRef            `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Tags        []string                 `yaml:"tags,omitempty" json:"tags,omitempty"`
	Responses   map[int]*OpenAPIResponse `yaml:"responses,omitempty" json:"responses,omitempty"`
	RequestBody *OpenAPIRequestBody      `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
}

// OpenAPISpec represents the entire OpenAPI specification
type OpenAPISpec struct {
	OpenAPI    string                             `yaml:"openapi" json:"openapi"`
	Info       *OpenAPIInfo                       `yaml:"info" json:"info"`
	Components *OpenAPIComponents                 `yaml:"components" json:"components"`
	Paths      map[string]map[string]*OpenAPIPath `yaml:"paths" json:"paths"`
	Tags       []map[string]string                `yaml:"tags" json:"tags"`
}
