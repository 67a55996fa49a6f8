package contacts

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rolodex/internal/models"
	"rolodex/internal/query"
	rolodex "rolodex/lib"
)

const basePath = "/api/contacts"

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message" desc:"Confirmation message" ex:"Contact deleted"`
}

// Handler exposes the contact service over HTTP. Every failure is passed to
// rolodex.RespondWithError.
type Handler struct {
	service *Service
	log     rolodex.Logger
}

// NewHandler creates a new Handler instance wrapping a Service
func NewHandler(l rolodex.Logger, s *Service) *Handler {
	return &Handler{
		service: s,
		log:     l,
	}
}

// ListHandler handles GET requests for searching and paging contacts
func (h *Handler) ListHandler(ctx *gin.Context) {
	params := query.ParseListParams(ctx.Request.URL.Query())

	page, err := h.service.List(ctx.Request.Context(), params)
	if err != nil {
		rolodex.RespondWithError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, page)
}

// GetHandler handles GET requests for a single contact
func (h *Handler) GetHandler(ctx *gin.Context) {
	c, err := h.service.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		rolodex.RespondWithError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, c)
}

// CreateHandler handles POST requests for new contacts
func (h *Handler) CreateHandler(ctx *gin.Context) {
	payload, ok := h.bind(ctx)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx.Request.Context(), payload.Contact())
	if err != nil {
		rolodex.RespondWithError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// ReplaceHandler handles PUT requests replacing a contact
func (h *Handler) ReplaceHandler(ctx *gin.Context) {
	payload, ok := h.bind(ctx)
	if !ok {
		return
	}

	updated, err := h.service.Replace(ctx.Request.Context(), ctx.Param("id"), payload.Contact())
	if err != nil {
		rolodex.RespondWithError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, updated)
}

// DeleteHandler handles DELETE requests
func (h *Handler) DeleteHandler(ctx *gin.Context) {
	if err := h.service.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		rolodex.RespondWithError(ctx, h.log, err)
		return
	}
	ctx.JSON(http.StatusOK, MessageResponse{Message: "Contact deleted"})
}

func (h *Handler) bind(ctx *gin.Context) (*models.ContactPayload, bool) {
	var payload models.ContactPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		rolodex.RespondWithError(ctx, h.log, &rolodex.BadRequestError{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return nil, false
	}
	return &payload, true
}

var listQuery = []struct {
	name        string
	description string
	array       bool
}{
	{"search", "Case-insensitive literal text matched against names, email, phone, company, title and tags.", false},
	{"firstName", "First name filter.", false},
	{"firstNameRegex", "Set to `true` to treat firstName as a case-sensitive regular expression.", false},
	{"lastName", "Last name filter.", false},
	{"lastNameRegex", "Set to `true` to treat lastName as a case-sensitive regular expression.", false},
	{"phone", "Phone filter.", false},
	{"phoneRegex", "Set to `true` to treat phone as a case-sensitive regular expression.", false},
	{"emailFilter", "Email filter.", false},
	{"emailRegex", "Set to `true` to treat emailFilter as a case-sensitive regular expression.", false},
	{"companyFilter", "Exact company names; repeat the key for more than one.", true},
	{"titleFilter", "Exact job titles; repeat the key for more than one.", true},
	{"tagsFilter", "Tags; a contact matches when any of its tags is listed.", true},
	{"sort", "`field:asc` or `field:desc`.", false},
	{"page", "1-based page number, default 1.", false},
	{"limit", "Page size, default 10.", false},
}

// Document registers the contact schemas and parameters with the docs service.
func (h *Handler) Document(d rolodex.Docs) {
	d.AddTag("Contacts", "Contact records")

	contact := rolodex.SchemaOf("A contact record", models.Contact{})
	d.AddSchema("Contact", contact)
	d.AddSchema("ContactPage", &rolodex.OpenAPISchema{
		Type:        "object",
		Description: "One page of matching contacts",
		Properties: map[string]*rolodex.OpenAPISchema{
			"contacts":    {Type: "array", Items: &rolodex.OpenAPISchema{Ref: "#/components/schemas/Contact"}},
			"totalCount":  {Type: "integer", Format: "int64"},
			"currentPage": {Type: "integer", Format: "int32"},
		},
	})
	d.AddSchema("Message", rolodex.SchemaOf("Confirmation", MessageResponse{}))
	d.AddBody("ContactPayload", rolodex.SchemaOf("Writable contact fields", models.ContactPayload{}))

	d.AddParameter(&rolodex.OpenAPIParameter{
		Name:        "id",
		In:          "path",
		Description: "Contact identifier.",
		Required:    true,
		Schema:      &rolodex.OpenAPISchema{Type: "string"},
	})
	for _, p := range listQuery {
		schema := &rolodex.OpenAPISchema{Type: "string"}
		if p.array {
			schema = &rolodex.OpenAPISchema{Type: "array", Items: schema}
		}
		d.AddParameter(&rolodex.OpenAPIParameter{
			Name:        p.name,
			In:          "query",
			Description: p.description,
			Schema:      schema,
		})
	}
}

// Operations returns the contact endpoints.
func (h *Handler) Operations() []*rolodex.HTTPOperation {
	names := make([]string, 0, len(listQuery))
	for _, p := range listQuery {
		names = append(names, p.name)
	}

	return []*rolodex.HTTPOperation{
		{
			Name:        "List Contacts",
			Description: "Search, filter, sort and page through contacts.",
			Tag:         "Contacts",
			Method:      http.MethodGet,
			Path:        basePath,
			Handler:     h.ListHandler,
			Query:       names,
			Response: &rolodex.HTTPResponse{
				Status: http.StatusOK,
				Ref:    "ContactPage",
				Errors: []int{http.StatusBadRequest},
			},
		},
		{
			Name:        "Get Contact",
			Description: "Fetch a single contact.",
			Tag:         "Contacts",
			Method:      http.MethodGet,
			Path:        basePath + "/{id}",
			Handler:     h.GetHandler,
			Parameters:  []string{"id"},
			Response: &rolodex.HTTPResponse{
				Status: http.StatusOK,
				Ref:    "Contact",
				Errors: []int{http.StatusNotFound},
			},
		},
		{
			Name:        "Create Contact",
			Description: "Create a contact. Email addresses are unique regardless of case.",
			Tag:         "Contacts",
			Method:      http.MethodPost,
			Path:        basePath,
			Handler:     h.CreateHandler,
			RequestBody: "ContactPayload",
			Response: &rolodex.HTTPResponse{
				Status: http.StatusCreated,
				Ref:    "Contact",
				Errors: []int{http.StatusBadRequest},
			},
		},
		{
			Name:        "Replace Contact",
			Description: "Replace every writable field of a contact.",
			Tag:         "Contacts",
			Method:      http.MethodPut,
			Path:        basePath + "/{id}",
			Handler:     h.ReplaceHandler,
			Parameters:  []string{"id"},
			RequestBody: "ContactPayload",
			Response: &rolodex.HTTPResponse{
				Status: http.StatusOK,
				Ref:    "Contact",
				Errors: []int{http.StatusBadRequest, http.StatusNotFound},
			},
		},
		{
			Name:        "Delete Contact",
			Description: "Delete a contact.",
			Tag:         "Contacts",
			Method:      http.MethodDelete,
			Path:        basePath + "/{id}",
			Handler:     h.DeleteHandler,
			Parameters:  []string{"id"},
			Response: &rolodex.HTTPResponse{
				Status: http.StatusOK,
				Ref:    "Message",
				Errors: []int{http.StatusNotFound},
			},
		},
	}
}
