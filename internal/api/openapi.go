package api

import (
	"github.com/veridia/clauseguard/internal/config"
	"github.com/veridia/clauseguard/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the review endpoints, served
// at /openapi.json inside the API module.
func buildSpec(cfg *config.Config) (*openapi.Spec, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(reviewSchemas())
	spec.Components.AddResponses(map[string]*openapi.Response{
		"PayloadTooLarge": {
			Description: "Uploaded document exceeds the maximum size",
			Content: map[string]*openapi.MediaType{
				"application/json": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"error": {Type: "string", Description: "Error message"},
						},
					},
				},
			},
		},
	})

	spec.Paths["/reviews"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List reviews",
			Tags:    []string{"reviews"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
				openapi.QueryParam("page_size", "integer", "Results per page", false),
				openapi.QueryParam("search", "string", "Match against document filename", false),
				openapi.QueryParam("sort", "string", "Comma-separated sort fields", false),
				openapi.QueryParam("status", "string", "Filter by review status", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Review page", "ReviewPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a review",
			Description: "Registers a review shell. The source document is attached in a separate upload call.",
			Tags:        []string{"reviews"},
			RequestBody: openapi.RequestBodyJSON("CreateReview", false),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created review", "Review"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/reviews/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search reviews",
			Tags:        []string{"reviews"},
			RequestBody: openapi.RequestBodyJSON("SearchReviews", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Review page", "ReviewPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		},
	}

	spec.Paths["/reviews/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a review",
			Tags:       []string{"reviews"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Review", "Review"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a review",
			Tags:       []string{"reviews"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				204: {Description: "Review deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	spec.Paths["/reviews/{id}/upload"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Upload the source document",
			Description: "Attaches a PDF or DOCX contract to the review and moves it to UPLOADED.",
			Tags:        []string{"reviews"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			RequestBody: &openapi.RequestBody{
				Required: true,
				Content: map[string]*openapi.MediaType{
					"multipart/form-data": {
						Schema: &openapi.Schema{
							Type: "object",
							Properties: map[string]*openapi.Schema{
								"file": {Type: "string", Format: "binary", Description: "Contract document"},
							},
							Required: []string{"file"},
						},
					},
				},
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Review with attached document", "Review"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
				413: openapi.ResponseRef("PayloadTooLarge"),
			},
		},
	}

	spec.Paths["/reviews/{id}/start"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Start pipeline processing",
			Description: "Moves the review to PROCESSING and enqueues the analysis job.",
			Tags:        []string{"reviews"},
			Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				202: openapi.ResponseJSON("Processing enqueued", "StartResponse"),
				404: openapi.ResponseRef("NotFound"),
				409: openapi.ResponseRef("Conflict"),
			},
		},
	}

	spec.Paths["/reviews/{id}/results"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get review results",
			Tags:       []string{"reviews"},
			Parameters: []*openapi.Parameter{openapi.PathParam("id", "Review ID")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Clause evaluations, decision, and summary", "ReviewResults"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	return spec, nil
}

func reviewSchemas() map[string]*openapi.Schema {
	statusEnum := []any{"CREATED", "UPLOADED", "PROCESSING", "COMPLETED", "FAILED"}
	riskEnum := []any{"acceptable", "ambiguous", "unacceptable"}
	decisionEnum := []any{"OK", "REVIEW", "NEEDS_CHANGES", "REJECT"}

	return map[string]*openapi.Schema{
		"Review": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"status":          {Type: "string", Enum: statusEnum},
				"context":         {Type: "object", Description: "Reviewer-supplied context key/value pairs"},
				"doc_filename":    {Type: "string"},
				"doc_mime":        {Type: "string"},
				"doc_size_bytes":  {Type: "integer"},
				"doc_sha256":      {Type: "string"},
				"doc_storage_key": {Type: "string"},
				"doc_page_count":  {Type: "integer"},
				"decision":        {Type: "string", Enum: decisionEnum},
				"summary":         {Type: "object", Description: "Verdict counts, critical risks, and issues"},
				"error_message":   {Type: "string"},
				"created_at":      {Type: "string", Format: "date-time"},
				"updated_at":      {Type: "string", Format: "date-time"},
			},
			Required: []string{"id", "status", "created_at", "updated_at"},
		},
		"CreateReview": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"context": {Type: "object", Description: "Reviewer-supplied context key/value pairs"},
			},
		},
		"SearchReviews": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer", Example: 1},
				"page_size": {Type: "integer", Example: 20},
				"search":    {Type: "string", Description: "Match against document filename"},
				"sort":      {Type: "string", Example: "-created_at"},
				"status":    {Type: "string", Enum: statusEnum},
			},
		},
		"ReviewPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Review")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"StartResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"review_id": {Type: "string", Format: "uuid"},
				"status":    {Type: "string", Enum: statusEnum},
				"job_id":    {Type: "string"},
			},
			Required: []string{"review_id", "status", "job_id"},
		},
		"EvidenceSpan": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"segment_id": {Type: "string", Format: "uuid"},
				"quote":      {Type: "string", Description: "Verbatim excerpt from the segment"},
				"page_start": {Type: "integer"},
				"page_end":   {Type: "integer"},
			},
		},
		"ClauseEvaluation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                 {Type: "string", Format: "uuid"},
				"review_id":          {Type: "string", Format: "uuid"},
				"clause_type":        {Type: "string"},
				"risk_label":         {Type: "string", Enum: riskEnum},
				"short_reason":       {Type: "string"},
				"suggested_change":   {Type: "string"},
				"triggered_rule_ids": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"evidence_spans":     {Type: "array", Items: openapi.SchemaRef("EvidenceSpan")},
			},
			Required: []string{"clause_type", "risk_label", "short_reason"},
		},
		"ReviewResults": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"review_id":        {Type: "string", Format: "uuid"},
				"status":           {Type: "string", Enum: statusEnum},
				"decision":         {Type: "string", Enum: decisionEnum},
				"summary":          {Type: "object"},
				"playbook_version": {Type: "string"},
				"evaluations":      {Type: "array", Items: openapi.SchemaRef("ClauseEvaluation")},
			},
			Required: []string{"review_id", "status", "playbook_version", "evaluations"},
		},
	}
}
