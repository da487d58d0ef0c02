package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Service
	FieldService = "service"

	// Search
	FieldViewID   = "view_id"
	FieldIndex    = "index"
	FieldQuery    = "query"
	FieldCacheKey = "cache_key"
	FieldTags     = "tags"
	FieldPreview  = "preview"
)
