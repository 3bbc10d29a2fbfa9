package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldRecordID   = "record_id"
	FieldCategoryID = "category_id"
	FieldFlowType   = "flow_type"
	FieldAmount     = "amount_ml"
	FieldDays       = "days"
	FieldLimit      = "daily_limit"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStore     = "store"
	ComponentStorage   = "storage"
	ComponentBackup    = "backup"
	ComponentExport    = "export"
	ComponentScheduler = "scheduler"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpDelete  = "delete"
	OpList    = "list"
	OpReport  = "report"
	OpExport  = "export"
	OpImport  = "import"
	OpReset   = "reset"
	OpRender  = "render"
	OpStartup = "startup"
)
