package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldUserID     = "user_id"
	FieldExpenseID  = "expense_id"
	FieldCategory   = "category"
	FieldAmount     = "amount_cents"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentExpense = "expense"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentClient  = "client"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpRegister = "register"
	OpLogin    = "login"
	OpValidate = "validate"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
