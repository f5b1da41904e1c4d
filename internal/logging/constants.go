package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldProvider   = "provider"
	FieldMethod     = "method"
	FieldPage       = "page"
	FieldPages      = "pages"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOutputFile = "output_file"
	FieldInputDir   = "input_dir"
	FieldCommand    = "command"
)
