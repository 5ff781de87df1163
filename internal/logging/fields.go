package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID tags every line emitted during one sorter invocation.
	FieldRunID = "run_id"
	// FieldRow is the zero-based index of the prediction row being routed.
	FieldRow = "row"
	// FieldLocation is the image path relative to the image root.
	FieldLocation = "location"
)
