package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID identifies one interactive grid session.
	FieldSessionID = "session_id"
	// FieldItemID is the standardized key for clip identifiers.
	FieldItemID = "item_id"
	// FieldItemName is the standardized key for clip names.
	FieldItemName = "item_name"
	// FieldSlot is the slot index a presentation event refers to.
	FieldSlot = "slot"
	// FieldSlots is the configured presentation slot count.
	FieldSlots = "slots"
	// FieldMode is the grid mode (grid or presentation).
	FieldMode = "mode"
	// FieldEventType classifies notable events for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a warning or error.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)
