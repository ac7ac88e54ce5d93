package models

// Record is one flat data record parsed from external JSON. Field set and
// value types are unknown until runtime.
type Record map[string]interface{}
