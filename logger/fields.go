package logger

// Standard field key constants for structured logging.
// Plaintext passwords and token contents are never logged under any key.
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldUserID    = "user_id"
	FieldEmail     = "email"
	FieldRole      = "role"
	FieldTokenType = "token_type"
	FieldProvider  = "provider"
	FieldKeyID     = "key_id"
	FieldError     = "error"
	FieldResult    = "result"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("rotated", logger.Fields(logger.FieldUserID, id))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}
