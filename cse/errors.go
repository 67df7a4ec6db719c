package cse

import (
	"fmt"
)

// OperationError reports a request for an operation the extension does not
// implement.
type OperationError struct {
	Operation string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("unsupported operation, %q is not implemented by this extension", e.Operation)
}
