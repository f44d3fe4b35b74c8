package tasks

import "fmt"

// ValidationError reports an invalid task draft or update.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// NotFoundError reports an operation against a task id that does not exist.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %s not found", e.ID)
}

// StorageReadError wraps a failure to read the task collection from the store.
type StorageReadError struct {
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read tasks: %v", e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError wraps a failure to persist the task collection.
type StorageWriteError struct {
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write tasks: %v", e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
