package meilisearch

import "fmt"

// TaskFailedError reports a task that did not succeed.
type TaskFailedError struct {
	TaskUID int64
	Action  string
	Status  string
	Detail  string
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("meilisearch: task %d (%s) %s: %s", e.TaskUID, e.Action, e.Status, e.Detail)
}
