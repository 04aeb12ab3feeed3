package bootstrap

import (
	"log"

	"github.com/lodestonemc/lodestone/internals/instances"
)

// ProgressSink receives fire-and-forget bootstrap events. Emit errors
// are logged, never propagated, so a broken GUI bridge can not stop a
// bootstrap
type ProgressSink interface {
	Emit(event string, payload map[string]interface{}) error
}

// TaskSink tracks one long-running task with a percentage and message.
// Like the progress sink it is fire-and-forget
type TaskSink interface {
	CreateTask(id string, name string) error
	UpdateTask(id string, percent float64, message string) error
	RemoveTask(id string) error
}

type noopProgress struct{}

func (noopProgress) Emit(string, map[string]interface{}) error { return nil }

type noopTasks struct{}

func (noopTasks) CreateTask(string, string) error          { return nil }
func (noopTasks) UpdateTask(string, float64, string) error { return nil }
func (noopTasks) RemoveTask(string) error                  { return nil }

// emit forwards to the progress sink and logs emit failures
func (b *Bootstrapper) emit(event string, payload map[string]interface{}) {
	if err := b.Progress.Emit(event, payload); err != nil {
		log.Printf("[WARN] progress sink rejected %s: %v", event, err)
	}
}

// taskIDFor derives the task id from the instance, so concurrent
// bootstraps of different instances never share task state
func taskIDFor(instance *instances.Instance) string {
	return "bootstrap:" + instance.ID
}

func (b *Bootstrapper) taskUpdate(instance *instances.Instance, percent float64, message string) {
	if err := b.Tasks.UpdateTask(taskIDFor(instance), percent, message); err != nil {
		log.Printf("[WARN] task sink rejected update: %v", err)
	}
}
