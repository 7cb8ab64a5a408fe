package bridge

import "github.com/sandeepkv93/taskrank/internal/model"

// SampleTasks is the example document offered in the JSON editor.
func SampleTasks() []model.Task {
	return []model.Task{
		{TaskID: "TASK-001", Title: "Fix critical bug in production", DueDate: "2025-11-27", EstimatedHours: 2, Importance: 10, Dependencies: []string{}},
		{TaskID: "TASK-002", Title: "Write unit tests for new feature", DueDate: "2025-12-01", EstimatedHours: 5, Importance: 7, Dependencies: []string{"TASK-001"}},
		{TaskID: "TASK-003", Title: "Update project documentation", DueDate: "2025-12-05", EstimatedHours: 3, Importance: 6, Dependencies: []string{}},
		{TaskID: "TASK-004", Title: "Code review for PR #123", DueDate: "2025-11-28", EstimatedHours: 1, Importance: 8, Dependencies: []string{}},
	}
}

func SampleJSON() string {
	out, err := Serialize(SampleTasks())
	if err != nil {
		return "[]"
	}
	return out
}
