package validation

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"taskflow/internal/apperr"
	"taskflow/internal/model"
)

const maxTitleLength = 200

// TaskInput is the create-task payload. Status and Priority default when
// omitted. Any owner field supplied by the client is not represented here
// on purpose: ownership is server-assigned.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Attachment  *string    `json:"attachment"`
}

func (in *TaskInput) Validate() error {
	v := &apperr.ValidationError{}
	in.Title = strings.TrimSpace(in.Title)

	if in.Title == "" {
		v.Add("title", "title is required")
	} else if utf8.RuneCountInString(in.Title) > maxTitleLength {
		v.Add("title", "title too long")
	}
	if in.Status == "" {
		in.Status = string(model.StatusTodo)
	} else if !model.TaskStatus(in.Status).Valid() {
		v.Add("status", "status must be one of TODO, IN_PROGRESS, COMPLETED")
	}
	if in.Priority == "" {
		in.Priority = string(model.PriorityMedium)
	} else if !model.TaskPriority(in.Priority).Valid() {
		v.Add("priority", "priority must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	checkAttachment(v, in.Attachment)
	return v.OrNil()
}

// TaskUpdateInput is the partial-update payload; nil fields are left
// untouched and only supplied fields are validated.
type TaskUpdateInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	Attachment  *string    `json:"attachment"`
}

func (in *TaskUpdateInput) Validate() error {
	v := &apperr.ValidationError{}
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		in.Title = &trimmed
		if trimmed == "" {
			v.Add("title", "title is required")
		} else if utf8.RuneCountInString(trimmed) > maxTitleLength {
			v.Add("title", "title too long")
		}
	}
	if in.Status != nil && !model.TaskStatus(*in.Status).Valid() {
		v.Add("status", "status must be one of TODO, IN_PROGRESS, COMPLETED")
	}
	if in.Priority != nil && !model.TaskPriority(*in.Priority).Valid() {
		v.Add("priority", "priority must be one of LOW, MEDIUM, HIGH, URGENT")
	}
	checkAttachment(v, in.Attachment)
	return v.OrNil()
}

// Empty reports whether the update carries no fields at all.
func (in *TaskUpdateInput) Empty() bool {
	return in.Title == nil && in.Description == nil && in.Status == nil &&
		in.Priority == nil && in.DueDate == nil && in.Attachment == nil
}

func checkAttachment(v *apperr.ValidationError, attachment *string) {
	if attachment == nil || *attachment == "" {
		return
	}
	u, err := url.Parse(*attachment)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.Add("attachment", "attachment must be a valid URL")
	}
}
