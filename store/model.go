package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/shellq/queuectl/job"
	"github.com/shellq/queuectl/jobspec"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id      string `bun:"id,pk"`
	Command string `bun:"command,notnull"`

	Status   job.Status `bun:"status,notnull,default:0"`
	Priority int32      `bun:"priority,notnull,default:0"`
	Attempts uint32     `bun:"attempts,notnull,default:0"`

	MaxRetries     uint32  `bun:"max_retries,notnull"`
	TimeoutSeconds *uint32 `bun:"timeout_seconds"`

	NextRunAt time.Time `bun:"next_run_at,notnull"`

	LockedBy *string    `bun:"locked_by"`
	LockedAt *time.Time `bun:"locked_at"`

	LastError *string `bun:"last_error"`

	StdoutPath string `bun:"stdout_path,notnull"`
	StderrPath string `bun:"stderr_path,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		Spec: jobspec.Spec{
			Id:             jm.Id,
			Command:        jm.Command,
			MaxRetries:     &jm.MaxRetries,
			Priority:       jm.Priority,
			TimeoutSeconds: jm.TimeoutSeconds,
			RunAt:          &jm.NextRunAt,
		},
		MaxRetries: jm.MaxRetries,
		Status:     jm.Status,
		Attempts:   jm.Attempts,
		LockedBy:   jm.LockedBy,
		LockedAt:   jm.LockedAt,
		NextRunAt:  jm.NextRunAt,
		LastError:  jm.LastError,
		StdoutPath: jm.StdoutPath,
		StderrPath: jm.StderrPath,
		CreatedAt:  jm.CreatedAt,
		UpdatedAt:  jm.UpdatedAt,
	}
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value int64  `bun:"value,notnull"`
}
