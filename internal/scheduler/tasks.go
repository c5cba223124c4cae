package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskLeadStatusSweep = "leads.status.sweep"

const TaskActionItemOverdueSweep = "actionitems.overdue.sweep"

type SweepPayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewLeadStatusSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadStatusSweep, data), nil
}

func NewActionItemOverdueSweepTask(payload SweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActionItemOverdueSweep, data), nil
}

func ParseSweepPayload(task *asynq.Task) (SweepPayload, error) {
	var payload SweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return SweepPayload{}, err
	}
	return payload, nil
}
