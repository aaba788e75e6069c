package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskStatisticsRefresh = "scores.statistics.refresh"

// Reasons recorded on a refresh task.
const (
	RefreshReasonInterval    = "interval"
	RefreshReasonScoreChange = "score-change"
)

type StatisticsRefreshPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

func NewStatisticsRefreshTask(payload StatisticsRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatisticsRefresh, data), nil
}

func ParseStatisticsRefreshPayload(task *asynq.Task) (StatisticsRefreshPayload, error) {
	var payload StatisticsRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return StatisticsRefreshPayload{}, err
	}
	return payload, nil
}
