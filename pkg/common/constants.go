package common

const (
	RedisStreamSchedulerTaskExecution = "schedule.task.execution"

	RedisStreamGroup    = "screener-group"
	RedisStreamConsumer = "screener-consumer"
)
