package runner

import (
	"fmt"
	"time"
)

// DefaultDuration is how long the runner sleeps when nothing overrides it.
const DefaultDuration = 5 * time.Second

// Messages are the console lines printed by the runner. Sleeping is a format
// string taking the duration in seconds, Fault one taking the fault.
type Messages struct {
	Start       string
	Sleeping    string
	Done        string
	Interrupted string
	Fault       string
	Terminating string
}

// DefaultMessages returns the stock console text.
func DefaultMessages() Messages {
	return Messages{
		Start:       "開始執行腳本...",
		Sleeping:    "程式將休眠 %g 秒鐘...",
		Done:        "休眠完成！",
		Interrupted: "\n程式被使用者中斷",
		Fault:       "發生錯誤: %v",
		Terminating: "程式正在終止...",
	}
}

type Config struct {
	Duration time.Duration
	Messages Messages
	LogLevel string
}

func DefaultConfig() Config {
	return Config{
		Duration: DefaultDuration,
		Messages: DefaultMessages(),
		LogLevel: "info",
	}
}

// Validate reports configuration that cannot be run.
func (c Config) Validate() error {
	if c.Duration < 0 {
		return fmt.Errorf("negative sleep duration %v", c.Duration)
	}
	return nil
}
