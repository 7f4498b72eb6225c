package task

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSeed returns the sample tasks loaded at startup when no seed file is
// configured. There are enough entries to exercise list scrolling on the
// display, with a mix of statuses and importance levels. Titles and bodies are
// multi-byte UTF-8 so the firmware's font and text wrapping get exercised.
func DefaultSeed() []Task {
	return []Task{
		seedTask("1", "完成ESP32项目", "实现TODO列表显示功能", StatusNotStarted, ImportanceHigh, "2026-01-29T10:00:00Z", "2026-01-29T10:00:00Z", false),
		seedTask("2", "学习LVGL", "掌握LVGL界面设计", StatusInProgress, ImportanceNormal, "2026-01-29T11:00:00Z", "2026-01-29T11:00:00Z", false),
		seedTask("3", "测试WiFi连接", "验证ESP32 WiFi功能", StatusCompleted, ImportanceNormal, "2026-01-29T09:00:00Z", "2026-01-29T12:00:00Z", true),
		seedTask("4", "编写文档", "完善项目README文档", StatusNotStarted, ImportanceNormal, "2026-01-29T14:00:00Z", "2026-01-29T14:00:00Z", false),
		seedTask("5", "代码审查", "检查代码质量和风格", StatusNotStarted, ImportanceHigh, "2026-01-29T15:00:00Z", "2026-01-29T15:00:00Z", false),
		seedTask("6", "添加触摸功能", "实现触摸交互", StatusCompleted, ImportanceHigh, "2026-01-29T08:00:00Z", "2026-01-29T16:00:00Z", true),
		seedTask("7", "优化UI布局", "改善界面美观度", StatusInProgress, ImportanceNormal, "2026-01-29T17:00:00Z", "2026-01-29T17:00:00Z", false),
		seedTask("8", "测试滚动功能", "验证列表滚动效果", StatusNotStarted, ImportanceNormal, "2026-01-29T18:00:00Z", "2026-01-29T18:00:00Z", false),
	}
}

// seedTask builds a fixture task. The timestamps are compile-time constants,
// so a parse failure is a programming error.
func seedTask(id, title, body string, status Status, importance Importance, created, modified string, completed bool) Task {
	return Task{
		ID:                   id,
		Title:                title,
		Body:                 body,
		Status:               status,
		Importance:           importance,
		CreatedDateTime:      mustParseTimestamp(created),
		LastModifiedDateTime: mustParseTimestamp(modified),
		IsCompleted:          completed,
	}
}

func mustParseTimestamp(s string) Timestamp {
	ts, err := ParseTimestamp(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// seedFile is the on-disk layout of a seed file:
//
//	tasks:
//	  - id: "1"
//	    title: "Buy solder"
//	    status: notStarted
//	    importance: high
//	    createdDateTime: "2026-01-29T10:00:00Z"
type seedFile struct {
	Tasks []seedEntry `yaml:"tasks"`
}

type seedEntry struct {
	ID                   string `yaml:"id"`
	Title                string `yaml:"title"`
	Body                 string `yaml:"body"`
	Status               string `yaml:"status"`
	Importance           string `yaml:"importance"`
	CreatedDateTime      string `yaml:"createdDateTime"`
	LastModifiedDateTime string `yaml:"lastModifiedDateTime"`
	IsCompleted          bool   `yaml:"isCompleted"`
}

// LoadSeedFile reads preset tasks from a YAML file.
//
// Missing status and importance take the same defaults as Create. Missing
// timestamps are left zero for Store.Seed to fill.
func LoadSeedFile(path string) ([]Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	tasks := make([]Task, 0, len(f.Tasks))
	for i, e := range f.Tasks {
		t := Task{
			ID:          e.ID,
			Title:       e.Title,
			Body:        e.Body,
			Status:      Status(e.Status),
			Importance:  Importance(e.Importance),
			IsCompleted: e.IsCompleted,
		}
		if t.Status == "" {
			t.Status = StatusNotStarted
		}
		if t.Importance == "" {
			t.Importance = ImportanceNormal
		}
		if e.CreatedDateTime != "" {
			if t.CreatedDateTime, err = ParseTimestamp(e.CreatedDateTime); err != nil {
				return nil, fmt.Errorf("seed entry %d: %w", i, err)
			}
		}
		if e.LastModifiedDateTime != "" {
			if t.LastModifiedDateTime, err = ParseTimestamp(e.LastModifiedDateTime); err != nil {
				return nil, fmt.Errorf("seed entry %d: %w", i, err)
			}
		}
		tasks = append(tasks, t)
	}

	return tasks, nil
}
