package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Draft file errors.
var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrNoTasksInFile = errors.New("no tasks found in file")
)

// TaskDraft is a task read from a bulk-add file before it is stored.
// Fields are ordered to minimize memory padding.
type TaskDraft struct {
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Priority string `yaml:"priority"`
	Deadline string `yaml:"deadline"`
	Type     string `yaml:"type"`
	Energy   string `yaml:"energy"`
}

// ParseTaskDrafts parses one task per YAML document, separated by "---" lines.
//
// Format:
//
//	---
//	title: Renew passport
//	priority: CRITICAL
//	deadline: 2025-03-01
//	---
//	title: Write report
//	type: work
//	energy: high
func ParseTaskDrafts(content string) ([]TaskDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyFile
	}

	dec := yaml.NewDecoder(strings.NewReader(content))
	var drafts []TaskDraft
	for n := 1; ; n++ {
		var d *TaskDraft
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("task %d", n), Err: err}
		}
		if d == nil {
			n--
			continue
		}
		if strings.TrimSpace(d.Title) == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("task %d", n), Err: ErrEmptyTitle}
		}
		drafts = append(drafts, *d)
	}
	if len(drafts) == 0 {
		return nil, ErrNoTasksInFile
	}
	return drafts, nil
}

// Fields parses the draft's enum values. Empty values take their defaults and a
// deadline outside the CRITICAL lane is dropped.
func (d TaskDraft) Fields() (TaskFields, error) {
	f := TaskFields{
		Title:    strings.TrimSpace(d.Title),
		URL:      strings.TrimSpace(d.URL),
		Deadline: strings.TrimSpace(d.Deadline),
	}
	var err error
	if d.Priority != "" {
		if f.Priority, err = ParsePriority(d.Priority); err != nil {
			return TaskFields{}, err
		}
	}
	if d.Type != "" {
		if f.Type, err = ParseTaskType(d.Type); err != nil {
			return TaskFields{}, err
		}
	}
	if d.Energy != "" {
		if f.Energy, err = ParseEnergy(d.Energy); err != nil {
			return TaskFields{}, err
		}
	}
	f.ApplyDefaults()
	if f.Priority != PriorityCritical {
		f.Deadline = ""
	}
	if err := validateDeadline(f.Priority, f.Deadline); err != nil {
		return TaskFields{}, err
	}
	return f, nil
}
