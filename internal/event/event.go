// Package event models the release trigger that drives a packaging run.
package event

import (
	"encoding/json"
	"fmt"
	"os"
)

// Trigger identifies what started the packaging run.
type Trigger string

const (
	// TriggerManual is an operator-initiated run (workflow dispatch or
	// a local invocation). Manual runs never commit, tag, or upload.
	TriggerManual Trigger = "manual"
	// TriggerPublished is a release that was just published.
	TriggerPublished Trigger = "published"
	// TriggerEdited is a published release whose record was edited.
	TriggerEdited Trigger = "edited"
)

// ReleaseEvent is the immutable description of the triggering release.
type ReleaseEvent struct {
	Trigger      Trigger
	TagName      string
	TargetBranch string
	Draft        bool
	Prerelease   bool
}

// ShouldStamp reports whether version stamping may run for this event.
// Draft releases are never stamped; a tag name is required.
func (e ReleaseEvent) ShouldStamp() bool {
	return !e.Draft && e.TagName != ""
}

// ShouldPublish reports whether commit, tag, and asset upload may run.
// Requires a published (or edited) stable, non-draft release.
func (e ReleaseEvent) ShouldPublish() bool {
	return e.Trigger != TriggerManual && !e.Draft && !e.Prerelease
}

// Manual constructs an operator-initiated event for the given tag.
// The tag may be empty, in which case only archiving runs.
func Manual(tag string) ReleaseEvent {
	return ReleaseEvent{
		Trigger: TriggerManual,
		TagName: tag,
	}
}

// payload mirrors the parts of the CI release event JSON that relpack
// reads. Field names follow the GitHub webhook payload.
type payload struct {
	Action  string `json:"action"`
	Release struct {
		TagName         string `json:"tag_name"`
		TargetCommitish string `json:"target_commitish"`
		Draft           bool   `json:"draft"`
		Prerelease      bool   `json:"prerelease"`
	} `json:"release"`
	Inputs struct {
		Tag string `json:"tag"`
	} `json:"inputs"`
}

// Parse builds a ReleaseEvent from a CI event name and its JSON payload.
// Supported event names are "release" (actions "published" and "edited")
// and "workflow_dispatch" (an optional "tag" input).
func Parse(eventName string, data []byte) (ReleaseEvent, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return ReleaseEvent{}, fmt.Errorf("failed to parse event payload: %w", err)
	}

	switch eventName {
	case "workflow_dispatch":
		return Manual(p.Inputs.Tag), nil

	case "release":
		var trigger Trigger
		switch p.Action {
		case "published":
			trigger = TriggerPublished
		case "edited":
			trigger = TriggerEdited
		default:
			return ReleaseEvent{}, fmt.Errorf("unsupported release action %q (expected published or edited)", p.Action)
		}
		if p.Release.TagName == "" {
			return ReleaseEvent{}, fmt.Errorf("release event has no tag_name")
		}
		return ReleaseEvent{
			Trigger:      trigger,
			TagName:      p.Release.TagName,
			TargetBranch: p.Release.TargetCommitish,
			Draft:        p.Release.Draft,
			Prerelease:   p.Release.Prerelease,
		}, nil

	default:
		return ReleaseEvent{}, fmt.Errorf("unsupported event %q (expected release or workflow_dispatch)", eventName)
	}
}

// FromEnvironment builds a ReleaseEvent from the hosting CI environment:
// GITHUB_EVENT_NAME names the event and GITHUB_EVENT_PATH points at the
// payload file. Returns (event, false, nil) when neither variable is set,
// so callers can fall back to explicit flags for local runs.
func FromEnvironment() (ReleaseEvent, bool, error) {
	eventName := os.Getenv("GITHUB_EVENT_NAME")
	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	if eventName == "" || eventPath == "" {
		return ReleaseEvent{}, false, nil
	}

	data, err := os.ReadFile(eventPath)
	if err != nil {
		return ReleaseEvent{}, false, fmt.Errorf("failed to read event payload: %w", err)
	}

	ev, err := Parse(eventName, data)
	if err != nil {
		return ReleaseEvent{}, false, err
	}
	return ev, true, nil
}
