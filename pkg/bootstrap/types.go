package bootstrap

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// StampMarker is written into every stamp file. Only the file's mtime is ever read back.
const StampMarker = "Timestamp file created by bootstrap\n"

// Action is a single setup step
type Action struct {
	Name string `yaml:"name"`
	// Input is relative to the project root. The action is stale once it's newer than the stamp.
	Input   string   `yaml:"input"`
	Command []string `yaml:"cmd"`
}

// StampName returns the file name of the action's stamp inside the stamp directory
func (a Action) StampName() string {
	return filepath.Base(a.Input) + ".stamp"
}

// CommandLine returns the command in a human-readable form
func (a Action) CommandLine() string {
	return strings.Join(a.Command, " ")
}

// ActionList is the ordered action table. The order is also the execution order.
type ActionList []Action

// Validate makes sure that every action is complete and that no two actions share a stamp file
func (l ActionList) Validate() error {
	stamps := make(map[string]string, len(l))
	for idx, action := range l {
		if action.Name == "" {
			return eris.Errorf("action #%d has no name", idx)
		}
		if action.Input == "" {
			return eris.Errorf("action %q has no input", action.Name)
		}
		if len(action.Command) == 0 || action.Command[0] == "" {
			return eris.Errorf("action %q has no command", action.Name)
		}

		stamp := action.StampName()
		if other, ok := stamps[stamp]; ok {
			return eris.Errorf("actions %q and %q would both use the stamp %s", other, action.Name, stamp)
		}
		stamps[stamp] = action.Name
	}

	return nil
}

// DefaultActions returns the built-in action table that is used when no manifest is configured
func DefaultActions() ActionList {
	return ActionList{
		{
			Name:    "npm packages",
			Input:   "package.json",
			Command: []string{"npm", "ci"},
		},
		{
			Name:    "create entry points",
			Input:   "tools/maint/create_entry_points.py",
			Command: []string{"python3", "tools/maint/create_entry_points.py"},
		},
	}
}

// Options controls a single Run
type Options struct {
	// Verbose is informational only and doesn't change what Run does
	Verbose bool
	// DryRun reports the first out-of-date action without executing it and stops there
	DryRun bool
}

// ActionStatus describes the state of one action as reported by Status
type ActionStatus struct {
	Action    Action
	InputPath string
	StampPath string
	Stale     bool
	// StampTime is zero if the stamp doesn't exist yet
	StampTime time.Time
}
