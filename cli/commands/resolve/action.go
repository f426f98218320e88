package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/delegat/stackdeploy/cli/commands/common"
	"github.com/delegat/stackdeploy/internal/deploy"
	"github.com/delegat/stackdeploy/internal/errors"
)

// PhaseView is the printed form of a deployment phase.
type PhaseView struct {
	Name     string        `json:"name"`
	Jobs     []JobView     `json:"jobs,omitempty"`
	Packaged *PackagedView `json:"packaged,omitempty"`
}

// JobView is the printed form of a provider job.
type JobView struct {
	Name                 string            `json:"name"`
	Kind                 string            `json:"kind"`
	Template             string            `json:"template"`
	AccountID            string            `json:"account_id"`
	OrganizationalUnitID string            `json:"organizational_unit_id,omitempty"`
	Regions              []string          `json:"regions"`
	Capabilities         []string          `json:"capabilities"`
	Parameters           map[string]string `json:"parameters"`
}

// PackagedView is the printed form of the packaged application phase.
type PackagedView struct {
	StackName string   `json:"stack_name"`
	Regions   []string `json:"regions"`
	Commands  []string `json:"commands"`
}

func Run(_ context.Context, opts *Options) error {
	_, plan, err := common.LoadPlan(opts.DeployOptions)
	if err != nil {
		return err
	}

	views := NewPlanView(plan, opts.SAMPath)

	switch opts.Format {
	case FormatJSON:
		return outputJSON(opts.Writer, views)
	default:
		return outputText(opts.Writer, views)
	}
}

// NewPlanView converts plan into its printed form.
func NewPlanView(plan *deploy.Plan, samPath string) []PhaseView {
	views := make([]PhaseView, 0, len(plan.Phases))

	for _, phase := range plan.Phases {
		view := PhaseView{Name: phase.Name}

		if app := phase.Packaged; app != nil {
			view.Packaged = &PackagedView{
				StackName: app.StackName,
				Regions:   app.Regions,
				Commands:  []string{samPath + " " + strings.Join(app.BuildCommand(), " ")},
			}

			for _, region := range app.Regions {
				view.Packaged.Commands = append(view.Packaged.Commands, samPath+" "+strings.Join(app.DeployCommand(region), " "))
			}
		}

		for _, job := range phase.Jobs {
			view.Jobs = append(view.Jobs, JobView{
				Name:                 job.Name,
				Kind:                 job.Target.Kind.String(),
				Template:             job.TemplatePath,
				AccountID:            job.Target.AccountID,
				OrganizationalUnitID: job.Target.OrganizationalUnitID,
				Regions:              job.Target.Regions,
				Capabilities:         job.Capabilities,
				Parameters:           job.Parameters.Strings(),
			})
		}

		views = append(views, view)
	}

	return views
}

func outputJSON(w io.Writer, views []PhaseView) error {
	jsonBytes, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return errors.New(err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))

	return err
}

func outputText(w io.Writer, views []PhaseView) error {
	var sb strings.Builder

	for _, view := range views {
		sb.WriteString(view.Name + "\n")

		if app := view.Packaged; app != nil {
			fmt.Fprintf(&sb, "  %s (packaged) in %s\n", app.StackName, strings.Join(app.Regions, ", "))

			for _, cmd := range app.Commands {
				sb.WriteString("    $ " + cmd + "\n")
			}
		}

		for _, job := range view.Jobs {
			target := job.AccountID
			if job.OrganizationalUnitID != "" {
				target += " -> " + job.OrganizationalUnitID
			}

			fmt.Fprintf(&sb, "  %s (%s) %s in %s\n", job.Name, job.Kind, target, strings.Join(job.Regions, ", "))

			for _, name := range slices.Sorted(maps.Keys(job.Parameters)) {
				fmt.Fprintf(&sb, "    %s = %s\n", name, job.Parameters[name])
			}
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
