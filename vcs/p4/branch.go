package p4

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// ViewMapping pairs a source depot path with a target depot path.
type ViewMapping struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// String renders the mapping as a branch view line, quoting paths that
// contain spaces.
func (m ViewMapping) String() string {
	return quotePath(m.Source) + " " + quotePath(m.Target)
}

func quotePath(p string) string {
	if strings.ContainsAny(p, " \t") {
		return `"` + p + `"`
	}
	return p
}

// BranchSpec is a Perforce branch mapping.
type BranchSpec struct {
	Name        string
	Owner       string
	Description string
	Options     string
	View        []ViewMapping
}

// Form renders the spec in the text form `p4 branch -i` reads.
func (b BranchSpec) Form() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Branch:\t%s\n\n", b.Name)
	if b.Owner != "" {
		fmt.Fprintf(&sb, "Owner:\t%s\n\n", b.Owner)
	}
	sb.WriteString("Description:\n")
	description := strings.TrimSpace(b.Description)
	if description == "" {
		description = "Created by p4migrate."
	}
	for _, line := range strings.Split(description, "\n") {
		fmt.Fprintf(&sb, "\t%s\n", line)
	}
	sb.WriteString("\n")
	options := b.Options
	if options == "" {
		options = "unlocked"
	}
	fmt.Fprintf(&sb, "Options:\t%s\n\n", options)
	sb.WriteString("View:\n")
	for _, m := range b.View {
		fmt.Fprintf(&sb, "\t%s\n", m.String())
	}
	return sb.String()
}

// FetchBranch returns the branch spec called name. For a branch that does
// not exist yet the server returns a default spec.
func (c *Client) FetchBranch(ctx context.Context, name string) (BranchSpec, error) {
	if err := validateArg("branch name", name); err != nil {
		return BranchSpec{}, err
	}
	rec, err := c.runSingle(ctx, nil, "branch", "-o", name)
	if err != nil {
		return BranchSpec{}, errors.Wrapf(err, "failed to fetch branch %s", name)
	}

	spec := BranchSpec{
		Name:        rec.Get("Branch"),
		Owner:       rec.Get("Owner"),
		Description: rec.Get("Description"),
		Options:     rec.Get("Options"),
	}
	if spec.Name == "" {
		spec.Name = name
	}
	for _, line := range rec.Indexed("View") {
		if m, ok := parseViewLine(line); ok {
			spec.View = append(spec.View, m)
		}
	}
	return spec, nil
}

// SaveBranch creates or updates a branch spec.
func (c *Client) SaveBranch(ctx context.Context, spec BranchSpec) error {
	if err := validateArg("branch name", spec.Name); err != nil {
		return err
	}
	_, err := c.run(ctx, []byte(spec.Form()), "branch", "-i")
	return errors.Wrapf(err, "failed to save branch %s", spec.Name)
}

// parseViewLine splits a view line into source and target. Paths containing
// spaces are double-quoted in view lines.
func parseViewLine(line string) (ViewMapping, bool) {
	fields, err := shlex.Split(line)
	if err != nil || len(fields) != 2 {
		return ViewMapping{}, false
	}
	return ViewMapping{Source: fields[0], Target: fields[1]}, true
}
