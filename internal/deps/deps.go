package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external tool keyprobe shells out to. Command is a
// bare name looked up on PATH or an explicit path.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the outcome of resolving one Requirement. Path holds the
// resolved executable when Available is set; Detail explains a failure.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// CheckBinaries resolves every requirement in order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		out[i] = resolve(req)
	}
	return out
}

func resolve(req Requirement) Status {
	st := Status{Requirement: req}
	if req.Command == "" {
		st.Detail = "command not configured"
		return st
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		st.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return st
	}
	st.Available = true
	st.Path = path
	return st
}
