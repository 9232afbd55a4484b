package runner

import (
	"fmt"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/engine/steps"
	filesource "github.com/msds-io/msds/internal/sources/file"
	httpsource "github.com/msds-io/msds/internal/sources/http"
)

// ResolvedSpec pairs a registry kind with the concrete spec value the
// factory expects.
type ResolvedSpec struct {
	Kind string
	Spec any
}

// ResolveSourceSpec maps a declared source to its registry kind. Exactly
// one typed field must be set.
func ResolveSourceSpec(source v1.Source) (ResolvedSpec, error) {
	var resolved []ResolvedSpec

	if source.File != nil {
		resolved = append(resolved, ResolvedSpec{Kind: filesource.SourceKind, Spec: source.File})
	}
	if source.HTTP != nil {
		resolved = append(resolved, ResolvedSpec{Kind: httpsource.SourceKind, Spec: source.HTTP})
	}

	switch len(resolved) {
	case 0:
		return ResolvedSpec{}, fmt.Errorf("source '%s' declares no type", source.ID)
	case 1:
		return resolved[0], nil
	default:
		return ResolvedSpec{}, fmt.Errorf("source '%s' declares more than one type", source.ID)
	}
}

// ResolveStepSpec maps a declared step to its registry kind. Exactly one
// typed field must be set.
func ResolveStepSpec(step v1.Step) (ResolvedSpec, error) {
	var resolved []ResolvedSpec

	if step.FileScan != nil {
		resolved = append(resolved, ResolvedSpec{Kind: filesource.ScanStepKind, Spec: step.FileScan})
	}
	if step.FileRead != nil {
		resolved = append(resolved, ResolvedSpec{Kind: filesource.ReadStepKind, Spec: step.FileRead})
	}
	if step.HTTPGet != nil {
		resolved = append(resolved, ResolvedSpec{Kind: httpsource.GetStepKind, Spec: step.HTTPGet})
	}
	if step.Static != nil {
		resolved = append(resolved, ResolvedSpec{Kind: steps.StaticStepKind, Spec: step.Static})
	}
	if step.Exec != nil {
		resolved = append(resolved, ResolvedSpec{Kind: steps.ExecStepKind, Spec: step.Exec})
	}

	switch len(resolved) {
	case 0:
		return ResolvedSpec{}, fmt.Errorf("step '%s' declares no type", step.ID)
	case 1:
		return resolved[0], nil
	default:
		return ResolvedSpec{}, fmt.Errorf("step '%s' declares more than one type", step.ID)
	}
}
