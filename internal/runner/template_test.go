package runner

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/msds-io/msds/apis/v1"
)

func TestExpand(t *testing.T) {
	vars := map[string]string{
		"JOB_NAME": "poc",
		"REGION":   "eu-west-1",
	}

	tests := []struct {
		name        string
		input       string
		want        string
		errContains string
	}{
		{
			name:  "no variables",
			input: "plain string",
			want:  "plain string",
		},
		{
			name:  "single variable",
			input: "job-${JOB_NAME}",
			want:  "job-poc",
		},
		{
			name:  "multiple variables",
			input: "${JOB_NAME}-${REGION}",
			want:  "poc-eu-west-1",
		},
		{
			name:        "undefined variable",
			input:       "${MISSING}",
			errContains: "undefined variable(s) MISSING",
		},
		{
			name:  "dollar without braces is literal",
			input: "$JOB_NAME",
			want:  "$JOB_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.input, vars)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandTemplates(t *testing.T) {
	job := &v1.PipelineJob{
		Kind:     "PipelineJob",
		Metadata: v1.Metadata{Name: "expansion"},
		Spec: v1.PipelineJobSpec{
			Sources: []v1.Source{
				{ID: "in", File: &v1.FileSource{Root: "${INPUT_ROOT}"}},
			},
			Steps: []v1.Step{
				{
					ID:       "read",
					Source:   lo.ToPtr("in"),
					FileRead: &v1.FileReadStep{Path: "${JOB_NAME}.json"},
				},
				{
					ID:   "probe",
					Exec: &v1.ExecStep{Program: []string{"echo", "${JOB_NAME}"}},
				},
			},
		},
	}

	vars := map[string]string{
		"INPUT_ROOT": "/data/in",
		"JOB_NAME":   "expansion",
	}

	require.NoError(t, ExpandTemplates(job, vars))

	assert.Equal(t, "/data/in", job.Spec.Sources[0].File.Root)
	assert.Equal(t, "expansion.json", job.Spec.Steps[0].FileRead.Path)
	assert.Equal(t, []string{"echo", "expansion"}, job.Spec.Steps[1].Exec.Program)
}

func TestExpandTemplates_UntaggedFieldsUntouched(t *testing.T) {
	job := &v1.PipelineJob{
		Kind:     "PipelineJob",
		Metadata: v1.Metadata{Name: "${JOB_NAME}"},
		Spec: v1.PipelineJobSpec{
			Steps: []v1.Step{
				{ID: "${JOB_NAME}", Static: &v1.StaticStep{Value: lo.ToPtr("x")}},
			},
		},
	}

	require.NoError(t, ExpandTemplates(job, map[string]string{"JOB_NAME": "poc"}))

	assert.Equal(t, "${JOB_NAME}", job.Metadata.Name)
	assert.Equal(t, "${JOB_NAME}", job.Spec.Steps[0].ID)
}

func TestExpandTemplates_UndefinedVariable(t *testing.T) {
	job := &v1.PipelineJob{
		Spec: v1.PipelineJobSpec{
			Sources: []v1.Source{
				{ID: "in", File: &v1.FileSource{Root: "${NOPE}"}},
			},
		},
	}

	err := ExpandTemplates(job, map[string]string{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "NOPE")
}

func TestBuildVariables(t *testing.T) {
	t.Setenv("MSDS_TEST_TOKEN", "tok-123")

	vars, err := BuildVariables("poc", mustParseTime(t, "2026-02-01T10:30:00Z"), []string{"MSDS_TEST_TOKEN"})
	require.NoError(t, err)

	assert.Equal(t, "poc", vars["JOB_NAME"])
	assert.Equal(t, "20260201T103000Z", vars["JOB_DATE_ISO8601"])
	assert.Equal(t, "2026-02-01T10:30:00Z", vars["JOB_DATE_RFC3339"])
	assert.Equal(t, "tok-123", vars["MSDS_TEST_TOKEN"])
}

func TestBuildVariables_MissingEnv(t *testing.T) {
	_, err := BuildVariables("poc", mustParseTime(t, "2026-02-01T10:30:00Z"), []string{"MSDS_TEST_UNSET_VAR"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "MSDS_TEST_UNSET_VAR")
}
