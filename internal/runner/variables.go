package runner

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/msds-io/msds/internal/engine"
)

// BuildVariables assembles the variable set available for template
// expansion: built-in job variables plus the explicitly allowed
// environment variables. Referencing an allowed variable that is not set
// in the environment is an error.
func BuildVariables(jobName string, jobDate time.Time, allowedEnv []string) (map[string]string, error) {
	vars := map[string]string{
		"JOB_NAME":         jobName,
		"JOB_DATE_ISO8601": jobDate.Format(engine.ISO8601Basic),
		"JOB_DATE_RFC3339": jobDate.Format(time.RFC3339),
	}

	var errs []error
	for _, name := range allowedEnv {
		value, ok := os.LookupEnv(name)
		if !ok {
			errs = append(errs, fmt.Errorf("allowed environment variable %s is not set", name))
			continue
		}
		vars[name] = value
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return vars, nil
}
