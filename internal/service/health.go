package service

import (
	"context"
	"os/exec"
	"time"

	"github.com/cenkalti/backoff/v4"

	"launchpad/internal/template"
)

var healthEngine = template.New()

// probeOnce runs def's health-check command once and reports whether its
// exit code matches HealthExitCode.
func probeOnce(ctx context.Context, def Definition, ctxVars map[string]interface{}) bool {
	if len(def.HealthCheck) == 0 {
		return true // no health check defined: healthy by definition
	}
	argv, err := expandArgv(def.HealthCheck, ctxVars)
	if err != nil {
		return false
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	err = cmd.Run()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
	} else if err != nil {
		return false
	}
	return exitCode == def.HealthExitCode
}

// probeWithRetry runs the health check up to five times with increasing
// (exponential, starting at 200ms) backoff during post-start.
func probeWithRetry(ctx context.Context, def Definition, ctxVars map[string]interface{}) bool {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 200 * time.Millisecond
	b := backoff.WithMaxRetries(eb, 4)
	attempt := 0
	healthy := false
	backoff.Retry(func() error {
		attempt++
		if probeOnce(ctx, def, ctxVars) {
			healthy = true
			return nil
		}
		if attempt > 5 {
			return nil
		}
		return errRetryHealth
	}, backoff.WithContext(b, ctx))
	return healthy
}

type healthError string

func (e healthError) Error() string { return string(e) }

const errRetryHealth = healthError("service not yet healthy")

func expandArgv(argvTemplate []string, ctxVars map[string]interface{}) ([]string, error) {
	argv := make([]string, len(argvTemplate))
	for i, a := range argvTemplate {
		out, err := healthEngine.Render(a, ctxVars)
		if err != nil {
			return nil, err
		}
		argv[i] = out
	}
	return argv, nil
}
