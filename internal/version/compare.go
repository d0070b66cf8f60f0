package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// CheckVersionCompatibility checks the running engine against the engine_version a backtest
// config asks for. required is either a plain version or a semver constraint.
//
// Rules:
//   - an empty requirement, or "main" on either side, skips the check
//   - a constraint ("^0.4", ">= 0.3, < 0.5") must be satisfied by the engine
//   - a plain version must match the engine's major and minor version; patches may differ
func CheckVersionCompatibility(engineVersion, required string) error {
	engineVersion = strings.TrimPrefix(strings.TrimSpace(engineVersion), "v")
	required = strings.TrimSpace(required)

	if required == "" || engineVersion == "main" || strings.TrimPrefix(required, "v") == "main" {
		return nil
	}

	engineSemver, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version '%s'", engineVersion)
	}

	if isConstraint(required) {
		constraint, err := semver.NewConstraint(required)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version constraint '%s'", required)
		}

		if !constraint.Check(engineSemver) {
			return errors.Newf(errors.ErrCodeVersionMismatch,
				"engine version %s does not satisfy constraint '%s'", engineSemver, required)
		}

		return nil
	}

	requiredSemver, err := semver.NewVersion(strings.TrimPrefix(required, "v"))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid required engine version '%s'", required)
	}

	if engineSemver.Major() != requiredSemver.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engineSemver.Major(), requiredSemver.Major())
	}

	if engineSemver.Minor() != requiredSemver.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: engine is %d.%d.x but config requires %d.%d.x",
			engineSemver.Major(), engineSemver.Minor(),
			requiredSemver.Major(), requiredSemver.Minor())
	}

	return nil
}

func isConstraint(s string) bool {
	return strings.ContainsAny(s, "<>=~^*,|xX ")
}
