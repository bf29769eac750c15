package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is one invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d config errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func ValidBackends() []string {
	return []string{BackendSQLite, BackendFile, BackendMemory}
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

func ValidProgressPolicies() []string {
	return []string{PolicyLinear, PolicyMilestone}
}

// Validate returns every invalid setting, or nil.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidBackends(), c.Store.Backend) {
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: "must be one of " + strings.Join(ValidBackends(), ", "),
		})
	}

	if c.Timeline.ColumnWidth <= 0 {
		errs = append(errs, ValidationError{
			Field:   "timeline.column_width",
			Value:   c.Timeline.ColumnWidth,
			Message: "must be positive",
		})
	}
	if c.Timeline.MaxWidth < 0 {
		errs = append(errs, ValidationError{
			Field:   "timeline.max_width",
			Value:   c.Timeline.MaxWidth,
			Message: "must not be negative",
		})
	}
	if !slices.Contains(ValidProgressPolicies(), c.Timeline.ProgressPolicy) {
		errs = append(errs, ValidationError{
			Field:   "timeline.progress_policy",
			Value:   c.Timeline.ProgressPolicy,
			Message: "must be one of " + strings.Join(ValidProgressPolicies(), ", "),
		})
	}
	if c.Timeline.ProgressPolicy == PolicyMilestone && (c.Timeline.MilestoneSteps < 1 || c.Timeline.MilestoneSteps > 100) {
		errs = append(errs, ValidationError{
			Field:   "timeline.milestone_steps",
			Value:   c.Timeline.MilestoneSteps,
			Message: "must be between 1 and 100",
		})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	return errs
}
