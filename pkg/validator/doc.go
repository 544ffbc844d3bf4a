// Package validator provides a lightweight rule-based validation engine.
//
// Validation is expressed as a flat list of rules applied with Apply, which
// collects every violation into ValidationErrors instead of stopping at the
// first failure. This keeps validation logic explicit and independent of any
// schema library.
//
// Example:
//
//	err := validator.Apply(
//		validator.RequiredString("projectName", cfg.ProjectName),
//		validator.Positive("monthly.suggested", cfg.Monthly.Suggested),
//	)
//	if errs := validator.ExtractValidationErrors(err); errs != nil {
//		for _, e := range errs {
//			fmt.Println(e.Field, e.Message)
//		}
//	}
package validator
