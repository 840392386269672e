// Package validation checks configuration structs.
//
// Validate applies go-playground/validator struct tags; Validator collects
// cross-field checks that tags cannot express. Both report failures as an
// INVALID_CONFIG *errors.AppError whose details list every failing field.
package validation
