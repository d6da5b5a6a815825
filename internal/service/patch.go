package service

import (
	"fmt"
	"math"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// Patch field whitelists. A submitted key outside the whitelist fails the
// whole patch before any field is mutated.
var (
	userPatchFields = map[string]bool{
		"name":     true,
		"email":    true,
		"age":      true,
		"password": true,
	}

	taskPatchFields = map[string]bool{
		"description": true,
		"completed":   true,
	}
)

// validatePatchKeys rejects any submitted key outside the allowed set.
func validatePatchKeys(patch map[string]any, allowed map[string]bool) error {
	if len(patch) == 0 {
		return fmt.Errorf("%w: no updatable fields submitted", domain.ErrValidation)
	}
	for key := range patch {
		if !allowed[key] {
			return fmt.Errorf("%w: field %q is not updatable", domain.ErrValidation, key)
		}
	}
	return nil
}

// patchString extracts a string field from a decoded JSON patch.
func patchString(patch map[string]any, key string) (string, bool, error) {
	raw, ok := patch[key]
	if !ok {
		return "", false, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: field %q must be a string", domain.ErrValidation, key)
	}
	return value, true, nil
}

// patchInt extracts an integer field from a decoded JSON patch.
// encoding/json decodes numbers into float64, so fractional values are
// rejected explicitly.
func patchInt(patch map[string]any, key string) (int, bool, error) {
	raw, ok := patch[key]
	if !ok {
		return 0, false, nil
	}
	value, ok := raw.(float64)
	if !ok || value != math.Trunc(value) {
		return 0, false, fmt.Errorf("%w: field %q must be an integer", domain.ErrValidation, key)
	}
	return int(value), true, nil
}

// patchBool extracts a boolean field from a decoded JSON patch.
func patchBool(patch map[string]any, key string) (bool, bool, error) {
	raw, ok := patch[key]
	if !ok {
		return false, false, nil
	}
	value, ok := raw.(bool)
	if !ok {
		return false, false, fmt.Errorf("%w: field %q must be a boolean", domain.ErrValidation, key)
	}
	return value, true, nil
}

// ApplyTaskPatch validates the patch against the task whitelist and applies
// it to the in-memory task. Key and type errors are detected before anything
// is touched; callers persist the task only when the patch succeeds.
func ApplyTaskPatch(task *domain.Task, patch map[string]any) error {
	if err := validatePatchKeys(patch, taskPatchFields); err != nil {
		return err
	}

	description, hasDescription, err := patchString(patch, "description")
	if err != nil {
		return err
	}
	completed, hasCompleted, err := patchBool(patch, "completed")
	if err != nil {
		return err
	}

	if hasDescription {
		task.Description = description
	}
	if hasCompleted {
		task.Completed = completed
	}

	return task.Validate()
}
