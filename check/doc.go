// Package check contains the classification steps used by disposable:
// syntax validation and domain membership.
// These functions can be used directly, but the recommended approach is
// to use the Checker from the github.com/optimode/disposable package.
package check
