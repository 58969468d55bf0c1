// Package model holds the error taxonomy shared by the chunk codec and the
// crypto capability layer.
//
// Failures of both layers are *Error values with a Kind and a stable RuleID.
// They are permanent for their input: nothing in the data layer is retried.
package model
