package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ValidationError means the claim itself is malformed (missing ad, unknown
// plan). Nothing was persisted; the user must correct the input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// TransientStoreError means the store was unreachable before anything was
// persisted. The whole submission is safe to retry.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}

// ActivationError means the payment record was persisted but flipping the ad
// to featured failed. Retrying the whole submission would duplicate the
// payment; the activation step must be re-applied against PaymentID instead.
type ActivationError struct {
	PaymentID primitive.ObjectID
	Err       error
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("payment %s recorded but ad activation failed: %v", e.PaymentID.Hex(), e.Err)
}

func (e *ActivationError) Unwrap() error {
	return e.Err
}
