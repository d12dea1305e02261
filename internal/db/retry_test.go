package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

// mockMongoDuplicateKeyError creates an error that IsMongoDuplicateKeyError will recognize.
func mockMongoDuplicateKeyError(key string) error {
	mongoErr := mongo.WriteError{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.collection index: _id_ dup key: { : \"%s\" }", key),
	}
	return mongo.WriteException{WriteErrors: []mongo.WriteError{mongoErr}}
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		return nil
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_RetriesOnDuplicateKey(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		if opCalled < 3 {
			return mockMongoDuplicateKeyError("some-id")
		}
		return nil
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if err != nil {
		t.Errorf("Expected no error after retries, got %v", err)
	}
	if opCalled != 3 {
		t.Errorf("Expected operation to be called 3 times, got %d", opCalled)
	}
}

func TestWithRetries_NonRetryableFailsImmediately(t *testing.T) {
	var opCalled int
	businessErr := errors.New("duplicate booking")
	operation := func() error {
		opCalled++
		return businessErr
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if !errors.Is(err, businessErr) {
		t.Errorf("Expected business error, got %v", err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_ExhaustsRetries(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		return mockMongoDuplicateKeyError("stuck")
	}

	err := WithRetries(operation, 2, IsMongoDuplicateKeyError)
	if err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if opCalled != 3 { // initial attempt + 2 retries
		t.Errorf("Expected operation to be called 3 times, got %d", opCalled)
	}
}

func TestWithRetries_RetriesDeadlineExceeded(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		if opCalled < 2 {
			return fmt.Errorf("store op: %w", context.DeadlineExceeded)
		}
		return nil
	}

	err := WithRetries(operation, 2, IsTransientError)
	if err != nil {
		t.Errorf("Expected no error after transient retry, got %v", err)
	}
	if opCalled != 2 {
		t.Errorf("Expected operation to be called 2 times, got %d", opCalled)
	}
}

func TestIsTransientError(t *testing.T) {
	if IsTransientError(nil) {
		t.Error("nil must not be transient")
	}
	if !IsTransientError(context.DeadlineExceeded) {
		t.Error("context.DeadlineExceeded must be transient")
	}
	if IsTransientError(errors.New("user not found")) {
		t.Error("plain business error must not be transient")
	}
}
