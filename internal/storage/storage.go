package storage

import "activityScope/internal/model"

// Storage defines a sink for exported activity.
type Storage interface {
	PutEvents(records []model.EventRecord) error
}

// ErrorSink receives logs that failed to normalize.
type ErrorSink interface {
	PutDecodeErrors(records []model.DecodeError) error
}
