package services

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrOpInFlight    = errors.New("an ingestion for this campaign is already running")
)
