package service

import "errors"

var (
	ErrInvalidHours        = errors.New("invalid working hours")
	ErrInvalidServiceName  = errors.New("invalid service name")
	ErrInvalidDuration     = errors.New("invalid service duration")
	ErrInvalidImageURL     = errors.New("invalid image url")
	ErrServiceNotFound     = errors.New("service not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("appointment status cannot be changed")
)
