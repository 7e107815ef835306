package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrInvalidGuestCount = errors.New("guest count must be at least one")
)

type InsufficientSlotsError struct {
	EventID   string
	Available int
	Requested int
}

func (e InsufficientSlotsError) Error() string {
	return fmt.Sprintf("not enough slots for event %s: slots available %d, slots requested %d", e.EventID, e.Available, e.Requested)
}

func (e InsufficientSlotsError) InsufficientSlots() bool {
	return true
}

func IsInsufficientSlots(err error) bool {
	var target interface{ InsufficientSlots() bool }
	return errors.As(err, &target) && target.InsufficientSlots()
}
