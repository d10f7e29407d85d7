package inventory

import "errors"

// Validation errors are recoverable and caller-visible. Callers compare
// with errors.Is; messages carry the offending identifier.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord means required fields are missing or malformed.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrDuplicateBarcode means another item already carries the barcode.
	ErrDuplicateBarcode = errors.New("barcode already in use")
	// ErrItemAlreadyRented means the item is already out with a student.
	ErrItemAlreadyRented = errors.New("item already rented")
	// ErrRentalAlreadyCompleted means the rental was returned earlier.
	ErrRentalAlreadyCompleted = errors.New("rental already completed")
	// ErrItemHasActiveRental blocks deleting an item that is out.
	ErrItemHasActiveRental = errors.New("item has an active rental")
	// ErrStudentHasActiveRental blocks deleting a student holding an item.
	ErrStudentHasActiveRental = errors.New("student has an active rental")
)
