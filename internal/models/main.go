// Package models defines the core data structures for inventory items,
// students, rental records, and backup snapshots.
package models

import "time"

// Category classifies an instrument or piece of equipment.
type Category string

const (
	// CategoryBrass covers trumpets, trombones, tubas and similar.
	CategoryBrass Category = "Brass"
	// CategoryWoodwind covers clarinets, flutes, saxophones and similar.
	CategoryWoodwind Category = "Woodwind"
	// CategoryPercussion covers drums, timpani, mallet instruments and similar.
	CategoryPercussion Category = "Percussion"
	// CategoryString covers violins, cellos, basses and similar.
	CategoryString Category = "String"
	// CategoryOther covers accessories and anything uncategorized.
	CategoryOther Category = "Other"
)

// Condition describes the physical state of an item.
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// ItemStatus describes the availability of an item.
type ItemStatus string

const (
	// StatusAvailable means the item is in storage and can be rented.
	StatusAvailable ItemStatus = "Available"
	// StatusRented means the item is out with a student.
	StatusRented ItemStatus = "Rented"
	// StatusNeedRepair means the item is withdrawn until repaired.
	StatusNeedRepair ItemStatus = "Need Repair"
)

// InventoryItem is a single instrument or piece of equipment.
type InventoryItem struct {
	// ID is the opaque unique identifier assigned by the store.
	ID string `json:"id"`
	// Name is the display name, e.g. "Trumpet".
	Name string `json:"name"`
	// Category classifies the item.
	Category Category `json:"category"`
	// Brand is the manufacturer, e.g. "Bach".
	Brand string `json:"brand"`
	// Model is the manufacturer's model designation.
	Model string `json:"model"`
	// Barcode is the printed label code. It is unique across all items
	// and stable independently of ID.
	Barcode string `json:"barcode"`
	// Condition is the physical state of the item.
	Condition Condition `json:"condition"`
	// Status is the availability of the item.
	Status ItemStatus `json:"status"`
	// Value is the replacement value in whole currency units.
	Value float64 `json:"value"`
	// Location is where the item is stored, if recorded.
	Location string `json:"location,omitempty"`
}

// IsRented reports whether the item is currently out with a student.
func (i InventoryItem) IsRented() bool { return i.Status == StatusRented }

// Student is a band member who can rent items.
type Student struct {
	// ID is the opaque unique identifier assigned by the store.
	ID string `json:"id"`
	// Name is the student's full name.
	Name string `json:"name"`
	// Grade is the school grade, e.g. "10th".
	Grade string `json:"grade"`
	// Email is the contact email address.
	Email string `json:"email"`
	// Phone is the contact phone number.
	Phone string `json:"phone"`
}

// RentalStatus describes the lifecycle state of a rental.
type RentalStatus string

const (
	// RentalActive means the item is currently out with the student.
	RentalActive RentalStatus = "Active"
	// RentalCompleted means the item has been returned.
	RentalCompleted RentalStatus = "Completed"
)

// RentalRecord tracks one item loaned to one student.
type RentalRecord struct {
	// ID is the opaque unique identifier assigned by the store.
	ID string `json:"id"`
	// StudentID references the renting Student.
	StudentID string `json:"studentId"`
	// ItemID references the rented InventoryItem.
	ItemID string `json:"itemId"`
	// StudentName is the student's name captured at creation time.
	// It is not updated if the student record changes later.
	StudentName string `json:"studentName"`
	// ItemName is the item's name captured at creation time.
	ItemName string `json:"itemName"`
	// StartDate is the rental start date in YYYY-MM-DD form.
	StartDate string `json:"startDate"`
	// EndDate is the expected return date in YYYY-MM-DD form.
	EndDate string `json:"endDate"`
	// Status is Active while the item is out, Completed after return.
	Status RentalStatus `json:"status"`
}

// SnapshotSchemaVersion is the highest snapshot schema this build can read.
const SnapshotSchemaVersion = 1

// Snapshot is a complete, consistent copy of the three record collections
// at one instant. It is the unit of local persistence and of cloud
// backup/restore. Unknown fields are ignored on read so that newer builds
// can add fields without breaking older ones.
type Snapshot struct {
	// SchemaVersion identifies the snapshot layout.
	SchemaVersion int `json:"schema_version"`
	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
	// Items holds every inventory item.
	Items []InventoryItem `json:"items"`
	// Students holds every student.
	Students []Student `json:"students"`
	// Rentals holds every rental record, active and completed.
	Rentals []RentalRecord `json:"rentals"`
}

// EmptySnapshot returns a snapshot with no records at the current schema.
func EmptySnapshot() Snapshot {
	return Snapshot{SchemaVersion: SnapshotSchemaVersion}
}

// Stats is a pure aggregation over the current items.
type Stats struct {
	TotalItems      int     `json:"totalItems"`
	RentedItems     int     `json:"rentedItems"`
	AvailableItems  int     `json:"availableItems"`
	NeedRepairItems int     `json:"needRepairItems"`
	TotalValue      float64 `json:"totalValue"`
}

// SyncStatus reflects the current auth and sync state for the UI.
// It is never persisted; a fresh process starts signed-out and idle.
type SyncStatus struct {
	// SignedIn is true while an authenticated session is held.
	SignedIn bool `json:"isSignedIn"`
	// Account is the signed-in account identity, empty when signed out.
	Account string `json:"account,omitempty"`
	// Syncing is true for the duration of a backup or restore call.
	Syncing bool `json:"isSyncing"`
	// LastBackupAt is when the last successful backup finished, if any.
	LastBackupAt *time.Time `json:"lastBackupAt,omitempty"`
	// LastError is the most recent sync error message, empty after success.
	LastError string `json:"lastError,omitempty"`
}
