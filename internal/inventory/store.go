// Package inventory implements the record store: the in-memory owner of
// the item, student, and rental collections.
//
// Every mutating operation performs exactly one persistence write before
// returning success. If the write fails, the in-memory change is rolled
// back and the call fails, so a successful mutation implies durability
// before the next read. Views subscribe to a change-notification channel
// instead of re-deriving state.
package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/models"
	"github.com/bandstand/bandstand/internal/persist"
)

// Store owns the three live record collections. Insertion order is
// preserved for stable listing. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	items    []models.InventoryItem
	students []models.Student
	rentals  []models.RentalRecord

	local persist.Store
	log   *zap.Logger
	subs  []chan struct{}
	newID func() string
}

// New creates an empty store backed by the given persistence adapter.
// Call Load to pick up the previously persisted dataset.
func New(local persist.Store, log *zap.Logger) *Store {
	return &Store{
		local: local,
		log:   log,
		newID: uuid.NewString,
	}
}

// Load replaces the in-memory collections with the last-persisted
// snapshot. A missing or corrupt local mirror yields an empty dataset.
func (s *Store) Load(ctx context.Context) error {
	snap, err := s.local.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading local snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.Items
	s.students = snap.Students
	s.rentals = snap.Rentals
	s.log.Info("loaded local dataset",
		zap.Int("items", len(s.items)),
		zap.Int("students", len(s.students)),
		zap.Int("rentals", len(s.rentals)))
	return nil
}

// Subscribe returns a channel that receives a signal after every applied
// mutation. The channel is buffered; slow receivers coalesce signals
// rather than blocking mutations.
func (s *Store) Subscribe() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan struct{}, 1)
	s.subs = append(s.subs, ch)
	return ch
}

// Items returns a copy of all inventory items in insertion order.
func (s *Store) Items() []models.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.InventoryItem(nil), s.items...)
}

// Students returns a copy of all students in insertion order.
func (s *Store) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Student(nil), s.students...)
}

// Rentals returns a copy of all rental records in insertion order.
func (s *Store) Rentals() []models.RentalRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.RentalRecord(nil), s.rentals...)
}

// Snapshot returns a point-in-time copy of the whole dataset. The sync
// engine calls this before its first network suspension so a backup always
// reflects the state at call time.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Stats recomputes the aggregate item statistics. Never cached: the inputs
// are small and staleness here would be a correctness bug.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st models.Stats
	for _, item := range s.items {
		st.TotalItems++
		st.TotalValue += item.Value
		switch item.Status {
		case models.StatusRented:
			st.RentedItems++
		case models.StatusAvailable:
			st.AvailableItems++
		case models.StatusNeedRepair:
			st.NeedRepairItems++
		}
	}
	return st
}

// ItemPatch describes a partial item update. Nil fields are left unchanged.
type ItemPatch struct {
	Name      *string
	Category  *models.Category
	Brand     *string
	Model     *string
	Barcode   *string
	Condition *models.Condition
	Status    *models.ItemStatus
	Value     *float64
	Location  *string
}

// AddItem validates the item, assigns a fresh ID, appends it, and
// persists. The item's status defaults to Available.
func (s *Store) AddItem(ctx context.Context, item models.InventoryItem) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" {
		return models.InventoryItem{}, fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}
	if item.Barcode == "" {
		return models.InventoryItem{}, fmt.Errorf("%w: barcode is required", ErrInvalidRecord)
	}
	if item.Value < 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: value must not be negative", ErrInvalidRecord)
	}
	if s.barcodeTakenLocked(item.Barcode, "") {
		return models.InventoryItem{}, fmt.Errorf("barcode %q: %w", item.Barcode, ErrDuplicateBarcode)
	}

	item.ID = s.newID()
	if item.Status == "" {
		item.Status = models.StatusAvailable
	}

	s.items = append(s.items, item)
	if err := s.commitLocked(ctx, func() {
		s.items = s.items[:len(s.items)-1]
	}); err != nil {
		return models.InventoryItem{}, err
	}
	return item, nil
}

// UpdateItem applies the patch to the identified item and persists.
func (s *Store) UpdateItem(ctx context.Context, id string, patch ItemPatch) (models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndexLocked(id)
	if idx < 0 {
		return models.InventoryItem{}, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	if patch.Barcode != nil {
		if *patch.Barcode == "" {
			return models.InventoryItem{}, fmt.Errorf("%w: barcode is required", ErrInvalidRecord)
		}
		if s.barcodeTakenLocked(*patch.Barcode, id) {
			return models.InventoryItem{}, fmt.Errorf("barcode %q: %w", *patch.Barcode, ErrDuplicateBarcode)
		}
	}
	if patch.Value != nil && *patch.Value < 0 {
		return models.InventoryItem{}, fmt.Errorf("%w: value must not be negative", ErrInvalidRecord)
	}

	prev := s.items[idx]
	item := &s.items[idx]
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Brand != nil {
		item.Brand = *patch.Brand
	}
	if patch.Model != nil {
		item.Model = *patch.Model
	}
	if patch.Barcode != nil {
		item.Barcode = *patch.Barcode
	}
	if patch.Condition != nil {
		item.Condition = *patch.Condition
	}
	if patch.Status != nil {
		item.Status = *patch.Status
	}
	if patch.Value != nil {
		item.Value = *patch.Value
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}

	if err := s.commitLocked(ctx, func() {
		s.items[idx] = prev
	}); err != nil {
		return models.InventoryItem{}, err
	}
	return s.items[idx], nil
}

// DeleteItem removes the identified item unless an active rental still
// references it.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.itemIndexLocked(id)
	if idx < 0 {
		return fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	for _, r := range s.rentals {
		if r.Status == models.RentalActive && r.ItemID == id {
			return fmt.Errorf("item %q: %w", id, ErrItemHasActiveRental)
		}
	}

	prev := s.items
	s.items = append(append([]models.InventoryItem(nil), s.items[:idx]...), s.items[idx+1:]...)
	return s.commitLocked(ctx, func() {
		s.items = prev
	})
}

// StudentPatch describes a partial student update. Nil fields are left
// unchanged.
type StudentPatch struct {
	Name  *string
	Grade *string
	Email *string
	Phone *string
}

// AddStudent assigns a fresh ID, appends the student, and persists.
func (s *Store) AddStudent(ctx context.Context, st models.Student) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.Name == "" {
		return models.Student{}, fmt.Errorf("%w: name is required", ErrInvalidRecord)
	}

	st.ID = s.newID()
	s.students = append(s.students, st)
	if err := s.commitLocked(ctx, func() {
		s.students = s.students[:len(s.students)-1]
	}); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// UpdateStudent applies the patch to the identified student and persists.
// Denormalized names on existing rentals are intentionally not rewritten.
func (s *Store) UpdateStudent(ctx context.Context, id string, patch StudentPatch) (models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.students {
		if s.students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Student{}, fmt.Errorf("student %q: %w", id, ErrNotFound)
	}

	prev := s.students[idx]
	st := &s.students[idx]
	if patch.Name != nil {
		st.Name = *patch.Name
	}
	if patch.Grade != nil {
		st.Grade = *patch.Grade
	}
	if patch.Email != nil {
		st.Email = *patch.Email
	}
	if patch.Phone != nil {
		st.Phone = *patch.Phone
	}

	if err := s.commitLocked(ctx, func() {
		s.students[idx] = prev
	}); err != nil {
		return models.Student{}, err
	}
	return s.students[idx], nil
}

// DeleteStudent removes the identified student unless they still hold an
// item through an active rental.
func (s *Store) DeleteStudent(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.students {
		if s.students[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("student %q: %w", id, ErrNotFound)
	}
	for _, r := range s.rentals {
		if r.Status == models.RentalActive && r.StudentID == id {
			return fmt.Errorf("student %q: %w", id, ErrStudentHasActiveRental)
		}
	}

	prev := s.students
	s.students = append(append([]models.Student(nil), s.students[:idx]...), s.students[idx+1:]...)
	return s.commitLocked(ctx, func() {
		s.students = prev
	})
}

// CreateRental checks both references, marks the item rented, and appends
// an active rental record with the student and item names captured at
// creation time. Item update and rental creation are applied together:
// both survive or neither does.
func (s *Store) CreateRental(ctx context.Context, studentID, itemID, startDate, endDate string) (models.RentalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var student *models.Student
	for i := range s.students {
		if s.students[i].ID == studentID {
			student = &s.students[i]
			break
		}
	}
	if student == nil {
		return models.RentalRecord{}, fmt.Errorf("student %q: %w", studentID, ErrNotFound)
	}

	idx := s.itemIndexLocked(itemID)
	if idx < 0 {
		return models.RentalRecord{}, fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	if s.items[idx].Status == models.StatusRented {
		return models.RentalRecord{}, fmt.Errorf("item %q: %w", itemID, ErrItemAlreadyRented)
	}

	prevStatus := s.items[idx].Status
	s.items[idx].Status = models.StatusRented

	rental := models.RentalRecord{
		ID:          s.newID(),
		StudentID:   studentID,
		ItemID:      itemID,
		StudentName: student.Name,
		ItemName:    s.items[idx].Name,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      models.RentalActive,
	}
	s.rentals = append(s.rentals, rental)

	if err := s.commitLocked(ctx, func() {
		s.items[idx].Status = prevStatus
		s.rentals = s.rentals[:len(s.rentals)-1]
	}); err != nil {
		return models.RentalRecord{}, err
	}
	return rental, nil
}

// CompleteRental marks the rental completed and returns the item to
// Available, unless the item was independently marked Need Repair.
// Calling it again on the same rental fails with ErrRentalAlreadyCompleted
// and leaves the item untouched.
func (s *Store) CompleteRental(ctx context.Context, rentalID string) (models.RentalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ridx := -1
	for i := range s.rentals {
		if s.rentals[i].ID == rentalID {
			ridx = i
			break
		}
	}
	if ridx < 0 {
		return models.RentalRecord{}, fmt.Errorf("rental %q: %w", rentalID, ErrNotFound)
	}
	if s.rentals[ridx].Status == models.RentalCompleted {
		return models.RentalRecord{}, fmt.Errorf("rental %q: %w", rentalID, ErrRentalAlreadyCompleted)
	}

	s.rentals[ridx].Status = models.RentalCompleted

	iidx := s.itemIndexLocked(s.rentals[ridx].ItemID)
	var prevItemStatus models.ItemStatus
	if iidx >= 0 {
		prevItemStatus = s.items[iidx].Status
		if s.items[iidx].Status != models.StatusNeedRepair {
			s.items[iidx].Status = models.StatusAvailable
		}
	}

	if err := s.commitLocked(ctx, func() {
		s.rentals[ridx].Status = models.RentalActive
		if iidx >= 0 {
			s.items[iidx].Status = prevItemStatus
		}
	}); err != nil {
		return models.RentalRecord{}, err
	}
	return s.rentals[ridx], nil
}

// LoadSampleData replaces the dataset with the demo dataset and persists.
func (s *Store) LoadSampleData(ctx context.Context) error {
	return s.ReplaceAll(ctx, models.SampleSnapshot())
}

// ReplaceAll swaps in the snapshot's collections as one indivisible
// assignment and persists. Used by restore: this is whole-dataset
// overwrite, not a merge, and readers never observe a partially-updated
// state.
func (s *Store) ReplaceAll(ctx context.Context, snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevItems, prevStudents, prevRentals := s.items, s.students, s.rentals
	s.items = append([]models.InventoryItem(nil), snap.Items...)
	s.students = append([]models.Student(nil), snap.Students...)
	s.rentals = append([]models.RentalRecord(nil), snap.Rentals...)

	return s.commitLocked(ctx, func() {
		s.items, s.students, s.rentals = prevItems, prevStudents, prevRentals
	})
}

// commitLocked persists the current dataset and notifies subscribers. On
// persistence failure it applies rollback and reports the failure, leaving
// the in-memory state as it was before the mutation. Callers must hold mu.
func (s *Store) commitLocked(ctx context.Context, rollback func()) error {
	if err := s.local.Save(ctx, s.snapshotLocked()); err != nil {
		rollback()
		s.log.Error("persistence failed, mutation rolled back", zap.Error(err))
		return fmt.Errorf("saving inventory: %w", err)
	}
	s.notifyLocked()
	return nil
}

func (s *Store) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		SchemaVersion: models.SnapshotSchemaVersion,
		CreatedAt:     time.Now().UTC(),
		Items:         append([]models.InventoryItem(nil), s.items...),
		Students:      append([]models.Student(nil), s.students...),
		Rentals:       append([]models.RentalRecord(nil), s.rentals...),
	}
}

func (s *Store) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) itemIndexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// barcodeTakenLocked reports whether any item other than exceptID carries
// the barcode.
func (s *Store) barcodeTakenLocked(barcode, exceptID string) bool {
	for i := range s.items {
		if s.items[i].Barcode == barcode && s.items[i].ID != exceptID {
			return true
		}
	}
	return false
}
