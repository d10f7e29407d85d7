package models

// SampleSnapshot returns the demo dataset: eight instruments across all four
// main categories, five students, three active rentals and one completed
// rental. Meant for exploring the system before real data is entered.
func SampleSnapshot() Snapshot {
	return Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Items: []InventoryItem{
			{ID: "1", Name: "Trumpet", Category: CategoryBrass, Brand: "Bach", Model: "TR200", Barcode: "TR001", Condition: ConditionGood, Status: StatusAvailable, Value: 450},
			{ID: "2", Name: "Clarinet", Category: CategoryWoodwind, Brand: "Buffet", Model: "E11", Barcode: "CL001", Condition: ConditionExcellent, Status: StatusRented, Value: 320},
			{ID: "3", Name: "Snare Drum", Category: CategoryPercussion, Brand: "Pearl", Model: "SD100", Barcode: "SD001", Condition: ConditionGood, Status: StatusAvailable, Value: 180},
			{ID: "4", Name: "Violin", Category: CategoryString, Brand: "Stentor", Model: "Student I", Barcode: "VL001", Condition: ConditionFair, Status: StatusNeedRepair, Value: 120},
			{ID: "5", Name: "Flute", Category: CategoryWoodwind, Brand: "Yamaha", Model: "YFL-222", Barcode: "FL001", Condition: ConditionExcellent, Status: StatusAvailable, Value: 280},
			{ID: "6", Name: "Trombone", Category: CategoryBrass, Brand: "Conn", Model: "88H", Barcode: "TB001", Condition: ConditionGood, Status: StatusRented, Value: 520},
			{ID: "7", Name: "Timpani", Category: CategoryPercussion, Brand: "Adams", Model: "Revolution", Barcode: "TI001", Condition: ConditionExcellent, Status: StatusAvailable, Value: 1200},
			{ID: "8", Name: "Cello", Category: CategoryString, Brand: "Eastman", Model: "VC80", Barcode: "CE001", Condition: ConditionGood, Status: StatusRented, Value: 800},
		},
		Students: []Student{
			{ID: "1", Name: "Emily Johnson", Grade: "10th", Email: "emily.j@school.edu", Phone: "555-0101"},
			{ID: "2", Name: "Marcus Chen", Grade: "11th", Email: "marcus.c@school.edu", Phone: "555-0102"},
			{ID: "3", Name: "Sarah Williams", Grade: "9th", Email: "sarah.w@school.edu", Phone: "555-0103"},
			{ID: "4", Name: "David Rodriguez", Grade: "12th", Email: "david.r@school.edu", Phone: "555-0104"},
			{ID: "5", Name: "Lisa Thompson", Grade: "10th", Email: "lisa.t@school.edu", Phone: "555-0105"},
		},
		Rentals: []RentalRecord{
			{ID: "1", StudentID: "1", ItemID: "2", StudentName: "Emily Johnson", ItemName: "Clarinet", StartDate: "2024-01-15", EndDate: "2024-06-15", Status: RentalActive},
			{ID: "2", StudentID: "2", ItemID: "6", StudentName: "Marcus Chen", ItemName: "Trombone", StartDate: "2024-01-20", EndDate: "2024-06-20", Status: RentalActive},
			{ID: "3", StudentID: "3", ItemID: "8", StudentName: "Sarah Williams", ItemName: "Cello", StartDate: "2024-02-01", EndDate: "2024-07-01", Status: RentalActive},
			{ID: "4", StudentID: "4", ItemID: "1", StudentName: "David Rodriguez", ItemName: "Trumpet", StartDate: "2023-09-01", EndDate: "2023-12-15", Status: RentalCompleted},
		},
	}
}
