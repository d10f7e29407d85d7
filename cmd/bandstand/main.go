// Package main runs the bandstand inventory client: a local-first store
// of instruments, students, and rentals, with optional manual backup to a
// cloud blob store behind Google sign-in.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bandstand/bandstand/internal/auth"
	"github.com/bandstand/bandstand/internal/auth/google"
	"github.com/bandstand/bandstand/internal/barcode"
	"github.com/bandstand/bandstand/internal/config"
	"github.com/bandstand/bandstand/internal/export"
	"github.com/bandstand/bandstand/internal/inventory"
	"github.com/bandstand/bandstand/internal/logger"
	"github.com/bandstand/bandstand/internal/models"
	"github.com/bandstand/bandstand/internal/persist"
	"github.com/bandstand/bandstand/internal/syncer"
)

var (
	version   string
	buildDate string
)

const helpText = `Available commands:
  sample                              load the demo dataset
  items | students | rentals | stats  list records / show statistics
  add-item | add-student              add a record (prompted)
  rent <studentID> <itemID> <start> <end>
  return <rentalID>
  delete-item <id> | delete-student <id>
  export <items|students|rentals> <path>
  labels                              print barcode labels
  login | logout | backup | restore | status
  help | exit`

func main() {
	options := config.Parse()

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	if version != "" {
		fmt.Printf("bandstand %s (built %s)\n", version, buildDate)
	}

	ctx := context.Background()

	local, err := openLocal(options, zapLogger)
	if err != nil {
		zapLogger.Fatal("cannot open local storage", zap.Error(err))
	}
	defer func() { _ = local.Close() }()

	store := inventory.New(local, zapLogger)
	if err := store.Load(ctx); err != nil {
		zapLogger.Fatal("cannot load local dataset", zap.Error(err))
	}

	authn := google.New(google.Config{
		ClientID:     options.OAuthClientID,
		ClientSecret: options.OAuthClientSecret,
		ListenAddr:   options.AuthListenAddr,
	}, zapLogger)
	session := auth.NewSession(authn, zapLogger)

	remote := syncer.NewHTTPRemote(options.RemoteURL, &http.Client{Timeout: 60 * time.Second})
	engine := syncer.New(store, session, remote, zapLogger)

	repl(ctx, store, session, engine)
}

func openLocal(options *config.Options, log *zap.Logger) (persist.Store, error) {
	switch options.StorageBackend {
	case "sqlite":
		return persist.OpenSQLite(options.StoragePath, log)
	case "file", "":
		return persist.NewFileStore(options.StoragePath, log), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", options.StorageBackend)
	}
}

// repl runs the interactive shell loop.
func repl(ctx context.Context, store *inventory.Store, session *auth.Session, engine *syncer.Engine) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("bandstand> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println(helpText)
		case "sample":
			if err := store.LoadSampleData(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Sample data loaded")
		case "items":
			printItems(store.Items())
		case "students":
			printStudents(store.Students())
		case "rentals":
			printRentals(store.Rentals())
		case "stats":
			st := store.Stats()
			fmt.Printf("Total: %d  Rented: %d  Available: %d  Need repair: %d  Value: $%.0f\n",
				st.TotalItems, st.RentedItems, st.AvailableItems, st.NeedRepairItems, st.TotalValue)
		case "add-item":
			item, err := store.AddItem(ctx, promptItem(scanner))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Added item", item.ID)
		case "add-student":
			st, err := store.AddStudent(ctx, promptStudent(scanner))
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Added student", st.ID)
		case "rent":
			if len(args) < 5 {
				fmt.Println("Usage: rent <studentID> <itemID> <start> <end>")
				continue
			}
			rental, err := store.CreateRental(ctx, args[1], args[2], args[3], args[4])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("Rented %s to %s (rental %s)\n", rental.ItemName, rental.StudentName, rental.ID)
		case "return":
			if len(args) < 2 {
				fmt.Println("Usage: return <rentalID>")
				continue
			}
			rental, err := store.CompleteRental(ctx, args[1])
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("Returned %s\n", rental.ItemName)
		case "delete-item":
			if len(args) < 2 {
				fmt.Println("Usage: delete-item <id>")
				continue
			}
			if err := store.DeleteItem(ctx, args[1]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Item deleted")
		case "delete-student":
			if len(args) < 2 {
				fmt.Println("Usage: delete-student <id>")
				continue
			}
			if err := store.DeleteStudent(ctx, args[1]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Student deleted")
		case "export":
			if len(args) < 3 {
				fmt.Println("Usage: export <items|students|rentals> <path>")
				continue
			}
			if err := exportTo(store, args[1], args[2]); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Exported to", args[2])
		case "labels":
			sheet, err := barcode.Sheet(barcode.TextRenderer{}, store.Items())
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			os.Stdout.Write(sheet)
		case "login":
			if err := session.SignIn(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Signed in as", session.Account())
		case "logout":
			session.SignOut()
			fmt.Println("Signed out")
		case "backup":
			if err := engine.ManualBackup(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Backup uploaded")
		case "restore":
			if err := engine.ManualRestore(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Println("Restore applied. Local edits since the last backup were discarded.")
		case "status":
			printStatus(engine.Status())
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func exportTo(store *inventory.Store, what, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch what {
	case "items":
		return export.WriteItemsCSV(f, store.Items())
	case "students":
		return export.WriteStudentsCSV(f, store.Students())
	case "rentals":
		return export.WriteRentalsCSV(f, store.Rentals())
	default:
		return errors.New("unknown export target: " + what)
	}
}

func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(label + ": ")
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func promptItem(scanner *bufio.Scanner) models.InventoryItem {
	item := models.InventoryItem{
		Name:     promptLine(scanner, "Name"),
		Category: models.Category(promptLine(scanner, "Category (Brass/Woodwind/Percussion/String/Other)")),
		Brand:    promptLine(scanner, "Brand"),
		Model:    promptLine(scanner, "Model"),
		Barcode:  promptLine(scanner, "Barcode"),
		Location: promptLine(scanner, "Location (optional)"),
	}
	if cond := promptLine(scanner, "Condition (Excellent/Good/Fair/Poor)"); cond != "" {
		item.Condition = models.Condition(cond)
	}
	fmt.Sscanf(promptLine(scanner, "Value"), "%f", &item.Value)
	return item
}

func promptStudent(scanner *bufio.Scanner) models.Student {
	return models.Student{
		Name:  promptLine(scanner, "Name"),
		Grade: promptLine(scanner, "Grade"),
		Email: promptLine(scanner, "Email"),
		Phone: promptLine(scanner, "Phone"),
	}
}

func printItems(items []models.InventoryItem) {
	if len(items) == 0 {
		fmt.Println("No items. Use 'add-item' or 'sample' to get started.")
		return
	}
	for _, item := range items {
		fmt.Printf("%-10s %-12s %-12s %-10s %-8s %-12s %-12s $%.0f\n",
			item.ID, item.Name, item.Category, item.Brand, item.Barcode,
			item.Condition, item.Status, item.Value)
	}
}

func printStudents(students []models.Student) {
	if len(students) == 0 {
		fmt.Println("No students.")
		return
	}
	for _, st := range students {
		fmt.Printf("%-10s %-18s %-5s %-22s %s\n", st.ID, st.Name, st.Grade, st.Email, st.Phone)
	}
}

func printRentals(rentals []models.RentalRecord) {
	if len(rentals) == 0 {
		fmt.Println("No rentals.")
		return
	}
	for _, r := range rentals {
		fmt.Printf("%-10s %-18s %-12s %s .. %s  %s\n",
			r.ID, r.StudentName, r.ItemName, r.StartDate, r.EndDate, r.Status)
	}
}

func printStatus(status models.SyncStatus) {
	if status.SignedIn {
		fmt.Println("Signed in as", status.Account)
	} else {
		fmt.Println("Signed out")
	}
	if status.Syncing {
		fmt.Println("Sync in progress")
	}
	if status.LastBackupAt != nil {
		fmt.Println("Last backup:", status.LastBackupAt.Format(time.RFC3339))
	} else {
		fmt.Println("No backup this session")
	}
	if status.LastError != "" {
		fmt.Println("Last error:", status.LastError)
	}
}
