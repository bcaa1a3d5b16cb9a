package system

import (
	"fmt"

	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/instance"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	store := ctx.App.Store()

	// Check 1: store reachable
	if _, _, err := store.Get("pa.doctor.probe"); err != nil {
		ctx.Printf("❌ Store reachable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		ctx.Printf("✓ Store reachable: OK (%s)\n", store.GetConfigPath())
	}

	// Check 2: schema version (SQLite only)
	if sqlite, ok := store.(*storage.SQLiteStore); ok {
		if v, err := sqlite.SchemaVersion(); err != nil {
			ctx.Printf("❌ Schema version: FAIL\n   Error: %v\n", err)
			hasError = true
		} else {
			ctx.Printf("✓ Schema version: OK (%d)\n", v)
		}
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (not a database store)\n")
	}

	// Check 3: snapshot contents
	snap := ctx.App.Snapshot()
	ctx.Printf("✓ Snapshot: version %d, %d skills, %d sessions\n",
		snap.Version, len(snap.Payload.Skills), len(snap.Payload.Sessions))

	res := ctx.App.Validate()
	if res.HasConflicts() {
		ctx.Printf("⚠ Integrity: WARNING\n")
		for _, c := range res.Conflicts {
			ctx.Printf("   - %s\n", c.Description)
		}
	} else {
		ctx.Printf("✓ Integrity: OK\n")
	}

	// Check 4: backups present (warning only)
	if mgr := ctx.App.Backups(); mgr != nil {
		latest, ok, err := mgr.Latest()
		switch {
		case err != nil:
			ctx.Printf("⚠ Backups present: WARNING\n   Error: %v\n", err)
		case !ok:
			ctx.Printf("⚠ Backups present: WARNING\n   No backups in %s (run: pa backup create)\n", mgr.GetBackupDir())
		default:
			ctx.Printf("✓ Backups present: OK (latest %s)\n", latest.Timestamp.Format("2006-01-02 15:04"))
		}
	}

	// Check 5: other running copies (warning only)
	if others, err := instance.Others(); err != nil {
		ctx.Printf("⊘ Other instances: SKIPPED (%v)\n", err)
	} else if len(others) > 0 {
		ctx.Printf("⚠ Other instances: WARNING\n")
		for _, o := range others {
			ctx.Printf("   - %s (pid %d); the last one to save wins\n", o.Executable, o.Pid)
		}
	} else {
		ctx.Printf("✓ Other instances: none\n")
	}

	if f := logger.File(); f != "" {
		ctx.Printf("\nLog file: %s\n", f)
	}

	ctx.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	ctx.Println("All checks passed.")
	return nil
}
